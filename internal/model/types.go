package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"freshguard/internal/dates"
)

// TimestampLayout is the wire form of a timestamp: a local date-time
// with millisecond precision and no zone.
const TimestampLayout = "2006-01-02T15:04:05.000"

var nullJSON = []byte("null")

// Date is a calendar date travelling as [year, month, day].
// A nil Date means the date is unset.
type Date []int

// NewDate builds a Date from t.
func NewDate(t time.Time) Date {
	return Date(dates.ToArray(t))
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return len(d) == 0
}

// String returns the display form, or "" when the date is unset or malformed.
func (d Date) String() string {
	s, err := dates.FromArray(d)
	if err != nil {
		return ""
	}
	return s
}

// MarshalJSON encodes the date as a three-element array, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return nullJSON, nil
	}
	return json.Marshal([]int(d))
}

// UnmarshalJSON accepts [y, m, d], "YYYY-MM-DD" or null. Arrays with fewer
// than three components fail with dates.ErrMalformed.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullJSON) {
		*d = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*d = nil
			return nil
		}
		arr, err := dates.StringToArray(s)
		if err != nil {
			return err
		}
		*d = arr
		return nil
	}

	var arr []int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("invalid date %s: %w", data, err)
	}
	if len(arr) == 0 {
		*d = nil
		return nil
	}
	if _, err := dates.FromArray(arr); err != nil {
		return fmt.Errorf("invalid date %s: %w", data, err)
	}
	*d = arr
	return nil
}

// Timestamp is a date-time without zone information.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, truncated to milliseconds.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Millisecond)}
}

// String returns the wire form, or "" when unset.
func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(TimestampLayout)
}

// MarshalJSON encodes the timestamp as a string, or null when unset.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return nullJSON, nil
	}
	return json.Marshal(ts.Format(TimestampLayout))
}

// UnmarshalJSON accepts the wire layout, RFC 3339, a [y, m, d, h, mi, s]
// array or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullJSON) {
		*ts = Timestamp{}
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var arr []int
		if err := json.Unmarshal(data, &arr); err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", data, err)
		}
		t, err := dates.ArrayToTimestamp(arr)
		if err != nil {
			return err
		}
		*ts = Timestamp{Time: t}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = t
	return nil
}

// ParseTimestamp reads any of the accepted string layouts. The empty string
// yields the zero Timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}
