// Package dates converts between calendar dates, their display strings
// and the numeric component arrays used on the wire.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the display format of a calendar date.
const Layout = "2006-01-02"

// Component counts of the array forms.
const (
	dateLen      = 3
	timestampLen = 6
)

var (
	// ErrMalformed is returned when an array has too few components to form a date.
	ErrMalformed = errors.New("date array must hold year, month and day")

	// ErrTooLong is returned when an array carries more components than the format allows.
	ErrTooLong = errors.New("date array has too many components")
)

// now is replaced in tests.
var now = time.Now

// ToArray returns [year, month, day] for t, month 1-based.
func ToArray(t time.Time) []int {
	return []int{t.Year(), int(t.Month()), t.Day()}
}

// FromArray decodes [year, month, day] into a display string.
// Out-of-range components roll over the way a calendar does, so [2024, 13, 1]
// becomes 2025-01-01. Extra components beyond the third are ignored.
func FromArray(a []int) (string, error) {
	t, err := ArrayToTime(a)
	if err != nil {
		return "", err
	}
	return t.Format(Layout), nil
}

// FromArrayOrToday decodes like FromArray but substitutes today's UTC date
// when the array is too short.
//
// Deprecated: the silent substitution hides missing data. Use FromArray and
// handle ErrMalformed.
func FromArrayOrToday(a []int) string {
	s, err := FromArray(a)
	if err != nil {
		return now().UTC().Format(Layout)
	}
	return s
}

// ArrayToTime decodes [year, month, day] into midnight UTC of that date.
func ArrayToTime(a []int) (time.Time, error) {
	if len(a) < dateLen {
		return time.Time{}, fmt.Errorf("%w: got %d components", ErrMalformed, len(a))
	}
	return time.Date(a[0], time.Month(a[1]), a[2], 0, 0, 0, 0, time.UTC), nil
}

// Parse reads a display string as a calendar date at midnight UTC.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// StringToArray parses a display string straight into [year, month, day].
func StringToArray(s string) ([]int, error) {
	t, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return ToArray(t), nil
}

// TimestampToArray returns [year, month, day, hour, minute, second].
func TimestampToArray(t time.Time) []int {
	return []int{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second()}
}

// ArrayToTimestamp is the inverse of TimestampToArray. Missing time
// components count as zero, and an optional seventh component carries
// nanoseconds. The result has no zone information and is returned in UTC.
func ArrayToTimestamp(a []int) (time.Time, error) {
	if len(a) < dateLen {
		return time.Time{}, fmt.Errorf("%w: got %d components", ErrMalformed, len(a))
	}
	if len(a) > timestampLen+1 {
		return time.Time{}, fmt.Errorf("%w: got %d components", ErrTooLong, len(a))
	}

	var c [timestampLen + 1]int
	copy(c[:], a)
	return time.Date(c[0], time.Month(c[1]), c[2], c[3], c[4], c[5], c[6], time.UTC), nil
}
