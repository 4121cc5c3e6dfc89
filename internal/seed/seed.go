// Package seed bulk-imports inventory from JSON-lines files of item drafts,
// read from the local file system or from S3.
package seed

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"freshguard/internal/form"
	"freshguard/internal/model"
)

// Loader reads a seed file and returns its records in file order.
type Loader interface {
	Load(ctx context.Context, path string) ([]Record, error)
}

// Record is one item draft of a seed file. Dates may be written as
// "YYYY-MM-DD" or as [year, month, day].
type Record struct {
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Quantity       int        `json:"quantity"`
	Location       string     `json:"location"`
	PurchaseDate   model.Date `json:"purchaseDate"`
	ExpirationDate model.Date `json:"expirationDate"`
}

// Draft returns the record as item form input.
func (r Record) Draft() form.ItemDraft {
	return form.ItemDraft{
		Name:           r.Name,
		Category:       r.Category,
		PurchaseDate:   r.PurchaseDate.String(),
		ExpirationDate: r.ExpirationDate.String(),
		Quantity:       r.Quantity,
		Location:       r.Location,
	}
}

var gzipMagic = []byte{0x1f, 0x8b}

// Decode reads JSON-lines records from r, which may be gzip-compressed.
// Blank lines and lines starting with '#' are skipped.
func Decode(ctx context.Context, r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if head, err := br.Peek(len(gzipMagic)); err == nil && bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	records := []Record{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed data: %w", err)
	}

	return records, nil
}
