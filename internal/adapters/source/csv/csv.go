// Package csv reads delimited text files into raw rows
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"io"

	"rosterline/internal/adapters/source"
	perr "rosterline/internal/platform/errors"
	"rosterline/internal/services/ingest/domain"
)

// Reader reads one delimited file fully into memory
type Reader struct {
	name string
	r    io.Reader

	// Comma overrides the field delimiter; zero keeps ','
	Comma rune
}

// New constructs a csv reader over r. name is the display name used in
// reports and errors.
func New(name string, r io.Reader) *Reader {
	return &Reader{name: name, r: r}
}

// Name implements domain.ReaderPort
func (c *Reader) Name() string { return c.name }

// Read implements domain.ReaderPort
func (c *Reader) Read(_ context.Context) ([]domain.RawRow, error) {
	cr := stdcsv.NewReader(c.r)
	cr.FieldsPerRecord = -1 // ragged exports are normal, pad instead of reject
	if c.Comma != 0 {
		cr.Comma = c.Comma
	}

	grid, err := cr.ReadAll()
	if err != nil {
		return nil, perr.Parsef("reading %s: %v", c.name, err)
	}
	return source.FromGrid(grid), nil
}
