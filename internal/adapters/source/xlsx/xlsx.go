// Package xlsx reads spreadsheet workbooks into raw rows. Only the first
// sheet of a workbook is read.
package xlsx

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"rosterline/internal/adapters/source"
	perr "rosterline/internal/platform/errors"
	"rosterline/internal/services/ingest/domain"
)

// Reader reads one workbook fully into memory
type Reader struct {
	name string
	r    io.Reader
}

// New constructs an xlsx reader over r. name is the display name used in
// reports and errors.
func New(name string, r io.Reader) *Reader {
	return &Reader{name: name, r: r}
}

// Name implements domain.ReaderPort
func (x *Reader) Name() string { return x.name }

// Read implements domain.ReaderPort
func (x *Reader) Read(_ context.Context) ([]domain.RawRow, error) {
	f, err := excelize.OpenReader(x.r)
	if err != nil {
		return nil, perr.Parsef("opening %s: %v", x.name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, perr.Parsef("%s has no sheets", x.name)
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, perr.Parsef("reading %s sheet %q: %v", x.name, sheets[0], err)
	}
	return source.FromGrid(grid), nil
}
