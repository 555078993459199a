// Package source turns spreadsheet and delimited-text files into raw rows
// for the ingestion pipeline
package source

import (
	"strings"

	"rosterline/internal/services/ingest/domain"
)

// FromGrid converts a header-first grid into raw rows. The first row is the
// header row; short data rows are padded with empties, fully empty rows are
// dropped. Cell values stay strings; the coercers own typing.
func FromGrid(grid [][]string) []domain.RawRow {
	if len(grid) < 2 {
		return nil
	}
	headers := grid[0]

	out := make([]domain.RawRow, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		if blank(cells) {
			continue
		}
		row := make(domain.RawRow, len(headers))
		for i, h := range headers {
			if strings.TrimSpace(h) == "" {
				continue
			}
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		out = append(out, row)
	}
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
