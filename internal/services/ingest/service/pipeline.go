// Package service implements the ingestion pipeline and its orchestrator
package service

import (
	"time"

	"rosterline/internal/core/coerce"
	"rosterline/internal/core/schema"
	"rosterline/internal/services/ingest/domain"
)

// Normalize rewrites every row's headers to canonical field names via the
// record type's alias table. Pure; source order is preserved.
func Normalize(rows []domain.RawRow, cfg domain.RecordTypeConfig) []domain.NormalizedRow {
	out := make([]domain.NormalizedRow, len(rows))
	for i, row := range rows {
		out[i] = domain.NormalizedRow(schema.NormalizeRow(row, cfg.Aliases))
	}
	return out
}

// Coerce types every declared field of every row. Fields the row does not
// carry come out as the empty value of their kind, so later stages never see
// an absent declared field. Row indices are 1-based to match what an
// operator sees in a spreadsheet (row 1 is the first data row).
func Coerce(rows []domain.NormalizedRow, cfg domain.RecordTypeConfig) []domain.TypedRecord {
	out := make([]domain.TypedRecord, len(rows))
	for i, row := range rows {
		rec := domain.TypedRecord{Row: i + 1, Fields: make(map[string]any, len(cfg.Fields))}
		for _, f := range cfg.Fields {
			rec.Fields[f.Name] = coerceField(row[f.Name], f.Kind)
		}
		out[i] = rec
	}
	return out
}

func coerceField(v any, kind domain.FieldKind) any {
	switch kind {
	case domain.KindDate:
		return coerce.Date(v)
	case domain.KindPhone:
		return coerce.Phone(v)
	case domain.KindBool:
		return coerce.Bool(v)
	case domain.KindFloat:
		return coerce.Float(v)
	default:
		return coerce.String(v)
	}
}

// fieldEmpty reports whether a coerced value counts as absent for required
// and identity checks. A zero float and a false boolean are values, not
// gaps; absence is carried by nil pointers and empty strings.
func fieldEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case *time.Time:
		return t == nil || t.IsZero()
	case *float64:
		return t == nil
	default:
		return false
	}
}
