// Package coerce converts loosely typed spreadsheet cell values into the
// concrete types records carry. Every function is total: malformed input
// yields the zero value (or nil), never an error or panic.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is day zero of the spreadsheet serial date system.
// Serial 45000 lands on 2023-03-15.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts tried in order after RFC 3339 and the serial path fail
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006/01/02",
}

// String flattens any cell value to a trimmed string. Nil becomes "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// whole floats print without a mantissa so IDs survive round-trips
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return String(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Date interprets a cell as a calendar date. Numeric values (and numeric
// strings) are treated as spreadsheet serial days from the 1899-12-30 epoch;
// everything else runs through the layout list. Returns nil when no
// interpretation fits.
func Date(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		d := t.UTC().Truncate(24 * time.Hour)
		return &d
	case float64:
		return fromSerial(t)
	case float32:
		return fromSerial(float64(t))
	case int:
		return fromSerial(float64(t))
	case int64:
		return fromSerial(float64(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(serial)
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			d := ts.UTC().Truncate(24 * time.Hour)
			return &d
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				d := ts.UTC()
				return &d
			}
		}
		return nil
	default:
		return nil
	}
}

// fromSerial maps a spreadsheet serial day count onto a UTC date. Serial
// values outside a plausible hiring-era window are rejected, which keeps
// stray numeric cells from masquerading as dates.
func fromSerial(serial float64) *time.Time {
	days := int(math.Floor(serial))
	if days < 1 || days > 200_000 { // roughly 1900 through 2447
		return nil
	}
	d := serialEpoch.AddDate(0, 0, days)
	return &d
}

// Phone strips a cell down to its digits. Non-digit runes vanish, so
// "(555) 123-4567" and "555.123.4567" both become "5551234567".
func Phone(v any) string {
	s := String(v)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Bool reads affirmative cell values. Only a literal "yes", case
// insensitively, counts; everything else, including "y", "1" and empty
// cells, is false. Native boolean cells pass through.
func Bool(v any) bool {
	if t, ok := v.(bool); ok {
		return t
	}
	return strings.EqualFold(String(v), "yes")
}

// Float reads a numeric cell, tolerating thousands separators and a leading
// currency sign in string values. Returns nil when the cell is empty or
// unparseable, so required checks can tell an absent value from a zero.
func Float(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case float32:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
