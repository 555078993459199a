// Package schema maps inconsistent spreadsheet column headers onto canonical
// field names
// Pipeline order for header keys
// 1 Replace carriage returns and newlines with spaces
// 2 Unicode NFKD decomposition and case folding
// 3 Remove zero-width and combining marks, then recompose
// 4 Collapse whitespace runs and trim
// 5 Strip every remaining non-alphanumeric rune
package schema

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline. NFKD first:
		// precomposed letters must be split before the mark strip or the
		// whole letter survives with its accent intact
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
			norm.NFC,                           // recompose what remains
		)
	},
}

// NormalizeKey returns the canonical lookup form of a raw column header.
// Deterministic: case and interior whitespace of the input never affect the
// output, and already-normalized keys pass through unchanged.
func NormalizeKey(header string) string {
	if header == "" {
		return ""
	}

	s := strings.ToValidUTF8(header, "")
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	var b strings.Builder
	b.Grow(len(ns))
	for _, r := range ns {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeRow rewrites every header in raw to its canonical field name via
// the alias table. Unknown headers keep their normalized key so unanticipated
// columns flow through unused. Pure function; raw is never mutated.
func NormalizeRow(raw map[string]any, aliases map[string]string) map[string]any {
	out := make(map[string]any, len(raw))
	for header, value := range raw {
		key := NormalizeKey(header)
		if key == "" {
			continue
		}
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		out[key] = value
	}
	return out
}
