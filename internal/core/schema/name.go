package schema

import "strings"

// NormalizeName canonicalizes a person name for matching: lowercased,
// diacritics stripped, punctuation removed, single-spaced. "Last, First"
// order is flipped to "first last" when a comma is present.
func NormalizeName(name string) string {
	if i := strings.IndexByte(name, ','); i >= 0 {
		last := name[:i]
		first := name[i+1:]
		name = first + " " + last
	}

	fields := strings.Fields(name)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := NormalizeKey(f); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

// NameTokens returns the first and last tokens of a normalized name. A single
// token name yields (token, ""). Empty names yield ("", "").
func NameTokens(normalized string) (first, last string) {
	fields := strings.Fields(normalized)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], fields[len(fields)-1]
	}
}
