package service

import (
	"sort"

	"rosterline/internal/services/ingest/domain"
)

// ResolveIdentity walks the record type's precedence list in order and
// returns the first non-empty field value. Empty means the record has no
// identity; per-type policy decides what happens to it.
func ResolveIdentity(rec domain.TypedRecord, cfg domain.RecordTypeConfig) domain.IdentityKey {
	for _, field := range cfg.Identity {
		if v := rec.String(field); v != "" {
			return v
		}
	}
	return ""
}

// Collisions maps every resolved identity in the run to its claiming rows
// and reports keys claimed more than once. Collisions are surfaced, never
// silently deduplicated.
func Collisions(records []domain.TypedRecord, cfg domain.RecordTypeConfig) []domain.Collision {
	byKey := make(map[domain.IdentityKey][]int)
	for _, rec := range records {
		key := ResolveIdentity(rec, cfg)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], rec.Row)
	}

	var out []domain.Collision
	for key, rows := range byKey {
		if len(rows) > 1 {
			sort.Ints(rows)
			out = append(out, domain.Collision{Key: key, Rows: rows})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// identityKeys returns the distinct non-empty identities of a record set,
// in first-seen order.
func identityKeys(records []domain.TypedRecord, cfg domain.RecordTypeConfig) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, len(records))
	for _, rec := range records {
		key := ResolveIdentity(rec, cfg)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
