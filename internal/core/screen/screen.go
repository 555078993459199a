// Package screen checks incoming people against a do-not-return registry.
// An Index is built once per run from the registry snapshot and probed per
// record; probes never touch storage.
package screen

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"rosterline/internal/core/schema"
)

// Score bands per match kind. Exact identifier hits outrank exact name hits,
// which outrank fuzzy ones.
const (
	ScoreExactID     = 100
	ScoreExactName   = 95
	ScoreFuzzyBoth   = 80
	ScoreFuzzyOne    = 50
	DefaultThreshold = 50
)

// Entry is one registry record as loaded from storage.
type Entry struct {
	DocID  string
	EID    string
	Name   string
	Reason string
}

// Match reports one registry entry flagged for a probed person.
type Match struct {
	Entry  Entry
	Kind   string // "exact-id", "exact-name" or "fuzzy-name"
	Score  int
	Reason string
}

// Index holds the registry pre-normalized for probing.
type Index struct {
	threshold int
	entries   []Entry

	byEID  map[string][]int
	byName map[string][]int
	names  []indexedName
}

type indexedName struct {
	entry       int
	first, last string
}

// Option tunes index construction.
type Option func(*Index)

// WithThreshold overrides the minimum score a match must reach to be
// reported. Values at or below zero keep the default.
func WithThreshold(n int) Option {
	return func(ix *Index) {
		if n > 0 {
			ix.threshold = n
		}
	}
}

// NewIndex normalizes every entry once. Entries without an identifier are
// still probeable by name; entries without a usable name only match by
// identifier.
func NewIndex(entries []Entry, opts ...Option) *Index {
	ix := &Index{
		threshold: DefaultThreshold,
		byEID:     make(map[string][]int, len(entries)),
		byName:    make(map[string][]int, len(entries)),
	}
	for _, o := range opts {
		o(ix)
	}

	ix.entries = entries
	ix.names = make([]indexedName, 0, len(entries))
	for i, e := range entries {
		if e.EID != "" {
			ix.byEID[e.EID] = append(ix.byEID[e.EID], i)
		}
		norm := schema.NormalizeName(e.Name)
		if norm == "" {
			continue
		}
		ix.byName[norm] = append(ix.byName[norm], i)
		first, last := schema.NameTokens(norm)
		ix.names = append(ix.names, indexedName{entry: i, first: first, last: last})
	}

	return ix
}

// Probe screens one person. id is the exact identifier as recorded, name the
// raw display name. Every entry contributes at most its single best match;
// results come back ordered by score descending, then registry order.
func (ix *Index) Probe(id, name string) []Match {
	best := map[int]Match{}

	if id != "" {
		for _, i := range ix.byEID[id] {
			placeBest(best, i, Match{Entry: ix.entries[i], Kind: "exact-id", Score: ScoreExactID, Reason: ix.entries[i].Reason})
		}
	}

	norm := schema.NormalizeName(name)
	if norm != "" {
		for _, i := range ix.byName[norm] {
			placeBest(best, i, Match{Entry: ix.entries[i], Kind: "exact-name", Score: ScoreExactName, Reason: ix.entries[i].Reason})
		}

		first, last := schema.NameTokens(norm)
		for _, n := range ix.names {
			score := fuzzyScore(first, last, n.first, n.last)
			if score == 0 {
				continue
			}
			placeBest(best, n.entry, Match{Entry: ix.entries[n.entry], Kind: "fuzzy-name", Score: score, Reason: ix.entries[n.entry].Reason})
		}
	}

	hit := make([]int, 0, len(best))
	for i := range best {
		hit = append(hit, i)
	}
	sort.Ints(hit) // registry order as the tiebreak

	out := make([]Match, 0, len(hit))
	for _, i := range hit {
		if best[i].Score >= ix.threshold {
			out = append(out, best[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

// fuzzyScore compares first and last tokens pairwise. A token matches when
// it is identical or within Levenshtein distance 1 of its counterpart.
func fuzzyScore(f1, l1, f2, l2 string) int {
	matches := 0
	if tokenMatch(f1, f2) {
		matches++
	}
	if tokenMatch(l1, l2) {
		matches++
	}
	switch matches {
	case 2:
		return ScoreFuzzyBoth
	case 1:
		return ScoreFuzzyOne
	default:
		return 0
	}
}

func tokenMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return fuzzy.LevenshteinDistance(a, b) <= 1
}

func placeBest(best map[int]Match, i int, m Match) {
	if prev, ok := best[i]; ok && prev.Score >= m.Score {
		return
	}
	best[i] = m
}
