package screen

import "testing"

func registry() []Entry {
	return []Entry{
		{DocID: "d1", EID: "A100", Name: "Jane Doe", Reason: "walked off shift"},
		{DocID: "d2", EID: "B200", Name: "John Smith", Reason: "no call no show"},
		{DocID: "d3", Name: "García, José", Reason: "terminated"},
	}
}

func TestProbeExactID(t *testing.T) {
	ix := NewIndex(registry())
	got := ix.Probe("A100", "Completely Different")
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	m := got[0]
	if m.Kind != "exact-id" || m.Score != ScoreExactID || m.Entry.DocID != "d1" {
		t.Fatalf("unexpected match %+v", m)
	}
	if m.Reason != "walked off shift" {
		t.Fatalf("reason %q", m.Reason)
	}
}

func TestProbeExactName(t *testing.T) {
	ix := NewIndex(registry())

	// comma order and diacritics do not matter
	got := ix.Probe("", "Jose Garcia")
	if len(got) != 1 || got[0].Kind != "exact-name" || got[0].Score != ScoreExactName {
		t.Fatalf("unexpected matches %+v", got)
	}
	if got[0].Entry.DocID != "d3" {
		t.Fatalf("matched %q", got[0].Entry.DocID)
	}
}

func TestProbeFuzzy(t *testing.T) {
	ix := NewIndex(registry())

	cases := []struct {
		name  string
		probe string
		score int
	}{
		{"both tokens off by one", "Jane Do", ScoreFuzzyBoth},
		{"typo in first", "Jana Doe", ScoreFuzzyBoth},
		{"last only", "Alexandra Doe", ScoreFuzzyOne},
		{"first only", "Jane Robertson", ScoreFuzzyOne},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ix.Probe("", tc.probe)
			if len(got) == 0 {
				t.Fatalf("Probe(%q): no matches", tc.probe)
			}
			if got[0].Score != tc.score || got[0].Entry.DocID != "d1" {
				t.Fatalf("Probe(%q) = %+v, want score %d on d1", tc.probe, got[0], tc.score)
			}
		})
	}
}

func TestProbeNoMatch(t *testing.T) {
	ix := NewIndex(registry())
	if got := ix.Probe("Z999", "Wilhelmina Verylongname"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
	if got := ix.Probe("", ""); len(got) != 0 {
		t.Fatalf("empty probe matched %+v", got)
	}
}

func TestProbeMultipleMatchesOrdered(t *testing.T) {
	entries := []Entry{
		{DocID: "d1", EID: "A100", Name: "Jane Doe"},
		{DocID: "d2", Name: "Jane Doe"},
		{DocID: "d3", Name: "Jane Dough"},
	}
	ix := NewIndex(entries)
	got := ix.Probe("A100", "Jane Doe")
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3: %+v", len(got), got)
	}
	if got[0].Entry.DocID != "d1" || got[0].Score != ScoreExactID {
		t.Fatalf("first match %+v", got[0])
	}
	if got[1].Entry.DocID != "d2" || got[1].Score != ScoreExactName {
		t.Fatalf("second match %+v", got[1])
	}
	if got[2].Entry.DocID != "d3" || got[2].Score < ScoreFuzzyOne {
		t.Fatalf("third match %+v", got[2])
	}
}

func TestProbeEntryBestMatchOnly(t *testing.T) {
	// an entry hit exactly by id must not also surface as a fuzzy hit
	ix := NewIndex(registry())
	got := ix.Probe("A100", "Jane Doe")
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(got), got)
	}
	if got[0].Score != ScoreExactID {
		t.Fatalf("score %d, want %d", got[0].Score, ScoreExactID)
	}
}

func TestThresholdOption(t *testing.T) {
	ix := NewIndex(registry(), WithThreshold(90))
	if got := ix.Probe("", "Alexandra Doe"); len(got) != 0 {
		t.Fatalf("single-token match survived a 90 threshold: %+v", got)
	}
	if got := ix.Probe("", "Jane Doe"); len(got) != 1 {
		t.Fatalf("exact name should clear threshold 90: %+v", got)
	}
}
