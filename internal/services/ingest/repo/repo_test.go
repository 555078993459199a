package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rosterline/internal/platform/store/mem"
	"rosterline/internal/services/ingest/domain"
)

func TestRunRoundTrip(t *testing.T) {
	docs := mem.New()
	r := NewDocs().Bind(docs)
	ctx := context.Background()

	fin := time.Now().UTC().Truncate(time.Second)
	report := &domain.RunReport{
		RunID:      "r1",
		Mode:       domain.ModeAppend,
		State:      domain.StateDone,
		Operator:   "op",
		StartedAt:  fin.Add(-2 * time.Second),
		FinishedAt: &fin,
		ElapsedMS:  2000,
		Types: []domain.TypeReport{{
			Type: "applicant", Collection: "applicants",
			Attempted: 3, Succeeded: 2, Skipped: 1,
			Collisions: []domain.Collision{{Key: "E1", Rows: []int{1, 3}}},
		}},
		Matches:    []domain.DenylistMatch{{Row: 1, MatchType: "exact-id", Score: 100}},
		Overridden: true,
		DecidedBy:  "boss",
	}
	if err := r.SaveRun(ctx, report); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, ok, err := r.GetRun(ctx, "r1")
	if err != nil || !ok {
		t.Fatalf("GetRun: ok=%v err=%v", ok, err)
	}
	if got.State != domain.StateDone || !got.Overridden || got.DecidedBy != "boss" {
		t.Fatalf("got %+v", got)
	}
	if len(got.Types) != 1 || got.Types[0].Succeeded != 2 {
		t.Fatalf("types %+v", got.Types)
	}
	if len(got.Types[0].Collisions) != 1 || got.Types[0].Collisions[0].Key != "E1" {
		t.Fatalf("collisions %+v", got.Types[0].Collisions)
	}
	if len(got.Matches) != 1 || got.Matches[0].Score != 100 {
		t.Fatalf("matches %+v", got.Matches)
	}
}

func TestGetRunAbsent(t *testing.T) {
	r := NewDocs().Bind(mem.New())
	_, ok, err := r.GetRun(context.Background(), "nope")
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	docs := mem.New()
	r := NewDocs().Bind(docs)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := r.SaveRun(ctx, &domain.RunReport{
			RunID:     fmt.Sprintf("r%d", i),
			State:     domain.StateDone,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.ListRuns(ctx, 3)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d runs", len(got))
	}
	if got[0].RunID != "r4" || got[2].RunID != "r2" {
		t.Fatalf("order %s %s %s", got[0].RunID, got[1].RunID, got[2].RunID)
	}
}

func TestFindByIdentityChunksLargeKeySets(t *testing.T) {
	docs := mem.New()
	r := NewDocs().Bind(docs)
	ctx := context.Background()

	// 70 keys forces three in-query chunks
	keys := make([]string, 70)
	for i := range keys {
		keys[i] = fmt.Sprintf("E%03d", i)
		if i%10 == 0 {
			docs.Seed("applicants", keys[i], map[string]any{"eid": keys[i], "name": "n", "status": "Hired"})
		}
	}

	hits, err := r.FindByIdentity(ctx, "applicants", "eid", keys)
	if err != nil {
		t.Fatalf("FindByIdentity: %v", err)
	}
	if len(hits) != 7 {
		t.Fatalf("got %d hits, want 7", len(hits))
	}
	if hits[0].Summary == "" {
		t.Fatalf("hit lacks summary: %+v", hits[0])
	}
}

func TestDecisions(t *testing.T) {
	docs := mem.New()
	r := NewDocs().Bind(docs)
	ctx := context.Background()

	if _, ok, err := r.DecisionFor(ctx, "r1"); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if err := r.SaveDecision(ctx, "r1", domain.Decision{Proceed: true, Operator: "boss"}); err != nil {
		t.Fatalf("SaveDecision: %v", err)
	}
	d, ok, err := r.DecisionFor(ctx, "r1")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !d.Proceed || d.Operator != "boss" {
		t.Fatalf("decision %+v", d)
	}
}

func TestLoadDenylist(t *testing.T) {
	docs := mem.New()
	docs.Seed(DenylistCollection, "d1", map[string]any{"eid": "E1", "name": "Jane Doe", "reason": "walked off"})
	docs.Seed(DenylistCollection, "d2", map[string]any{"name": "John Roe"})

	entries, err := NewDocs().Bind(docs).LoadDenylist(context.Background())
	if err != nil {
		t.Fatalf("LoadDenylist: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].EID != "E1" || entries[0].Reason != "walked off" {
		t.Fatalf("entry %+v", entries[0])
	}
}
