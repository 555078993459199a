package decide

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"rosterline/internal/platform/store/mem"
	"rosterline/internal/services/ingest/domain"
	"rosterline/internal/services/ingest/repo"
)

func report() *domain.RunReport {
	return &domain.RunReport{
		RunID: "r1",
		State: domain.StateAwaitingOverride,
		Matches: []domain.DenylistMatch{{
			Row: 2, RecordType: "applicant", Name: "jane doe",
			EntryName: "jane doe", MatchType: "exact-name", Score: 95,
		}},
	}
}

func TestPromptProceed(t *testing.T) {
	var out bytes.Buffer
	p := Prompt{In: strings.NewReader("Proceed\n"), Out: &out, Operator: "boss"}

	d, err := p.Decide(context.Background(), report())
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.Proceed || d.Operator != "boss" {
		t.Fatalf("decision %+v", d)
	}
	if !strings.Contains(out.String(), "jane doe") {
		t.Fatalf("prompt output missing match detail: %q", out.String())
	}
}

func TestPromptDefaultsToCancel(t *testing.T) {
	cases := []string{"", "\n", "no\n", "PROCEED now\n"}
	for _, input := range cases {
		p := Prompt{In: strings.NewReader(input), Out: &bytes.Buffer{}, Operator: "boss"}
		d, err := p.Decide(context.Background(), report())
		if err != nil {
			t.Fatalf("input %q: %v", input, err)
		}
		if d.Proceed {
			t.Fatalf("input %q must cancel", input)
		}
	}
}

func TestStorePollReturnsRecordedDecision(t *testing.T) {
	storage := repo.NewDocs().Bind(mem.New())
	s := StorePoll{Repo: storage, Interval: 5 * time.Millisecond}

	done := make(chan struct{})
	var got domain.Decision
	var gotErr error
	go func() {
		defer close(done)
		got, gotErr = s.Decide(context.Background(), report())
	}()

	time.Sleep(20 * time.Millisecond)
	if err := storage.SaveDecision(context.Background(), "r1", domain.Decision{Proceed: true, Operator: "boss"}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poll did not observe the decision")
	}
	if gotErr != nil {
		t.Fatalf("Decide: %v", gotErr)
	}
	if !got.Proceed || got.Operator != "boss" {
		t.Fatalf("decision %+v", got)
	}
}

func TestStorePollStopsOnContextCancel(t *testing.T) {
	storage := repo.NewDocs().Bind(mem.New())
	s := StorePoll{Repo: storage, Interval: 5 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := s.Decide(ctx, report())
	if err == nil {
		t.Fatal("want context error")
	}
}
