package service

import (
	"context"
	"testing"
	"time"

	perr "rosterline/internal/platform/errors"
	"rosterline/internal/platform/store/mem"
	"rosterline/internal/services/api/runs/domain"
	ingestdom "rosterline/internal/services/ingest/domain"
	ingestrepo "rosterline/internal/services/ingest/repo"
)

func newService(t *testing.T) (*Service, ingestdom.StorageRepo) {
	t.Helper()
	storage := ingestrepo.NewDocs().Bind(mem.New())
	return New(storage), storage
}

func saveRun(t *testing.T, storage ingestdom.StorageRepo, id string, state ingestdom.RunState, started time.Time) {
	t.Helper()
	if err := storage.SaveRun(context.Background(), &ingestdom.RunReport{
		RunID:     id,
		State:     state,
		StartedAt: started,
	}); err != nil {
		t.Fatal(err)
	}
}

func TestListDefaultsLimit(t *testing.T) {
	s, storage := newService(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	saveRun(t, storage, "r1", ingestdom.StateDone, base)
	saveRun(t, storage, "r2", ingestdom.StateDone, base.Add(time.Hour))

	got, err := s.List(context.Background(), domain.ListInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].RunID != "r2" {
		t.Fatalf("got %+v", got)
	}
}

func TestGetNotFound(t *testing.T) {
	s, _ := newService(t)
	_, err := s.Get(context.Background(), "missing")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	_, err = s.Get(context.Background(), "")
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestDecideRequiresAwaitingOverride(t *testing.T) {
	s, storage := newService(t)
	saveRun(t, storage, "r1", ingestdom.StateDone, time.Now())

	_, err := s.Decide(context.Background(), "r1", domain.DecisionInput{Decision: "proceed", Operator: "boss"})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestDecideRecordsOnce(t *testing.T) {
	s, storage := newService(t)
	saveRun(t, storage, "r1", ingestdom.StateAwaitingOverride, time.Now())

	report, err := s.Decide(context.Background(), "r1", domain.DecisionInput{Decision: "cancel", Operator: "boss"})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if report.RunID != "r1" {
		t.Fatalf("report %+v", report)
	}

	d, ok, err := storage.DecisionFor(context.Background(), "r1")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if d.Proceed || d.Operator != "boss" {
		t.Fatalf("decision %+v", d)
	}

	// second decision for the same run is a conflict
	_, err = s.Decide(context.Background(), "r1", domain.DecisionInput{Decision: "proceed", Operator: "other"})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
}
