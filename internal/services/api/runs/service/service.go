// Package service implements the runs API service
package service

import (
	"context"

	perr "rosterline/internal/platform/errors"
	"rosterline/internal/services/api/runs/domain"
	ingestdom "rosterline/internal/services/ingest/domain"
)

const defaultListLimit = 50

// Service serves run reports and operator decisions
type Service struct {
	storage ingestdom.StorageRepo
}

// New constructs the runs service
func New(storage ingestdom.StorageRepo) *Service {
	if storage == nil {
		panic("runs.Service requires a non nil storage port")
	}
	return &Service{storage: storage}
}

// List returns recent runs, newest first
func (s *Service) List(ctx context.Context, in domain.ListInput) ([]domain.RunSummary, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	reports, err := s.storage.ListRuns(ctx, limit)
	if err != nil {
		return nil, perr.Storef("listing runs: %v", err)
	}
	out := make([]domain.RunSummary, len(reports))
	for i, r := range reports {
		out[i] = domain.Summarize(r)
	}
	return out, nil
}

// Get returns one full run report
func (s *Service) Get(ctx context.Context, runID string) (*ingestdom.RunReport, error) {
	if runID == "" {
		return nil, perr.InvalidArgf("run id required")
	}
	report, ok, err := s.storage.GetRun(ctx, runID)
	if err != nil {
		return nil, perr.Storef("loading run %s: %v", runID, err)
	}
	if !ok {
		return nil, perr.NotFoundf("run %s", runID)
	}
	return report, nil
}

// Decide records an operator decision for a run suspended at the override
// gate. Valid only while the run is awaiting the decision; anything else is
// a conflict.
func (s *Service) Decide(ctx context.Context, runID string, in domain.DecisionInput) (*ingestdom.RunReport, error) {
	report, err := s.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if report.State != ingestdom.StateAwaitingOverride {
		return nil, perr.Conflictf("run %s is %s, not awaiting a decision", runID, report.State)
	}

	if _, exists, err := s.storage.DecisionFor(ctx, runID); err != nil {
		return nil, perr.Storef("checking decision for %s: %v", runID, err)
	} else if exists {
		return nil, perr.Conflictf("run %s already has a decision", runID)
	}

	d := ingestdom.Decision{Proceed: in.Decision == "proceed", Operator: in.Operator}
	if err := s.storage.SaveDecision(ctx, runID, d); err != nil {
		return nil, perr.Storef("recording decision for %s: %v", runID, err)
	}
	return report, nil
}
