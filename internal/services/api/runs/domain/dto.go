// Package domain holds DTOs and contracts for the runs API
package domain

import (
	ingestdom "rosterline/internal/services/ingest/domain"
)

// ListInput is the query for listing recent runs
type ListInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}

// DecisionInput records an operator decision for a suspended run
type DecisionInput struct {
	Decision string `json:"decision" validate:"required,oneof=proceed cancel" example:"proceed"`
	Operator string `json:"operator" validate:"required,min=1,max=200" example:"jdoe"`
}

// RunSummary is the list-view shape of a run report
type RunSummary struct {
	RunID     string `json:"run_id"`
	State     string `json:"state"`
	Mode      string `json:"mode"`
	Operator  string `json:"operator,omitempty"`
	StartedAt string `json:"started_at"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Attempted int    `json:"attempted"`
	Succeeded int    `json:"succeeded"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Matches   int    `json:"matches"`
}

// Summarize flattens a run report into its list shape
func Summarize(r *ingestdom.RunReport) RunSummary {
	s := RunSummary{
		RunID:     r.RunID,
		State:     string(r.State),
		Mode:      string(r.Mode),
		Operator:  r.Operator,
		StartedAt: r.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		ElapsedMS: r.ElapsedMS,
		Matches:   len(r.Matches),
	}
	for _, tr := range r.Types {
		s.Attempted += tr.Attempted
		s.Succeeded += tr.Succeeded
		s.Skipped += tr.Skipped
		s.Failed += tr.Failed
	}
	return s
}
