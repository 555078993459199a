package domain

import (
	"context"

	ingestdom "rosterline/internal/services/ingest/domain"
)

// ServicePort defines the service contract for the runs API
type ServicePort interface {
	List(ctx context.Context, in ListInput) ([]RunSummary, error)
	Get(ctx context.Context, runID string) (*ingestdom.RunReport, error)
	Decide(ctx context.Context, runID string, in DecisionInput) (*ingestdom.RunReport, error)
}
