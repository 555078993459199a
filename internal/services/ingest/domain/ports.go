package domain

import "context"

// Input is one record-type file set handed to a run
type Input struct {
	Type   string
	Source string // display name of the source file, for the report
	Rows   []RawRow
}

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context, mode Mode, operator string, inputs []Input) (*RunReport, error)
}

// ReaderPort turns one source file into raw rows
type ReaderPort interface {
	Read(ctx context.Context) ([]RawRow, error)
	Name() string
}

// Decider supplies the operator decision for a run suspended on denylist
// matches. Implementations block until a decision exists or ctx ends.
type Decider interface {
	Decide(ctx context.Context, report *RunReport) (Decision, error)
}

// StorageRepo is the storage access surface used outside batch commits
type StorageRepo interface {
	// FindByIdentity returns existing documents in a collection whose
	// identity field equals any of the given keys. Chunking to the store's
	// query limit is the repo's concern.
	FindByIdentity(ctx context.Context, collection, field string, keys []string) ([]DuplicateHit, error)

	// LoadDenylist returns the full do-not-return registry
	LoadDenylist(ctx context.Context) ([]DenylistEntry, error)

	// SaveRun upserts the run report document
	SaveRun(ctx context.Context, report *RunReport) error

	// GetRun loads one run report by id
	GetRun(ctx context.Context, runID string) (*RunReport, bool, error)

	// ListRuns returns recent run reports, newest first
	ListRuns(ctx context.Context, limit int) ([]*RunReport, error)

	// DecisionFor returns the operator decision recorded for a run, if any
	DecisionFor(ctx context.Context, runID string) (Decision, bool, error)

	// SaveDecision records an operator decision for a suspended run
	SaveDecision(ctx context.Context, runID string, d Decision) error
}

// MetricsSink receives one row per finished run per record type
type MetricsSink interface {
	RunFinished(ctx context.Context, report *RunReport) error
}
