package repo

import (
	"context"

	"rosterline/internal/platform/store"
	"rosterline/internal/services/ingest/domain"
)

// MetricsTable is the ClickHouse table receiving per-run audit rows
const MetricsTable = "ingest_run_metrics"

type chSink struct{ ch store.Clickhouse }

// NewCHSink adapts the ClickHouse client into a run-metrics sink. One row is
// written per record type per finished run.
func NewCHSink(ch store.Clickhouse) domain.MetricsSink { return &chSink{ch: ch} }

func (s *chSink) RunFinished(ctx context.Context, report *domain.RunReport) error {
	rows := make([][]any, 0, len(report.Types))
	overridden := uint8(0)
	if report.Overridden {
		overridden = 1
	}
	for _, tr := range report.Types {
		rows = append(rows, []any{
			report.RunID,
			tr.Type,
			tr.Collection,
			string(report.Mode),
			string(report.State),
			uint32(tr.Attempted),
			uint32(tr.Succeeded),
			uint32(tr.Skipped),
			uint32(tr.Failed),
			uint32(len(report.Matches)),
			overridden,
			uint64(report.ElapsedMS),
			report.StartedAt,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return s.ch.Insert(ctx, MetricsTable, rows)
}
