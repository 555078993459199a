// Package decide supplies operator decision sources for runs suspended on
// denylist matches
package decide

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"rosterline/internal/platform/logger"
	"rosterline/internal/services/ingest/domain"
)

// Prompt asks for a decision interactively. Anything other than an explicit
// "proceed" cancels: the gate defaults to blocking.
type Prompt struct {
	In       io.Reader
	Out      io.Writer
	Operator string
}

// Decide implements domain.Decider
func (p Prompt) Decide(_ context.Context, report *domain.RunReport) (domain.Decision, error) {
	fmt.Fprintf(p.Out, "\n%d do-not-return match(es) found:\n", len(report.Matches))
	for _, m := range report.Matches {
		fmt.Fprintf(p.Out, "  row %d (%s): %q matched %q [%s, score %d] %s\n",
			m.Row, m.RecordType, m.Name, m.EntryName, m.MatchType, m.Score, m.Reason)
	}
	fmt.Fprint(p.Out, "type 'proceed' to override and commit, anything else cancels: ")

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return domain.Decision{}, err
	}
	proceed := strings.EqualFold(strings.TrimSpace(line), "proceed")
	return domain.Decision{Proceed: proceed, Operator: p.Operator}, nil
}

// StorePoll waits for a decision recorded through the API. The run stays
// suspended until a decision document appears or ctx ends.
type StorePoll struct {
	Repo     domain.StorageRepo
	Interval time.Duration
}

// Decide implements domain.Decider
func (s StorePoll) Decide(ctx context.Context, report *domain.RunReport) (domain.Decision, error) {
	interval := s.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	logger.C(ctx).Info().
		Str("run_id", report.RunID).
		Int("matches", len(report.Matches)).
		Msg("suspended awaiting operator decision via api")

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		d, ok, err := s.Repo.DecisionFor(ctx, report.RunID)
		if err != nil {
			return domain.Decision{}, err
		}
		if ok {
			return d, nil
		}
		select {
		case <-ctx.Done():
			return domain.Decision{}, ctx.Err()
		case <-t.C:
		}
	}
}
