package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rosterline/internal/core/screen"
	"rosterline/internal/modkit/repokit"
	perr "rosterline/internal/platform/errors"
	"rosterline/internal/platform/logger"
	"rosterline/internal/platform/store"
	ptime "rosterline/internal/platform/time"
	"rosterline/internal/services/ingest/domain"
)

// now is a seam so tests can pin the clock
var now = func() time.Time { return time.Now().UTC() }

// Config holds orchestrator tuning
type Config struct {
	// ScreenThreshold is the minimum denylist match score surfaced; <=0
	// keeps the screener default
	ScreenThreshold int

	// ParallelCommits lets independent record types commit concurrently.
	// Units within one record type always commit sequentially.
	ParallelCommits bool
}

// Service is the pipeline orchestrator. One Run call processes one file set
// to completion; there is no internal retry, re-running a file is the
// operator's explicit action.
type Service struct {
	Docs     store.Docs
	Binder   repokit.Binder[domain.StorageRepo]
	Registry domain.Registry
	Decider  domain.Decider
	Metrics  domain.MetricsSink // optional
	Cfg      Config
}

// New constructs the ingest service
func New(
	docs store.Docs,
	binder repokit.Binder[domain.StorageRepo],
	registry domain.Registry,
	decider domain.Decider,
	metrics domain.MetricsSink,
	cfg Config,
) *Service {
	if docs == nil {
		panic("ingest.Service requires a non nil Docs store")
	}
	if binder == nil {
		panic("ingest.Service requires a non nil Repo binder")
	}
	if registry == nil {
		registry = domain.DefaultRegistry()
	}
	return &Service{Docs: docs, Binder: binder, Registry: registry, Decider: decider, Metrics: metrics, Cfg: cfg}
}

// Run implements domain.RunnerPort. A run that ends in ValidationFailed or a
// cancelled override still returns a nil error: the report is the outcome.
// A non-nil error means the run could not be set up at all.
func (s *Service) Run(ctx context.Context, mode domain.Mode, operator string, inputs []domain.Input) (*domain.RunReport, error) {
	if len(inputs) == 0 {
		return nil, perr.InvalidArgf("no inputs")
	}
	if mode != domain.ModeAppend && mode != domain.ModeReplace {
		return nil, perr.InvalidArgf("unknown mode %q", string(mode))
	}

	report := &domain.RunReport{
		RunID:     uuid.NewString(),
		Mode:      mode,
		State:     domain.StateIdle,
		Operator:  operator,
		StartedAt: now(),
	}
	ctx = logger.WithRun(ctx, report.RunID)
	log := logger.C(ctx)
	repo := s.Binder.Bind(s.Docs)

	configs := make([]domain.RecordTypeConfig, len(inputs))
	for i, in := range inputs {
		cfg, ok := s.Registry.Lookup(in.Type)
		if !ok {
			return nil, perr.InvalidArgf("unknown record type %q", in.Type)
		}
		configs[i] = cfg
		report.Types = append(report.Types, domain.TypeReport{
			Type:       cfg.Type,
			Collection: cfg.Collection,
			Source:     in.Source,
			Attempted:  len(in.Rows),
		})
	}

	// Parsing through Validating are pure and synchronous; no store access
	report.State = domain.StateParsing
	report.State = domain.StateNormalizing
	typed := make([][]domain.TypedRecord, len(inputs))
	for i, in := range inputs {
		typed[i] = Coerce(Normalize(in.Rows, configs[i]), configs[i])
	}

	report.State = domain.StateValidating
	valid := make([][]domain.TypedRecord, len(inputs))
	anyInvalid := false
	for i := range inputs {
		results := Validate(typed[i], configs[i])
		for _, r := range results {
			if r.Valid() {
				valid[i] = append(valid[i], r.Record)
				continue
			}
			anyInvalid = true
			report.Types[i].Errors = append(report.Types[i].Errors, r.Errors...)
		}
	}

	// any invalid row blocks the whole run before any writes: a file with
	// known-bad rows is corrected and re-submitted, never partially imported
	if anyInvalid {
		// collisions among the rows that did validate still go in the
		// report so the operator fixes everything in one pass
		for i := range inputs {
			report.Types[i].Collisions = Collisions(valid[i], configs[i])
		}
		report.State = domain.StateValidationFailed
		s.finish(ctx, repo, report)
		log.Warn().Str("run_id", report.RunID).Msg("run blocked by validation errors")
		return report, nil
	}

	report.State = domain.StateResolving
	for i := range inputs {
		report.Types[i].Collisions = Collisions(valid[i], configs[i])
		dups, err := s.duplicates(ctx, repo, valid[i], configs[i])
		if err != nil {
			return nil, perr.Storef("duplicate check for %s: %v", configs[i].Collection, err)
		}
		report.Types[i].Duplicates = dups
	}

	report.State = domain.StateScreening
	if err := s.screenAll(ctx, repo, report, valid, configs); err != nil {
		return nil, err
	}

	if len(report.Matches) > 0 {
		report.State = domain.StateAwaitingOverride
		if err := repo.SaveRun(ctx, report); err != nil {
			return nil, perr.Storef("saving suspended run: %v", err)
		}
		if s.Decider == nil {
			s.finishCancelled(ctx, repo, report, "")
			return report, nil
		}
		decision, err := s.Decider.Decide(ctx, report)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDenied, "awaiting operator decision")
		}
		if !decision.Proceed {
			s.finishCancelled(ctx, repo, report, decision.Operator)
			log.Info().Str("run_id", report.RunID).Msg("run cancelled at override gate, zero writes")
			return report, nil
		}
		report.Overridden = true
		report.DecidedBy = decision.Operator
	}

	report.State = domain.StateCommitting
	s.commitAll(ctx, report, valid, configs, operator)

	report.State = domain.StateReporting
	report.State = domain.StateDone
	s.finish(ctx, repo, report)
	return report, nil
}

// duplicates runs the advisory point-in-time store check. Results can race
// with concurrent writers; that is accepted for a human-supervised tool.
func (s *Service) duplicates(
	ctx context.Context,
	repo domain.StorageRepo,
	records []domain.TypedRecord,
	cfg domain.RecordTypeConfig,
) ([]domain.DuplicateHit, error) {
	keys := identityKeys(records, cfg)
	if len(keys) == 0 {
		return nil, nil
	}

	seen := map[string]struct{}{}
	var out []domain.DuplicateHit
	for _, field := range cfg.Identity {
		hits, err := repo.FindByIdentity(ctx, cfg.Collection, field, keys)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			k := h.Collection + "/" + h.DocID
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, h)
		}
	}
	return out, nil
}

// screenAll probes every valid record of every non-registry type against the
// do-not-return index. The index is built once per run.
func (s *Service) screenAll(
	ctx context.Context,
	repo domain.StorageRepo,
	report *domain.RunReport,
	valid [][]domain.TypedRecord,
	configs []domain.RecordTypeConfig,
) error {
	needed := false
	for _, cfg := range configs {
		if cfg.Type != "dnr" {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	entries, err := repo.LoadDenylist(ctx)
	if err != nil {
		return perr.Storef("loading denylist: %v", err)
	}
	sentries := make([]screen.Entry, len(entries))
	for i, e := range entries {
		sentries[i] = screen.Entry{DocID: e.DocID, EID: e.EID, Name: e.Name, Reason: e.Reason}
	}
	ix := screen.NewIndex(sentries, screen.WithThreshold(s.Cfg.ScreenThreshold))

	for i, cfg := range configs {
		if cfg.Type == "dnr" {
			continue
		}
		for _, rec := range valid[i] {
			key := ResolveIdentity(rec, cfg)
			name := rec.String("name")
			for _, m := range ix.Probe(key, name) {
				report.Matches = append(report.Matches, domain.DenylistMatch{
					Row:        rec.Row,
					RecordType: cfg.Type,
					Identity:   key,
					Name:       name,
					MatchType:  m.Kind,
					Score:      m.Score,
					EntryID:    m.Entry.DocID,
					EntryName:  m.Entry.Name,
					Reason:     m.Reason,
				})
			}
		}
	}
	return nil
}

// commitAll delegates each record type to the upsert engine. Types write to
// disjoint collections and share no invariant, so they may commit
// concurrently; units within a type never do.
func (s *Service) commitAll(
	ctx context.Context,
	report *domain.RunReport,
	valid [][]domain.TypedRecord,
	configs []domain.RecordTypeConfig,
	operator string,
) {
	apply := func(i int, res CommitResult) {
		tr := &report.Types[i]
		tr.Succeeded = res.Succeeded
		tr.Skipped += res.Skipped
		tr.Failed = res.Failed
		tr.Errors = append(tr.Errors, res.Errors...)
	}

	if !s.Cfg.ParallelCommits || len(configs) == 1 {
		for i := range configs {
			apply(i, commitType(ctx, s.Docs, valid[i], configs[i], report.Mode, operator))
		}
		return
	}

	results := make([]CommitResult, len(configs))
	var wg sync.WaitGroup
	for i := range configs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = commitType(ctx, s.Docs, valid[i], configs[i], report.Mode, operator)
		}(i)
	}
	wg.Wait()
	for i := range configs {
		apply(i, results[i])
	}
}

func (s *Service) finishCancelled(ctx context.Context, repo domain.StorageRepo, report *domain.RunReport, decidedBy string) {
	report.DecidedBy = decidedBy
	report.State = domain.StateDone
	s.finish(ctx, repo, report)
}

// finish stamps the terminal bookkeeping and persists the report. Save and
// metrics failures are logged, not returned: the run outcome is already
// decided.
func (s *Service) finish(ctx context.Context, repo domain.StorageRepo, report *domain.RunReport) {
	fin := now()
	report.FinishedAt = ptime.Ptr(fin)
	report.ElapsedMS = fin.Sub(report.StartedAt).Milliseconds()

	if err := repo.SaveRun(ctx, report); err != nil {
		logger.C(ctx).Error().Err(err).Msg("persisting run report failed")
	}
	if s.Metrics != nil {
		if err := s.Metrics.RunFinished(ctx, report); err != nil {
			logger.C(ctx).Warn().Err(err).Msg("run metrics sink failed")
		}
	}
}
