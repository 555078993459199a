package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rosterline/internal/modkit"
	"rosterline/internal/platform/config"
	"rosterline/internal/platform/logger"
	"rosterline/internal/platform/store"

	sourcecsv "rosterline/internal/adapters/source/csv"
	sourcexlsx "rosterline/internal/adapters/source/xlsx"
	"rosterline/internal/services/ingest/decide"
	"rosterline/internal/services/ingest/domain"
	ingestmod "rosterline/internal/services/ingest/module"
	ingestrepo "rosterline/internal/services/ingest/repo"
)

// maxFileBytes is a UX guard against accidentally feeding a wrong export,
// not a pipeline invariant
const maxFileBytes = 10 << 20

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	var (
		fApplicants  = flag.String("applicants", "", "applicants file or directory")
		fAssociates  = flag.String("associates", "", "associates file or directory")
		fEarlyLeaves = flag.String("early-leaves", "", "early leaves file or directory")
		fDNR         = flag.String("dnr", "", "do-not-return entries file or directory")
		fBadges      = flag.String("badges", "", "badges file or directory")
		fLabor       = flag.String("labor", "", "labor report file or directory")

		fMode     = flag.String("mode", "append", "ingestion mode: append | replace")
		fOperator = flag.String("operator", "", "operator identity stamped into audit fields")
		fViaAPI   = flag.Bool("decide-via-api", false, "wait for override decisions posted to the api instead of prompting")
	)
	flag.Parse()

	if *fOperator == "" {
		l.Fatal().Msg("-operator is required")
	}
	mode := domain.Mode(*fMode)
	if mode != domain.ModeAppend && mode != domain.ModeReplace {
		l.Fatal().Str("mode", *fMode).Msg("bad -mode, want append or replace")
	}

	paths := []struct {
		recordType string
		path       string
	}{
		{"applicant", *fApplicants},
		{"associate", *fAssociates},
		{"early_leave", *fEarlyLeaves},
		{"dnr", *fDNR},
		{"badge", *fBadges},
		{"labor_report", *fLabor},
	}

	ctx := context.Background()
	var inputs []domain.Input
	for _, p := range paths {
		if p.path == "" {
			continue
		}
		ins, err := readInputs(ctx, p.recordType, p.path)
		if err != nil {
			l.Fatal().Err(err).Str("path", p.path).Msg("reading source failed")
		}
		inputs = append(inputs, ins...)
	}
	if len(inputs) == 0 {
		l.Fatal().Msg("no input files given, pass at least one record-type flag")
	}

	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(ctx, store.Config{
		AppName: "rosterline-ingest",
		Docs: store.DocConfig{
			Enabled:     true,
			Driver:      "pg",
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "rosterline",
			ClientTag:  "ingest",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Cfg: root, Docs: st.Docs, CH: st.CH, Log: *l}

	var decider domain.Decider
	if *fViaAPI {
		opts := ingestmod.FromConfig(root)
		decider = decide.StorePoll{
			Repo:     ingestrepo.NewDocs().Bind(st.Docs),
			Interval: opts.DecidePoll,
		}
	} else {
		decider = decide.Prompt{In: os.Stdin, Out: os.Stderr, Operator: *fOperator}
	}

	ing := ingestmod.New(deps, decider)
	ports := ing.Ports().(ingestmod.Ports)

	report, err := ports.Runner.Run(ctx, mode, *fOperator, inputs)
	if err != nil {
		l.Fatal().Err(err).Msg("run setup failed")
	}

	printReport(report)
	// skips and failed units are recorded in the report, not exit status;
	// only setup errors exit non-zero
}

// readInputs expands a file or directory path into pipeline inputs
func readInputs(ctx context.Context, recordType, path string) ([]domain.Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			files = append(files, filepath.Join(path, e.Name()))
		}
	} else {
		files = []string{path}
	}

	var inputs []domain.Input
	for _, file := range files {
		rows, err := readFile(ctx, file)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, domain.Input{
			Type:   recordType,
			Source: filepath.Base(file),
			Rows:   rows,
		})
	}
	return inputs, nil
}

func readFile(ctx context.Context, path string) ([]domain.RawRow, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFileBytes {
		return nil, fmt.Errorf("%s is %d bytes, over the %d byte ceiling", path, info.Size(), maxFileBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return sourcexlsx.New(name, f).Read(ctx)
	case ".tsv":
		r := sourcecsv.New(name, f)
		r.Comma = '\t'
		return r.Read(ctx)
	default:
		return sourcecsv.New(name, f).Read(ctx)
	}
}

func printReport(report *domain.RunReport) {
	fmt.Printf("\nrun %s finished: state=%s mode=%s elapsed=%dms\n",
		report.RunID, report.State, report.Mode, report.ElapsedMS)
	for _, tr := range report.Types {
		fmt.Printf("  %-13s %-14s attempted=%d succeeded=%d skipped=%d failed=%d\n",
			tr.Type, tr.Source, tr.Attempted, tr.Succeeded, tr.Skipped, tr.Failed)
		for _, e := range tr.Errors {
			fmt.Printf("    - %s\n", e)
		}
		for _, c := range tr.Collisions {
			fmt.Printf("    - identity %q claimed by rows %v\n", c.Key, c.Rows)
		}
		for _, d := range tr.Duplicates {
			fmt.Printf("    - identity %q already in %s (%s)\n", d.Key, d.Collection, d.Summary)
		}
	}
	if len(report.Matches) > 0 {
		status := "blocked"
		if report.Overridden {
			status = fmt.Sprintf("overridden by %s", report.DecidedBy)
		} else if report.DecidedBy != "" {
			status = fmt.Sprintf("cancelled by %s", report.DecidedBy)
		}
		fmt.Printf("  %d do-not-return match(es), %s\n", len(report.Matches), status)
	}
}
