package store

import (
	"context"
	"fmt"
	"time"

	chx "rosterline/internal/platform/store/ch"
	"rosterline/internal/platform/store/pg"
)

// openDocs opens the configured document store driver
func openDocs(ctx context.Context, cfg Config, s *Store) (Docs, error) {
	switch cfg.Docs.Driver {
	case "", "pg":
		return openPGDocs(ctx, cfg, s)
	default:
		return nil, fmt.Errorf("store: unknown docs driver %q", cfg.Docs.Driver)
	}
}

// openPGDocs opens pg and wraps it with the document adapter
func openPGDocs(ctx context.Context, cfg Config, s *Store) (Docs, error) {
	var tracer pg.QueryTracer
	if cfg.Docs.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.Docs.URL,
		MaxConns: cfg.Docs.MaxConns,
		SlowMs:   cfg.Docs.SlowQueryMs,
	}, tracer)
	if err != nil {
		return nil, err
	}

	// Connection guardrails: ping with retry/backoff using the pool directly
	const (
		maxAttempts    = 20
		pingTimeout    = 3 * time.Second
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			d := newPGDocsAdapter(p)
			if err := d.ensureSchema(ctx); err != nil {
				p.Close()
				return nil, err
			}
			return d, nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		if backoff < backoffCeiling {
			backoff *= 2
			if backoff > backoffCeiling {
				backoff = backoffCeiling
			}
		}
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", maxAttempts, lastErr)
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	return chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
}
