// Package store provides a unified interface to optional storage backends
package store

import (
	"context"
	"errors"

	"rosterline/internal/platform/logger"
)

// Store is the facade for optional backends
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	Log logger.Logger

	// Docs is the document store seam, nil when disabled
	Docs Docs

	// CH is the clickhouse metrics seam, nil when disabled
	CH Clickhouse
}

// Clickhouse is a tiny seam for columnar appends, used as the run-metrics
// audit sink
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the requested backends
// backends not enabled in cfg remain nil on the Store
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// defaults for zero logger to avoid nil checks
	s.Log = s.Log.With().Logger()

	if cfg.Docs.Enabled {
		d, err := openDocs(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.Docs = d
	}

	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.CH = c
	}

	return s, nil
}

// Close releases all backend resources
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	if c, ok := s.Docs.(interface{ Close() }); ok && c != nil {
		c.Close()
	}
	if s.CH != nil {
		if err := s.CH.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
