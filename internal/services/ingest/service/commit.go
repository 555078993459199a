package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rosterline/internal/platform/logger"
	"rosterline/internal/platform/store"
	"rosterline/internal/services/ingest/domain"
)

// CommitResult aggregates one record type's commit outcome. Skipped counts
// record-level soft failures; Failed counts only unit commit errors.
type CommitResult struct {
	Attempted int
	Succeeded int
	Skipped   int
	Failed    int
	Errors    []string
}

// commitType writes one record type's valid records. Units commit strictly
// sequentially; a failed unit is recorded and the engine moves on to the
// next, so one bad unit cannot void a large import.
//
// Point of no return: once the first unit has been sent, the run cannot be
// cancelled and already-committed operations are not recalled.
func commitType(
	ctx context.Context,
	docs store.Docs,
	records []domain.TypedRecord,
	cfg domain.RecordTypeConfig,
	mode domain.Mode,
	operator string,
) CommitResult {
	log := logger.C(ctx).With().Str("collection", cfg.Collection).Logger()
	res := CommitResult{Attempted: len(records)}

	if mode == domain.ModeReplace {
		if err := deleteAll(ctx, docs, cfg.Collection); err != nil {
			// without a clean slate the replace contract is unmeetable
			res.Failed = len(records)
			res.Errors = append(res.Errors, fmt.Sprintf("replace: clearing %s: %v", cfg.Collection, err))
			return res
		}
	}

	// build operations, skipping records the engine cannot key
	type op struct {
		ref  store.DocRef
		data map[string]any
	}
	ops := make([]op, 0, len(records))
	for _, rec := range records {
		key := ResolveIdentity(rec, cfg)
		if cfg.KeyedByIdentity && key == "" {
			res.Skipped++
			continue
		}
		docID := key
		if !cfg.KeyedByIdentity || docID == "" {
			docID = uuid.NewString()
		}
		ops = append(ops, op{
			ref:  store.DocRef{Collection: cfg.Collection, ID: docID},
			data: docFields(rec, cfg, mode, operator),
		})
	}

	committed := 0
	for start := 0; start < len(ops); start += store.MaxBatchOps {
		end := min(start+store.MaxBatchOps, len(ops))
		unit := ops[start:end]

		b := store.NewBatch()
		for _, o := range unit {
			b.Set(o.ref, o.data, cfg.KeyedByIdentity)
		}
		if err := docs.Commit(ctx, b); err != nil {
			res.Failed += len(unit)
			res.Errors = append(res.Errors, fmt.Sprintf("unit %d (%d records): %v", start/store.MaxBatchOps+1, len(unit), err))
			log.Error().Err(err).Int("unit_size", len(unit)).Msg("unit commit failed, continuing")
			continue
		}
		committed += len(unit)
		res.Succeeded += len(unit)
		log.Info().Int("committed", committed).Int("total", len(ops)).Msg("records committed so far")
	}

	return res
}

// deleteAll clears a collection in delete-only units before a replace run
func deleteAll(ctx context.Context, docs store.Docs, collection string) error {
	existing, err := docs.GetAll(ctx, collection)
	if err != nil {
		return err
	}
	for start := 0; start < len(existing); start += store.MaxBatchOps {
		end := min(start+store.MaxBatchOps, len(existing))
		b := store.NewBatch()
		for _, doc := range existing[start:end] {
			b.Delete(doc.Ref)
		}
		if err := docs.Commit(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// docFields flattens a typed record into storable fields plus audit markers.
// Machine-written fields are distinguishable from operator-entered ones: a
// replace or migration run stamps migratedAt/migratedBy.
func docFields(rec domain.TypedRecord, cfg domain.RecordTypeConfig, mode domain.Mode, operator string) map[string]any {
	out := make(map[string]any, len(rec.Fields)+4)
	for name, v := range rec.Fields {
		switch t := v.(type) {
		case nil:
			continue
		case *time.Time:
			if t == nil {
				continue
			}
			out[name] = t.Format("2006-01-02")
		case *float64:
			if t == nil {
				continue
			}
			out[name] = *t
		case string:
			if t == "" {
				continue
			}
			out[name] = t
		default:
			out[name] = v
		}
	}

	if cfg.Type == "labor_report" {
		share := cfg.DirectShare
		if share == 0 {
			share = domain.DefaultDirectShare
		}
		if total, ok := out["totalHours"].(float64); ok {
			direct := total * share
			out["directHours"] = direct
			// subtraction keeps direct+indirect exactly equal to total
			out["indirectHours"] = total - direct
		}
	}

	out["createdBy"] = operator
	out["createdAt"] = store.ServerTimestamp
	if mode == domain.ModeReplace {
		out["migratedAt"] = store.ServerTimestamp
		out["migratedBy"] = operator
	}
	return out
}
