package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rosterline/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
)

// pgDocs adapts *pg.PG to the Docs seam. Documents live in a single table
// keyed (collection, doc_id) with the field map as jsonb.
type pgDocs struct {
	inner *pg.PG
}

var _ Docs = (*pgDocs)(nil)

// newPGDocsAdapter is called by openers.go to wrap an existing *pg.PG
func newPGDocsAdapter(p *pg.PG) *pgDocs { return &pgDocs{inner: p} }

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	collection text NOT NULL,
	doc_id     text NOT NULL,
	data       jsonb NOT NULL DEFAULT '{}'::jsonb,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, doc_id)
);
CREATE INDEX IF NOT EXISTS ix_documents_collection ON documents (collection);
CREATE INDEX IF NOT EXISTS ix_documents_data ON documents USING gin (data jsonb_path_ops);
`

// ensureSchema creates the documents table on first boot (idempotent)
func (d *pgDocs) ensureSchema(ctx context.Context) error {
	_, err := d.exec(ctx, schemaSQL)
	return err
}

// Commit applies the batch inside one transaction so the unit is atomic:
// all operations apply or none do
func (d *pgDocs) Commit(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return nil
	}
	if b.Len() > MaxBatchOps {
		return fmt.Errorf("store: batch of %d exceeds MaxBatchOps %d", b.Len(), MaxBatchOps)
	}

	tx, err := d.inner.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	for _, op := range b.Ops() {
		switch op.Kind {
		case OpSet:
			raw, err := marshalData(op.Data, now)
			if err != nil {
				return err
			}
			sql := `
				INSERT INTO documents (collection, doc_id, data)
				VALUES ($1, $2, $3)
				ON CONFLICT (collection, doc_id)
				DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
			if op.Merge {
				sql = `
					INSERT INTO documents (collection, doc_id, data)
					VALUES ($1, $2, $3)
					ON CONFLICT (collection, doc_id)
					DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = now()`
			}
			if _, err := tx.Exec(ctx, sql, op.Ref.Collection, op.Ref.ID, raw); err != nil {
				return err
			}
		case OpDelete:
			if _, err := tx.Exec(ctx,
				`DELETE FROM documents WHERE collection = $1 AND doc_id = $2`,
				op.Ref.Collection, op.Ref.ID,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// Get fetches one document
func (d *pgDocs) Get(ctx context.Context, ref DocRef) (Document, bool, error) {
	var raw []byte
	err := d.inner.Pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND doc_id = $2`,
		ref.Collection, ref.ID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, false, nil
		}
		return Document{}, false, err
	}
	data, err := unmarshalData(raw)
	if err != nil {
		return Document{}, false, err
	}
	return Document{Ref: ref, Data: data}, true, nil
}

// GetAll returns every document in a collection in doc_id order
func (d *pgDocs) GetAll(ctx context.Context, collection string) ([]Document, error) {
	return d.selectDocs(ctx,
		`SELECT doc_id, data FROM documents WHERE collection = $1 ORDER BY doc_id`,
		collection, collection)
}

// QueryEquals returns documents whose field equals value (text comparison over jsonb)
func (d *pgDocs) QueryEquals(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return d.selectDocs(ctx,
		`SELECT doc_id, data FROM documents WHERE collection = $1 AND data->>$2 = $3 ORDER BY doc_id`,
		collection, collection, field, fmt.Sprint(value))
}

// QueryIn returns documents whose field equals any of values
func (d *pgDocs) QueryIn(ctx context.Context, collection, field string, values []string) ([]Document, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) > MaxQueryIn {
		return nil, fmt.Errorf("store: %d values exceeds MaxQueryIn %d", len(values), MaxQueryIn)
	}
	return d.selectDocs(ctx,
		`SELECT doc_id, data FROM documents WHERE collection = $1 AND data->>$2 = ANY($3) ORDER BY doc_id`,
		collection, collection, field, values)
}

// Ping verifies connectivity
func (d *pgDocs) Ping(ctx context.Context) error { return d.inner.Pool.Ping(ctx) }

// Close closes the underlying pool
func (d *pgDocs) Close() { d.inner.Close() }

// selectDocs runs a (doc_id, data) query and decodes the result set
// collection is passed separately so refs can be rebuilt
func (d *pgDocs) selectDocs(ctx context.Context, sql, collection string, args ...any) ([]Document, error) {
	start := time.Now()
	rows, err := d.inner.Pool.Query(ctx, sql, args...)
	d.trace(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		data, err := unmarshalData(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{Ref: DocRef{Collection: collection, ID: id}, Data: data})
	}
	return out, rows.Err()
}

func (d *pgDocs) exec(ctx context.Context, sql string, args ...any) (int64, error) {
	start := time.Now()
	tag, err := d.inner.Pool.Exec(ctx, sql, args...)
	d.trace(ctx, sql, args, start, err)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (d *pgDocs) trace(ctx context.Context, sql string, args any, start time.Time, err error) {
	if d.inner.Tracer == nil {
		return
	}
	elapsed := time.Since(start).Microseconds()
	d.inner.Tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsed,
		Err:       err,
		Slow:      d.inner.SlowMs > 0 && elapsed > int64(d.inner.SlowMs)*1000,
	})
}

// marshalData encodes a field map to jsonb, replacing ServerTimestamp
// sentinels with the commit time
func marshalData(data map[string]any, now time.Time) ([]byte, error) {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now.Format(time.RFC3339Nano)
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

func unmarshalData(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
