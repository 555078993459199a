// Package mem provides an in-memory Docs implementation for tests.
// Semantics mirror the pg adapter: batches apply atomically, merge folds
// fields into an existing document, equality queries compare text forms.
package mem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"rosterline/internal/platform/store"
)

// Docs is an in-memory document store. Safe for concurrent use.
type Docs struct {
	mu   sync.Mutex
	data map[string]map[string]map[string]any // collection -> id -> fields

	// FailCommits makes the Nth, N+1th... calls to Commit fail when the
	// predicate returns true; used to exercise partial-failure paths
	FailCommit func(commitIndex int) bool

	commits int
}

var _ store.Docs = (*Docs)(nil)

// New returns an empty store
func New() *Docs {
	return &Docs{data: map[string]map[string]map[string]any{}}
}

// Seed inserts a document directly, bypassing batch semantics
func (d *Docs) Seed(collection, id string, fields map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.coll(collection)[id] = cloneMap(fields)
}

// Len reports how many documents a collection holds
func (d *Docs) Len(collection string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.data[collection])
}

// Commits reports how many commits were attempted
func (d *Docs) Commits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commits
}

// Commit applies the batch atomically
func (d *Docs) Commit(_ context.Context, b *store.Batch) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.commits
	d.commits++
	if d.FailCommit != nil && d.FailCommit(idx) {
		return fmt.Errorf("mem: injected commit failure (commit %d)", idx)
	}
	if b.Len() > store.MaxBatchOps {
		return fmt.Errorf("mem: batch of %d exceeds MaxBatchOps %d", b.Len(), store.MaxBatchOps)
	}

	now := time.Now().UTC()
	for _, op := range b.Ops() {
		coll := d.coll(op.Ref.Collection)
		switch op.Kind {
		case store.OpSet:
			fields := resolveTimestamps(op.Data, now)
			if op.Merge {
				if existing, ok := coll[op.Ref.ID]; ok {
					merged := cloneMap(existing)
					for k, v := range fields {
						merged[k] = v
					}
					coll[op.Ref.ID] = merged
					continue
				}
			}
			coll[op.Ref.ID] = fields
		case store.OpDelete:
			delete(coll, op.Ref.ID)
		}
	}
	return nil
}

// Get fetches one document
func (d *Docs) Get(_ context.Context, ref store.DocRef) (store.Document, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fields, ok := d.data[ref.Collection][ref.ID]
	if !ok {
		return store.Document{}, false, nil
	}
	return store.Document{Ref: ref, Data: cloneMap(fields)}, true, nil
}

// GetAll returns every document in a collection in id order
func (d *Docs) GetAll(_ context.Context, collection string) ([]store.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.matching(collection, func(map[string]any) bool { return true }), nil
}

// QueryEquals returns documents whose field equals value
func (d *Docs) QueryEquals(_ context.Context, collection, field string, value any) ([]store.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	want := fmt.Sprint(value)
	return d.matching(collection, func(fields map[string]any) bool {
		v, ok := fields[field]
		return ok && fmt.Sprint(v) == want
	}), nil
}

// QueryIn returns documents whose field equals any of values
func (d *Docs) QueryIn(_ context.Context, collection, field string, values []string) ([]store.Document, error) {
	if len(values) > store.MaxQueryIn {
		return nil, fmt.Errorf("mem: %d values exceeds MaxQueryIn %d", len(values), store.MaxQueryIn)
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.matching(collection, func(fields map[string]any) bool {
		v, ok := fields[field]
		if !ok {
			return false
		}
		_, hit := set[fmt.Sprint(v)]
		return hit
	}), nil
}

// Ping always succeeds
func (d *Docs) Ping(context.Context) error { return nil }

// matching must be called with the lock held
func (d *Docs) matching(collection string, pred func(map[string]any) bool) []store.Document {
	coll := d.data[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		if pred(coll[id]) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]store.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, store.Document{
			Ref:  store.DocRef{Collection: collection, ID: id},
			Data: cloneMap(coll[id]),
		})
	}
	return out
}

func (d *Docs) coll(name string) map[string]map[string]any {
	c, ok := d.data[name]
	if !ok {
		c = map[string]map[string]any{}
		d.data[name] = c
	}
	return c
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func resolveTimestamps(in map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if store.IsServerTimestamp(v) {
			out[k] = now.Format(time.RFC3339Nano)
			continue
		}
		out[k] = v
	}
	return out
}
