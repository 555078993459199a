package store

import "context"

// MaxBatchOps is the store's hard limit on operations per committed batch.
// The upsert engine partitions work so no batch ever exceeds it.
const MaxBatchOps = 500

// MaxQueryIn is the store's hard limit on values per "in"-style equality query.
// Callers chunk larger key sets.
const MaxQueryIn = 30

// DocRef addresses a single document inside a collection
type DocRef struct {
	Collection string
	ID         string
}

// Document is a read result: its ref plus the decoded field map
type Document struct {
	Ref  DocRef
	Data map[string]any
}

// serverTimestamp is the sentinel type for ServerTimestamp
type serverTimestamp struct{}

// ServerTimestamp is a sentinel field value replaced by the adapter with the
// store-assigned commit time. Audit timestamps use it so clock skew on the
// ingesting host never leaks into records.
var ServerTimestamp = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// OpKind discriminates batch operations
type OpKind uint8

const (
	// OpSet writes a document (optionally merging into an existing one)
	OpSet OpKind = iota
	// OpDelete removes a document
	OpDelete
)

// BatchOp is one (ref, operation) pair inside a Batch
type BatchOp struct {
	Kind  OpKind
	Ref   DocRef
	Data  map[string]any
	Merge bool
}

// Batch is an ordered list of operations committed atomically by the adapter:
// all operations in one batch apply or none do. Batches are built client side
// and are inert until passed to Docs.Commit.
type Batch struct {
	ops []BatchOp
}

// NewBatch returns an empty batch
func NewBatch() *Batch { return &Batch{} }

// Set queues a document write; merge folds data into an existing document
// instead of replacing it
func (b *Batch) Set(ref DocRef, data map[string]any, merge bool) {
	b.ops = append(b.ops, BatchOp{Kind: OpSet, Ref: ref, Data: data, Merge: merge})
}

// Delete queues a document delete
func (b *Batch) Delete(ref DocRef) {
	b.ops = append(b.ops, BatchOp{Kind: OpDelete, Ref: ref})
}

// Len returns the number of queued operations
func (b *Batch) Len() int { return len(b.ops) }

// Ops exposes the queued operations to adapters
func (b *Batch) Ops() []BatchOp { return b.ops }

// Docs is the entire storage contract the ingestion pipeline consumes: a
// transactional key-value document store with a batched-write API and an
// equality query API. It deliberately excludes transactions beyond a single
// batch, listeners, and security-rule semantics.
type Docs interface {
	// Commit applies the batch atomically; an error means none of it applied
	Commit(ctx context.Context, b *Batch) error

	// Get fetches one document; ok=false when absent
	Get(ctx context.Context, ref DocRef) (Document, bool, error)

	// GetAll returns every document in a collection
	GetAll(ctx context.Context, collection string) ([]Document, error)

	// QueryEquals returns documents whose field equals value
	QueryEquals(ctx context.Context, collection, field string, value any) ([]Document, error)

	// QueryIn returns documents whose field equals any of values
	// (len(values) must be <= MaxQueryIn)
	QueryIn(ctx context.Context, collection, field string, values []string) ([]Document, error)

	// Ping verifies connectivity
	Ping(ctx context.Context) error
}
