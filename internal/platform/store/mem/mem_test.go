package mem

import (
	"context"
	"testing"
	"time"

	"rosterline/internal/platform/store"
)

func TestCommitMergeSemantics(t *testing.T) {
	d := New()
	ctx := context.Background()

	b := store.NewBatch()
	b.Set(store.DocRef{Collection: "c", ID: "1"}, map[string]any{"a": "x", "keep": true}, false)
	if err := d.Commit(ctx, b); err != nil {
		t.Fatal(err)
	}

	b = store.NewBatch()
	b.Set(store.DocRef{Collection: "c", ID: "1"}, map[string]any{"a": "y"}, true)
	if err := d.Commit(ctx, b); err != nil {
		t.Fatal(err)
	}

	doc, ok, _ := d.Get(ctx, store.DocRef{Collection: "c", ID: "1"})
	if !ok || doc.Data["a"] != "y" || doc.Data["keep"] != true {
		t.Fatalf("doc %#v ok=%v", doc.Data, ok)
	}

	// non-merge set replaces wholesale
	b = store.NewBatch()
	b.Set(store.DocRef{Collection: "c", ID: "1"}, map[string]any{"a": "z"}, false)
	if err := d.Commit(ctx, b); err != nil {
		t.Fatal(err)
	}
	doc, _, _ = d.Get(ctx, store.DocRef{Collection: "c", ID: "1"})
	if _, kept := doc.Data["keep"]; kept {
		t.Fatalf("replace kept stale fields: %#v", doc.Data)
	}
}

func TestCommitResolvesServerTimestamp(t *testing.T) {
	d := New()
	b := store.NewBatch()
	b.Set(store.DocRef{Collection: "c", ID: "1"}, map[string]any{"at": store.ServerTimestamp}, false)
	if err := d.Commit(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	doc, _, _ := d.Get(context.Background(), store.DocRef{Collection: "c", ID: "1"})
	ts, _ := doc.Data["at"].(string)
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		t.Fatalf("at = %#v: %v", doc.Data["at"], err)
	}
}

func TestQueryLimits(t *testing.T) {
	d := New()
	keys := make([]string, store.MaxQueryIn+1)
	for i := range keys {
		keys[i] = "k"
	}
	if _, err := d.QueryIn(context.Background(), "c", "f", keys); err == nil {
		t.Fatal("oversized in-query accepted")
	}

	b := store.NewBatch()
	for i := 0; i <= store.MaxBatchOps; i++ {
		b.Set(store.DocRef{Collection: "c", ID: "x"}, nil, false)
	}
	if err := d.Commit(context.Background(), b); err == nil {
		t.Fatal("oversized batch accepted")
	}
}

func TestFailCommitInjection(t *testing.T) {
	d := New()
	d.FailCommit = func(i int) bool { return i == 0 }

	b := store.NewBatch()
	b.Set(store.DocRef{Collection: "c", ID: "1"}, map[string]any{"a": 1}, false)
	if err := d.Commit(context.Background(), b); err == nil {
		t.Fatal("injected failure did not fire")
	}
	if d.Len("c") != 0 {
		t.Fatal("failed commit wrote data")
	}
	if err := d.Commit(context.Background(), b); err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if d.Commits() != 2 {
		t.Fatalf("commits %d", d.Commits())
	}
}
