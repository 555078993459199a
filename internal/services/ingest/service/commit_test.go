package service

import (
	"context"
	"fmt"
	"testing"

	"rosterline/internal/platform/store"
	"rosterline/internal/platform/store/mem"
	"rosterline/internal/services/ingest/domain"
)

func laborCfg(t *testing.T) domain.RecordTypeConfig {
	t.Helper()
	cfg, ok := domain.DefaultRegistry().Lookup("labor_report")
	if !ok {
		t.Fatal("labor_report config missing")
	}
	return cfg
}

func makeRecords(n int) []domain.TypedRecord {
	out := make([]domain.TypedRecord, n)
	for i := range out {
		out[i] = rec(i+1, map[string]any{
			"eid":  fmt.Sprintf("E%04d", i+1),
			"name": fmt.Sprintf("Person %d", i+1),
		})
	}
	return out
}

func TestCommitPartitionsAt500(t *testing.T) {
	docs := mem.New()
	cfg := applicantCfg(t)

	res := commitType(context.Background(), docs, makeRecords(1234), cfg, domain.ModeAppend, "tester")
	if res.Succeeded != 1234 || res.Failed != 0 || res.Skipped != 0 {
		t.Fatalf("result %+v", res)
	}
	// 500 + 500 + 234, committed in order
	if got := docs.Commits(); got != 3 {
		t.Fatalf("got %d commits, want 3", got)
	}
	if got := docs.Len(cfg.Collection); got != 1234 {
		t.Fatalf("got %d documents, want 1234", got)
	}
}

func TestCommitPartialFailureContinues(t *testing.T) {
	docs := mem.New()
	docs.FailCommit = func(i int) bool { return i == 1 } // second unit only
	cfg := applicantCfg(t)

	res := commitType(context.Background(), docs, makeRecords(1234), cfg, domain.ModeAppend, "tester")
	if res.Succeeded != 734 { // units 1 and 3
		t.Fatalf("succeeded %d, want 734", res.Succeeded)
	}
	if res.Failed != 500 {
		t.Fatalf("failed %d, want 500", res.Failed)
	}
	if docs.Commits() != 3 {
		t.Fatalf("unit 3 was not attempted: %d commits", docs.Commits())
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors %v", res.Errors)
	}
	if docs.Len(cfg.Collection) != 734 {
		t.Fatalf("stored %d, want 734", docs.Len(cfg.Collection))
	}
}

func TestCommitReplaceClearsCollectionFirst(t *testing.T) {
	docs := mem.New()
	cfg := applicantCfg(t)
	docs.Seed(cfg.Collection, "old-1", map[string]any{"name": "Old One"})
	docs.Seed(cfg.Collection, "old-2", map[string]any{"name": "Old Two"})

	res := commitType(context.Background(), docs, makeRecords(3), cfg, domain.ModeReplace, "tester")
	if res.Succeeded != 3 {
		t.Fatalf("result %+v", res)
	}
	if got := docs.Len(cfg.Collection); got != 3 {
		t.Fatalf("collection holds %d docs, want only the 3 new ones", got)
	}

	// replace runs carry the migration audit markers
	all, _ := docs.GetAll(context.Background(), cfg.Collection)
	if all[0].Data["migratedBy"] != "tester" {
		t.Fatalf("missing migratedBy: %+v", all[0].Data)
	}
	if all[0].Data["migratedAt"] == nil {
		t.Fatal("missing migratedAt")
	}
}

func TestCommitKeyedTypesUpsertByIdentity(t *testing.T) {
	docs := mem.New()
	cfg, _ := domain.DefaultRegistry().Lookup("associate")
	docs.Seed(cfg.Collection, "E1", map[string]any{"name": "Jane Doe", "note": "operator entered"})

	records := []domain.TypedRecord{
		rec(1, map[string]any{"eid": "E1", "name": "Jane Doe", "status": "Active"}),
	}
	res := commitType(context.Background(), docs, records, cfg, domain.ModeAppend, "tester")
	if res.Succeeded != 1 {
		t.Fatalf("result %+v", res)
	}

	doc, ok, _ := docs.Get(context.Background(), store.DocRef{Collection: cfg.Collection, ID: "E1"})
	if !ok {
		t.Fatal("document missing")
	}
	// merge keeps operator-entered fields a spreadsheet never carries
	if doc.Data["note"] != "operator entered" {
		t.Fatalf("merge lost fields: %+v", doc.Data)
	}
	if doc.Data["status"] != "Active" {
		t.Fatalf("update not applied: %+v", doc.Data)
	}
	if docs.Len(cfg.Collection) != 1 {
		t.Fatalf("keyed upsert created a second doc: %d", docs.Len(cfg.Collection))
	}
}

func TestCommitKeyedTypeSkipsRecordsWithoutIdentity(t *testing.T) {
	docs := mem.New()
	cfg, _ := domain.DefaultRegistry().Lookup("badge")

	records := []domain.TypedRecord{
		rec(1, map[string]any{"eid": "E1", "badgeNumber": "B1"}),
		rec(2, map[string]any{"eid": "", "badgeNumber": "B2"}),
	}
	res := commitType(context.Background(), docs, records, cfg, domain.ModeAppend, "tester")
	if res.Succeeded != 1 || res.Skipped != 1 || res.Failed != 0 {
		t.Fatalf("result %+v", res)
	}
}

func TestDocFieldsLaborSplit(t *testing.T) {
	cfg := laborCfg(t)
	r := rec(1, map[string]any{"eid": "E1", "totalHours": 10.0})

	out := docFields(r, cfg, domain.ModeAppend, "tester")
	if out["directHours"] != 8.0 {
		t.Fatalf("directHours = %v, want 8 at the default split", out["directHours"])
	}
	if out["indirectHours"] != 2.0 {
		t.Fatalf("indirectHours = %v, want exactly 2", out["indirectHours"])
	}
	if out["directHours"].(float64)+out["indirectHours"].(float64) != 10.0 {
		t.Fatalf("split does not sum to total: %v + %v", out["directHours"], out["indirectHours"])
	}

	cfg.DirectShare = 0.5
	out = docFields(r, cfg, domain.ModeAppend, "tester")
	if out["directHours"] != 5.0 {
		t.Fatalf("directHours = %v, want 5 with an overridden split", out["directHours"])
	}
}

func TestDocFieldsAudit(t *testing.T) {
	cfg := applicantCfg(t)
	r := rec(1, map[string]any{"eid": "E1", "name": "Jane Doe"})

	out := docFields(r, cfg, domain.ModeAppend, "importer@site")
	if out["createdBy"] != "importer@site" {
		t.Fatalf("createdBy = %v", out["createdBy"])
	}
	if out["createdAt"] == nil {
		t.Fatal("createdAt missing")
	}
	if _, ok := out["migratedAt"]; ok {
		t.Fatal("append mode must not stamp migration markers")
	}
	// empty fields are omitted, not stored as empty strings
	if _, ok := out["email"]; ok {
		t.Fatal("empty email stored")
	}
}
