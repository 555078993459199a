// Package repo provides document-store access for ingestion runs
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"rosterline/internal/modkit/repokit"
	perr "rosterline/internal/platform/errors"
	"rosterline/internal/platform/store"
	"rosterline/internal/services/ingest/domain"
)

// Collections owned by this repo
const (
	RunsCollection      = "ingest_runs"
	DecisionsCollection = "ingest_decisions"
	DenylistCollection  = "dnr"
)

type (
	// Docs is a document-store binder for domain.StorageRepo
	Docs    struct{}
	queries struct{ d repokit.Docs }
)

// NewDocs returns a document-store binder for domain.StorageRepo
func NewDocs() repokit.Binder[domain.StorageRepo] { return Docs{} }

// Bind implements repokit.Binder
func (Docs) Bind(d repokit.Docs) domain.StorageRepo { return &queries{d: d} }

// FindByIdentity surfaces existing documents whose identity field matches
// any key. Key sets larger than the store's in-query limit are chunked and
// the results unioned.
func (r *queries) FindByIdentity(ctx context.Context, collection, field string, keys []string) ([]domain.DuplicateHit, error) {
	var out []domain.DuplicateHit
	for start := 0; start < len(keys); start += store.MaxQueryIn {
		end := min(start+store.MaxQueryIn, len(keys))
		docs, err := r.d.QueryIn(ctx, collection, field, keys[start:end])
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			key, _ := doc.Data[field].(string)
			out = append(out, domain.DuplicateHit{
				Key:        key,
				Collection: collection,
				DocID:      doc.Ref.ID,
				Summary:    summarize(doc.Data),
			})
		}
	}
	return out, nil
}

// LoadDenylist returns the full do-not-return registry
func (r *queries) LoadDenylist(ctx context.Context) ([]domain.DenylistEntry, error) {
	docs, err := r.d.GetAll(ctx, DenylistCollection)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DenylistEntry, 0, len(docs))
	for _, doc := range docs {
		eid, _ := doc.Data["eid"].(string)
		name, _ := doc.Data["name"].(string)
		reason, _ := doc.Data["reason"].(string)
		out = append(out, domain.DenylistEntry{DocID: doc.Ref.ID, EID: eid, Name: name, Reason: reason})
	}
	return out, nil
}

// SaveRun upserts the run report document keyed by run id
func (r *queries) SaveRun(ctx context.Context, report *domain.RunReport) error {
	fields, err := toFields(report)
	if err != nil {
		return err
	}
	b := store.NewBatch()
	b.Set(store.DocRef{Collection: RunsCollection, ID: report.RunID}, fields, false)
	return r.d.Commit(ctx, b)
}

// GetRun loads one run report by id
func (r *queries) GetRun(ctx context.Context, runID string) (*domain.RunReport, bool, error) {
	doc, ok, err := r.d.Get(ctx, store.DocRef{Collection: RunsCollection, ID: runID})
	if err != nil || !ok {
		return nil, false, err
	}
	report, err := fromFields(doc.Data)
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

// ListRuns returns recent run reports, newest first
func (r *queries) ListRuns(ctx context.Context, limit int) ([]*domain.RunReport, error) {
	docs, err := r.d.GetAll(ctx, RunsCollection)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.RunReport, 0, len(docs))
	for _, doc := range docs {
		report, err := fromFields(doc.Data)
		if err != nil {
			// a malformed report document must not hide the rest
			continue
		}
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DecisionFor returns the recorded operator decision for a run, if any
func (r *queries) DecisionFor(ctx context.Context, runID string) (domain.Decision, bool, error) {
	doc, ok, err := r.d.Get(ctx, store.DocRef{Collection: DecisionsCollection, ID: runID})
	if err != nil || !ok {
		return domain.Decision{}, false, err
	}
	proceed, _ := doc.Data["proceed"].(bool)
	operator, _ := doc.Data["operator"].(string)
	return domain.Decision{Proceed: proceed, Operator: operator}, true, nil
}

// SaveDecision records an operator decision for a suspended run
func (r *queries) SaveDecision(ctx context.Context, runID string, d domain.Decision) error {
	b := store.NewBatch()
	b.Set(store.DocRef{Collection: DecisionsCollection, ID: runID}, map[string]any{
		"proceed":   d.Proceed,
		"operator":  d.Operator,
		"decidedAt": store.ServerTimestamp,
	}, false)
	return r.d.Commit(ctx, b)
}

// toFields flattens a report through its JSON form so the stored document
// matches the API wire shape exactly
func toFields(report *domain.RunReport) (map[string]any, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, perr.JSONErrf("encoding run report: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, perr.JSONErrf("flattening run report: %v", err)
	}
	return fields, nil
}

func fromFields(data map[string]any) (*domain.RunReport, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, perr.JSONErrf("encoding run document: %v", err)
	}
	var report domain.RunReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, perr.JSONErrf("decoding run report: %v", err)
	}
	return &report, nil
}

func summarize(data map[string]any) string {
	name, _ := data["name"].(string)
	status, _ := data["status"].(string)
	switch {
	case name != "" && status != "":
		return fmt.Sprintf("%s (%s)", name, status)
	case name != "":
		return name
	default:
		return ""
	}
}
