// Package domain holds the core types and data structures for ingestion runs
package domain

import "time"

// RawRow is one spreadsheet row as read from the source, keyed by the raw
// column header. Exists only for the duration of a run.
type RawRow map[string]any

// NormalizedRow is a RawRow with headers rewritten to canonical field names
type NormalizedRow map[string]any

// TypedRecord is a fully coerced row. Every canonical field declared by the
// record type has a defined value of its declared kind, possibly empty.
// Row is the 1-based source row index used in error messages.
type TypedRecord struct {
	Row    int
	Fields map[string]any
}

// String returns the field as a string, or "" when absent or differently typed
func (r TypedRecord) String(field string) string {
	s, _ := r.Fields[field].(string)
	return s
}

// Date returns the field as a date pointer, nil when absent
func (r TypedRecord) Date(field string) *time.Time {
	d, _ := r.Fields[field].(*time.Time)
	return d
}

// ValidationResult pairs a record with every error found on it. Errors are
// collected, never short-circuited, so an operator can fix a whole file at
// once.
type ValidationResult struct {
	Record TypedRecord
	Errors []string
}

// Valid reports whether the record passed every check
func (v ValidationResult) Valid() bool { return len(v.Errors) == 0 }

// IdentityKey is a record's resolved identity: the first non-empty field in
// the record type's precedence list, or "" when the record has none.
type IdentityKey = string

// Collision is an identity key claimed by more than one row in the same run
type Collision struct {
	Key  IdentityKey `json:"key"`
	Rows []int       `json:"rows"`
}

// DuplicateHit is an identity already present in the store. Advisory only;
// mode choice, not the hit itself, decides the effect.
type DuplicateHit struct {
	Key        IdentityKey `json:"key"`
	Collection string      `json:"collection"`
	DocID      string      `json:"doc_id"`
	Summary    string      `json:"summary"`
}

// DenylistMatch is one do-not-return registry hit for a candidate record
type DenylistMatch struct {
	Row        int    `json:"row"`
	RecordType string `json:"record_type"`
	Identity   string `json:"identity"`
	Name       string `json:"name"`
	MatchType  string `json:"match_type"` // exact-id, exact-name, fuzzy-name
	Score      int    `json:"score"`
	EntryID    string `json:"entry_id"`
	EntryName  string `json:"entry_name"`
	Reason     string `json:"reason"`
}

// Mode selects how committed records relate to what the collection already holds
type Mode string

// Ingestion modes
const (
	ModeAppend  Mode = "append"
	ModeReplace Mode = "replace"
)

// RunState is a position in the run state machine
type RunState string

// Run states, in machine order
const (
	StateIdle             RunState = "idle"
	StateParsing          RunState = "parsing"
	StateNormalizing      RunState = "normalizing"
	StateValidating       RunState = "validating"
	StateValidationFailed RunState = "validation_failed"
	StateResolving        RunState = "resolving"
	StateScreening        RunState = "screening"
	StateAwaitingOverride RunState = "awaiting_override"
	StateCommitting       RunState = "committing"
	StateReporting        RunState = "reporting"
	StateDone             RunState = "done"
)

// TypeReport carries per-record-type outcome counts.
// Skipped counts record-level soft failures; Failed counts only
// infrastructure write errors.
type TypeReport struct {
	Type       string         `json:"type"`
	Collection string         `json:"collection"`
	Source     string         `json:"source,omitempty"`
	Attempted  int            `json:"attempted"`
	Succeeded  int            `json:"succeeded"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
	Errors     []string       `json:"errors,omitempty"`
	Collisions []Collision    `json:"collisions,omitempty"`
	Duplicates []DuplicateHit `json:"duplicates,omitempty"`
}

// RunReport is the audit record of one ingestion run. Mutated while the run
// progresses, frozen once State reaches a terminal value.
type RunReport struct {
	RunID      string          `json:"run_id"`
	Mode       Mode            `json:"mode"`
	State      RunState        `json:"state"`
	Operator   string          `json:"operator,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	ElapsedMS  int64           `json:"elapsed_ms"`
	Types      []TypeReport    `json:"types"`
	Matches    []DenylistMatch `json:"matches,omitempty"`
	Overridden bool            `json:"overridden"`
	DecidedBy  string          `json:"decided_by,omitempty"`
}

// Terminal reports whether the run has ended
func (r *RunReport) Terminal() bool {
	switch r.State {
	case StateValidationFailed, StateDone:
		return true
	}
	return false
}

// TypeReportFor returns the report slot for a record type, if present
func (r *RunReport) TypeReportFor(recordType string) *TypeReport {
	for i := range r.Types {
		if r.Types[i].Type == recordType {
			return &r.Types[i]
		}
	}
	return nil
}

// DenylistEntry is one do-not-return registry record as loaded from the store
type DenylistEntry struct {
	DocID  string
	EID    string
	Name   string
	Reason string
}

// Decision is the operator's answer to a run suspended at AwaitingOverride
type Decision struct {
	Proceed  bool   `json:"proceed"`
	Operator string `json:"operator"`
}
