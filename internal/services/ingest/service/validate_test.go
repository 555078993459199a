package service

import (
	"strings"
	"testing"

	"rosterline/internal/services/ingest/domain"
)

func applicantCfg(t *testing.T) domain.RecordTypeConfig {
	t.Helper()
	cfg, ok := domain.DefaultRegistry().Lookup("applicant")
	if !ok {
		t.Fatal("applicant config missing")
	}
	return cfg
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := applicantCfg(t)

	// missing name, missing status, no identity fields: exactly three errors
	rows := []domain.RawRow{{"Email": "a@b.example"}}
	results := Validate(Coerce(Normalize(rows, cfg), cfg), cfg)
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	errs := results[0].Errors
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), errs)
	}
	wantSubstrings := []string{
		"Row 1: Missing required field 'name'",
		"Row 1: Missing required field 'status'",
		"Row 1: Missing identity",
	}
	for i, want := range wantSubstrings {
		if !strings.Contains(errs[i], want) {
			t.Errorf("error %d = %q, want prefix %q", i, errs[i], want)
		}
	}
}

func TestValidateEnumMessage(t *testing.T) {
	cfg := applicantCfg(t)

	rows := []domain.RawRow{{
		"Employee ID": "E1",
		"Full Name":   "Jane Doe",
		"Status":      "Ghosted",
	}}
	results := Validate(Coerce(Normalize(rows, cfg), cfg), cfg)
	errs := results[0].Errors
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	want := "Row 1: Invalid status 'Ghosted'. Must be one of: Applied, Interviewed, Offered, Hired, Declined, Withdrawn"
	if errs[0] != want {
		t.Fatalf("got %q\nwant %q", errs[0], want)
	}
}

func TestValidateEnumCaseInsensitive(t *testing.T) {
	cfg := applicantCfg(t)
	rows := []domain.RawRow{{
		"Employee ID": "E1",
		"Name":        "Jane Doe",
		"Status":      "hired",
	}}
	results := Validate(Coerce(Normalize(rows, cfg), cfg), cfg)
	if !results[0].Valid() {
		t.Fatalf("unexpected errors: %v", results[0].Errors)
	}
}

func TestValidateEmailOnlyWhenPresent(t *testing.T) {
	cfg := applicantCfg(t)

	valid := []domain.RawRow{{
		"Employee ID": "E1", "Name": "Jane Doe", "Status": "Hired",
	}}
	if res := Validate(Coerce(Normalize(valid, cfg), cfg), cfg); !res[0].Valid() {
		t.Fatalf("empty email flagged: %v", res[0].Errors)
	}

	bad := []domain.RawRow{{
		"Employee ID": "E1", "Name": "Jane Doe", "Status": "Hired", "Email": "not-an-email",
	}}
	res := Validate(Coerce(Normalize(bad, cfg), cfg), cfg)
	if len(res[0].Errors) != 1 || !strings.Contains(res[0].Errors[0], "Invalid email") {
		t.Fatalf("got %v", res[0].Errors)
	}
}

func TestValidateRequiredFloat(t *testing.T) {
	cfg := laborCfg(t)

	// blank and unparseable hours are absent; an explicit zero is a value
	blank := []domain.RawRow{{"Employee ID": "E1", "Work Date": "2024-01-15", "Total Hours": ""}}
	res := Validate(Coerce(Normalize(blank, cfg), cfg), cfg)
	if len(res[0].Errors) != 1 || !strings.Contains(res[0].Errors[0], "Missing required field 'totalHours'") {
		t.Fatalf("blank hours: %v", res[0].Errors)
	}

	junk := []domain.RawRow{{"Employee ID": "E1", "Work Date": "2024-01-15", "Total Hours": "n/a"}}
	res = Validate(Coerce(Normalize(junk, cfg), cfg), cfg)
	if len(res[0].Errors) != 1 || !strings.Contains(res[0].Errors[0], "Missing required field 'totalHours'") {
		t.Fatalf("junk hours: %v", res[0].Errors)
	}

	zero := []domain.RawRow{{"Employee ID": "E1", "Work Date": "2024-01-15", "Total Hours": "0"}}
	if res := Validate(Coerce(Normalize(zero, cfg), cfg), cfg); !res[0].Valid() {
		t.Fatalf("zero hours flagged: %v", res[0].Errors)
	}
}

func TestValidateRowNumbersFollowSourceOrder(t *testing.T) {
	cfg := applicantCfg(t)
	rows := []domain.RawRow{
		{"Employee ID": "E1", "Name": "Jane Doe", "Status": "Hired"},
		{"Employee ID": "E2", "Name": "John Roe"},
	}
	results := Validate(Coerce(Normalize(rows, cfg), cfg), cfg)
	if !results[0].Valid() {
		t.Fatalf("row 1: %v", results[0].Errors)
	}
	if len(results[1].Errors) != 1 || !strings.HasPrefix(results[1].Errors[0], "Row 2:") {
		t.Fatalf("row 2 errors: %v", results[1].Errors)
	}
}
