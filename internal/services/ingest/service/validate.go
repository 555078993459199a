package service

import (
	"fmt"
	"regexp"
	"strings"

	"rosterline/internal/services/ingest/domain"
)

// good enough for catching transposed-at-sign typos; real verification is
// out of scope
var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate runs every check on every record and collects every error.
// Nothing short-circuits: an operator needs the complete error list to fix
// a whole file in one pass.
func Validate(records []domain.TypedRecord, cfg domain.RecordTypeConfig) []domain.ValidationResult {
	out := make([]domain.ValidationResult, len(records))
	for i, rec := range records {
		out[i] = domain.ValidationResult{Record: rec, Errors: validateOne(rec, cfg)}
	}
	return out
}

func validateOne(rec domain.TypedRecord, cfg domain.RecordTypeConfig) []string {
	var errs []string

	for _, f := range cfg.Fields {
		v := rec.Fields[f.Name]

		if f.Required && fieldEmpty(v) {
			errs = append(errs, fmt.Sprintf("Row %d: Missing required field '%s'", rec.Row, f.Name))
			continue
		}
		if fieldEmpty(v) {
			continue
		}

		if len(f.Enum) > 0 {
			s, _ := v.(string)
			if !enumContains(f.Enum, s) {
				errs = append(errs, fmt.Sprintf(
					"Row %d: Invalid %s '%s'. Must be one of: %s",
					rec.Row, f.Name, s, strings.Join(f.Enum, ", ")))
			}
		}

		if f.Email {
			s, _ := v.(string)
			if !emailRx.MatchString(s) {
				errs = append(errs, fmt.Sprintf("Row %d: Invalid %s '%s'. Must be a valid email address", rec.Row, f.Name, s))
			}
		}
	}

	if !hasIdentity(rec, cfg) {
		errs = append(errs, fmt.Sprintf(
			"Row %d: Missing identity. At least one of [%s] is required",
			rec.Row, strings.Join(cfg.Identity, ", ")))
	}

	return errs
}

func enumContains(allowed []string, v string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, v) {
			return true
		}
	}
	return false
}

func hasIdentity(rec domain.TypedRecord, cfg domain.RecordTypeConfig) bool {
	for _, field := range cfg.Identity {
		if !fieldEmpty(rec.Fields[field]) {
			return true
		}
	}
	return false
}
