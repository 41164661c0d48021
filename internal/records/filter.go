package records

import "strings"

// FilterSpec is a composite query over a patient's test history. Every field
// is optional; a zero-value field is a wildcard and an entirely zero spec
// matches everything. Predicates combine with AND.
type FilterSpec struct {
	// Keyword matches case-insensitively as a substring of the test name,
	// category or notes. A record without notes can still match on the
	// other two fields.
	Keyword string

	// FromDate and ToDate are inclusive "2006-01-02" bounds, independently
	// optional. FromDate > ToDate is a defined edge case: the result is
	// empty, not an error.
	FromDate string
	ToDate   string

	// Exact matches when set.
	Category   string
	Clinician  string
	FacilityID string

	// RequireNotes excludes records with no notes.
	RequireNotes bool
}

// IsZero reports whether the spec constrains anything.
func (s FilterSpec) IsZero() bool {
	return s == FilterSpec{}
}

// Apply returns the records matching the spec, preserving input order. It is
// pure: the input slice is never mutated or re-sorted.
func Apply(results []TestResult, spec FilterSpec) []TestResult {
	if spec.IsZero() {
		return results
	}
	if spec.FromDate != "" && spec.ToDate != "" && spec.FromDate > spec.ToDate {
		return []TestResult{}
	}

	out := make([]TestResult, 0, len(results))
	for _, r := range results {
		if matches(r, spec) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r TestResult, spec FilterSpec) bool {
	if spec.Keyword != "" && !matchesKeyword(r, spec.Keyword) {
		return false
	}
	// ISO dates compare correctly as strings.
	if spec.FromDate != "" && r.Date < spec.FromDate {
		return false
	}
	if spec.ToDate != "" && r.Date > spec.ToDate {
		return false
	}
	if spec.Category != "" && r.Category != spec.Category {
		return false
	}
	if spec.Clinician != "" && r.PerformedBy != spec.Clinician {
		return false
	}
	if spec.FacilityID != "" && r.FacilityID != spec.FacilityID {
		return false
	}
	if spec.RequireNotes && r.Notes == "" {
		return false
	}
	return true
}

func matchesKeyword(r TestResult, keyword string) bool {
	kw := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(r.Name), kw) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Category), kw) {
		return true
	}
	return r.Notes != "" && strings.Contains(strings.ToLower(r.Notes), kw)
}
