package records

import "testing"

func fixtureRecords() []TestResult {
	return []TestResult{
		{
			ID: "1", PatientID: "1", FacilityID: "5",
			Category: "Blood Test", Name: "Complete Blood Count (CBC)",
			Date: "2024-05-14", PerformedBy: "Dr. Sarah Johnson",
			Notes: "Routine monitoring", Status: ResultCompleted,
		},
		{
			ID: "2", PatientID: "1", FacilityID: "5",
			Category: "Pathology", Name: "Tissue Biopsy",
			Date: "2024-05-28", PerformedBy: "Dr. Michael Chen",
			Status: ResultCompleted,
		},
		{
			ID: "3", PatientID: "1", FacilityID: "6",
			Category: "Pathology", Name: "Cytology Screen",
			Date: "2024-06-04", PerformedBy: "Dr. Michael Chen",
			Notes: "Follow-up in 6 months", Status: ResultCompleted,
		},
		{
			ID: "4", PatientID: "1", FacilityID: "5",
			Category: "X-Ray", Name: "Chest X-Ray",
			Date: "2024-06-11", PerformedBy: "Dr. Sarah Johnson",
			Status: ResultCompleted,
		},
		{
			ID: "5", PatientID: "1", FacilityID: "6",
			Category: "Pathology", Name: "Histology Panel",
			Date: "2024-06-20", PerformedBy: "Dr. Emily Rodriguez",
			Notes: "Benign findings", Status: ResultCompleted,
		},
	}
}

func ids(results []TestResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func assertIDs(t *testing.T, got []TestResult, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestApply_EmptySpecIsIdentity(t *testing.T) {
	in := fixtureRecords()
	out := Apply(in, FilterSpec{})
	assertIDs(t, out, "1", "2", "3", "4", "5")
}

func TestApply_InvertedBoundsYieldEmpty(t *testing.T) {
	out := Apply(fixtureRecords(), FilterSpec{FromDate: "2024-06-01", ToDate: "2024-05-01"})
	if out == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(out) != 0 {
		t.Errorf("expected empty result, got %v", ids(out))
	}
}

func TestApply_DateBounds(t *testing.T) {
	out := Apply(fixtureRecords(), FilterSpec{FromDate: "2024-05-28", ToDate: "2024-06-11"})
	assertIDs(t, out, "2", "3", "4")

	// Either bound may be omitted independently.
	out = Apply(fixtureRecords(), FilterSpec{FromDate: "2024-06-01"})
	assertIDs(t, out, "3", "4", "5")

	out = Apply(fixtureRecords(), FilterSpec{ToDate: "2024-05-28"})
	assertIDs(t, out, "1", "2")
}

func TestApply_KeywordCaseInsensitive(t *testing.T) {
	// Matches the name.
	out := Apply(fixtureRecords(), FilterSpec{Keyword: "x-ray"})
	assertIDs(t, out, "4")

	// Matches the category.
	out = Apply(fixtureRecords(), FilterSpec{Keyword: "PATHOLOGY"})
	assertIDs(t, out, "2", "3", "5")

	// Matches notes; records without notes simply don't match on notes.
	out = Apply(fixtureRecords(), FilterSpec{Keyword: "benign"})
	assertIDs(t, out, "5")

	out = Apply(fixtureRecords(), FilterSpec{Keyword: "no such thing"})
	if len(out) != 0 {
		t.Errorf("expected no matches, got %v", ids(out))
	}
}

func TestApply_ExactMatchFields(t *testing.T) {
	out := Apply(fixtureRecords(), FilterSpec{Clinician: "Dr. Michael Chen"})
	assertIDs(t, out, "2", "3")

	// Substrings are not enough for exact-match fields.
	out = Apply(fixtureRecords(), FilterSpec{Clinician: "Michael"})
	if len(out) != 0 {
		t.Errorf("clinician match should be exact, got %v", ids(out))
	}

	out = Apply(fixtureRecords(), FilterSpec{FacilityID: "6"})
	assertIDs(t, out, "3", "5")

	out = Apply(fixtureRecords(), FilterSpec{Category: "Blood Test"})
	assertIDs(t, out, "1")
}

func TestApply_RequireNotes(t *testing.T) {
	out := Apply(fixtureRecords(), FilterSpec{RequireNotes: true})
	assertIDs(t, out, "1", "3", "5")
}

func TestApply_ConjunctionPreservesOrder(t *testing.T) {
	// June-dated Pathology records only, in original relative order.
	out := Apply(fixtureRecords(), FilterSpec{FromDate: "2024-06-01", Category: "Pathology"})
	assertIDs(t, out, "3", "5")
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := fixtureRecords()
	Apply(in, FilterSpec{Category: "Pathology", RequireNotes: true})
	assertIDs(t, in, "1", "2", "3", "4", "5")
}
