package records

type ResultStatus string

const (
	ResultPending   ResultStatus = "pending"
	ResultCompleted ResultStatus = "completed"
)

// Parameter is one measured value on a test report.
type Parameter struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	NormalRange string `json:"normal_range,omitempty"`
}

// TestResult is one historical test record for a patient. Records are
// immutable once uploaded by the facility; this package only reads them.
// Optional string fields use "" for absent, dates are "2006-01-02".
type TestResult struct {
	ID          string       `json:"id"`
	PatientID   string       `json:"patient_id"`
	TestOrderID string       `json:"test_order_id,omitempty"`
	FacilityID  string       `json:"facility_id"`
	Category    string       `json:"category"`
	Name        string       `json:"name"`
	Date        string       `json:"date"`
	Result      string       `json:"result,omitempty"`
	PerformedBy string       `json:"performed_by,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Status      ResultStatus `json:"status"`
	ReportURL   string       `json:"report_url,omitempty"`
	Parameters  []Parameter  `json:"parameters,omitempty"`
}
