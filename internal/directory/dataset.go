package directory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/carebridge/patient-portal/internal/records"
)

// Dataset is the JSON document the portal boots from: the demo directories
// plus each patient's historical test results.
type Dataset struct {
	Patients    []Patient            `json:"patients"`
	Providers   []Provider           `json:"providers"`
	Hospitals   []Hospital           `json:"hospitals"`
	TestResults []records.TestResult `json:"test_results"`
}

// Load reads a dataset file written by cmd/seed.
func Load(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	return ds, nil
}

// Default is the built-in demo dataset the server falls back to when no
// dataset file is configured.
func Default() Dataset {
	return Dataset{
		Patients: []Patient{
			{
				ID:               "1",
				Name:             "John Smith",
				Email:            "john.smith@email.com",
				DateOfBirth:      "1985-03-15",
				Gender:           "male",
				BloodGroup:       "O+",
				Address:          "123 Main St, Springfield, IL",
				Phone:            "+1 (555) 123-4567",
				EmergencyContact: "+1 (555) 987-6543",
			},
		},
		Providers: []Provider{
			{
				ID:              "2",
				Name:            "Dr. Sarah Johnson",
				Email:           "dr.johnson@hospital.com",
				Specialty:       "Cardiology",
				Degree:          "MD, FACC",
				Hospital:        "City General Hospital",
				ExperienceYears: 8,
				ConsultationFee: 150,
				Availability: []WindowSpec{
					{Day: "Monday", Start: "09:00", End: "12:00", Location: "City General Hospital"},
					{Day: "Tuesday", Start: "09:00", End: "12:00", Location: "City General Hospital"},
					{Day: "Wednesday", Start: "14:00", End: "17:00", Location: "City General Hospital"},
					{Day: "Friday", Start: "09:00", End: "12:00", Location: "Downtown Clinic"},
				},
			},
			{
				ID:              "3",
				Name:            "Dr. Michael Chen",
				Email:           "dr.chen@hospital.com",
				Specialty:       "Dermatology",
				Degree:          "MD, FAAD",
				Hospital:        "Metro Health Center",
				ExperienceYears: 12,
				ConsultationFee: 120,
				Availability: []WindowSpec{
					{Day: "Monday", Start: "10:00", End: "13:00", Location: "Metro Health Center"},
					{Day: "Wednesday", Start: "10:00", End: "13:00", Location: "Metro Health Center"},
					{Day: "Thursday", Start: "14:00", End: "18:00", Location: "Metro Health Center"},
					{Day: "Saturday", Start: "09:00", End: "11:00", Location: "Metro Health Center"},
				},
			},
			{
				ID:              "4",
				Name:            "Dr. Emily Rodriguez",
				Email:           "dr.rodriguez@hospital.com",
				Specialty:       "Pediatrics",
				Degree:          "MD, FAAP",
				Hospital:        "Children's Medical Center",
				ExperienceYears: 6,
				ConsultationFee: 130,
				Availability: []WindowSpec{
					{Day: "Tuesday", Start: "09:00", End: "12:30", Location: "Children's Medical Center"},
					{Day: "Wednesday", Start: "09:00", End: "12:30", Location: "Children's Medical Center"},
					{Day: "Thursday", Start: "09:00", End: "12:30", Location: "Children's Medical Center"},
					{Day: "Friday", Start: "13:00", End: "16:00", Location: "Children's Medical Center"},
				},
			},
		},
		Hospitals: []Hospital{
			{
				ID:          "5",
				Name:        "City General Hospital",
				Email:       "admin@citygeneral.com",
				Address:     "456 Hospital Ave, Springfield, IL",
				Phone:       "+1 (555) 234-5678",
				Departments: []string{"Emergency", "Cardiology", "Orthopedics", "Neurology"},
				Services:    []string{"MRI", "CT Scan", "X-Ray", "Blood Tests", "ECG"},
			},
		},
		TestResults: []records.TestResult{
			{
				ID:          "1",
				PatientID:   "1",
				TestOrderID: "1",
				FacilityID:  "5",
				Category:    "Blood Test",
				Name:        "Complete Blood Count (CBC)",
				Date:        "2024-05-30",
				Result:      "Normal values within reference range",
				PerformedBy: "Dr. Sarah Johnson",
				Notes:       "Routine monitoring, no follow-up needed",
				Status:      records.ResultCompleted,
				ReportURL:   "/mock-reports/cbc-report.pdf",
				Parameters: []records.Parameter{
					{Name: "Hemoglobin", Value: "14.2 g/dL", NormalRange: "13.5-17.5 g/dL"},
					{Name: "WBC", Value: "6.8 x10^9/L", NormalRange: "4.5-11.0 x10^9/L"},
				},
			},
			{
				ID:          "2",
				PatientID:   "1",
				TestOrderID: "2",
				FacilityID:  "5",
				Category:    "Blood Test",
				Name:        "Lipid Panel",
				Date:        "2024-05-30",
				Result:      "Total cholesterol: 195 mg/dL (Normal)",
				PerformedBy: "Dr. Sarah Johnson",
				Status:      records.ResultCompleted,
				ReportURL:   "/mock-reports/lipid-report.pdf",
				Parameters: []records.Parameter{
					{Name: "Total Cholesterol", Value: "195 mg/dL", NormalRange: "< 200 mg/dL"},
					{Name: "LDL", Value: "118 mg/dL", NormalRange: "< 130 mg/dL"},
				},
			},
		},
	}
}
