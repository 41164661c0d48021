package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/carebridge/patient-portal/internal/directory"
	"github.com/carebridge/patient-portal/internal/records"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	out := flag.String("out", "dataset.json", "path to write the generated dataset")
	providers := flag.Int("providers", 25, "number of providers to generate")
	patients := flag.Int("patients", 200, "number of patients to generate")
	hospitals := flag.Int("hospitals", 6, "number of hospitals to generate")
	results := flag.Int("results-per-patient", 4, "max historical test results per patient")
	seed := flag.Uint64("seed", 0, "deterministic seed (0 = random)")
	flag.Parse()

	if *seed != 0 {
		gofakeit.Seed(*seed)
	} else {
		gofakeit.Seed(uint64(time.Now().UnixNano()))
	}

	log.Printf("seeding: providers=%d patients=%d hospitals=%d", *providers, *patients, *hospitals)

	ds := directory.Dataset{
		Hospitals: seedHospitals(*hospitals),
	}
	ds.Providers = seedProviders(*providers, ds.Hospitals)
	ds.Patients = seedPatients(*patients)
	ds.TestResults = seedTestResults(ds.Patients, ds.Providers, ds.Hospitals, *results)

	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		log.Fatalf("marshal dataset: %v", err)
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		log.Fatalf("write dataset: %v", err)
	}

	log.Printf("seed complete: %s (%d test results)", *out, len(ds.TestResults))
}

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

var testCategories = []string{
	"Blood Test",
	"X-Ray",
	"MRI",
	"CT Scan",
	"Ultrasound",
	"ECG",
	"Endoscopy",
	"Biopsy",
	"Urinalysis",
	"Pathology",
}

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func seedHospitals(count int) []directory.Hospital {
	out := make([]directory.Hospital, 0, count)
	for i := 0; i < count; i++ {
		name := gofakeit.City() + " " + gofakeit.RandomString([]string{"General Hospital", "Medical Center", "Health Center", "Clinic"})
		out = append(out, directory.Hospital{
			ID:          fmt.Sprintf("hosp-%d", i+1),
			Name:        name,
			Email:       gofakeit.Email(),
			Address:     gofakeit.Street() + ", " + gofakeit.City(),
			Phone:       gofakeit.Phone(),
			Departments: pick(specialties, 3+gofakeit.Number(0, 3)),
			Services:    pick(testCategories, 3+gofakeit.Number(0, 4)),
		})
	}
	return out
}

func seedProviders(count int, hospitals []directory.Hospital) []directory.Provider {
	out := make([]directory.Provider, 0, count)
	for i := 0; i < count; i++ {
		hospital := hospitals[gofakeit.Number(0, len(hospitals)-1)]

		// Two to four weekly windows, each a few hours at the provider's
		// hospital or an independent clinic track.
		days := pick(weekdayNames, 2+gofakeit.Number(0, 2))
		windows := make([]directory.WindowSpec, 0, len(days))
		for _, day := range days {
			startHour := 8 + gofakeit.Number(0, 6)
			location := hospital.Name
			if gofakeit.Number(0, 3) == 0 {
				location = gofakeit.City() + " Clinic"
			}
			windows = append(windows, directory.WindowSpec{
				Day:      day,
				Start:    fmt.Sprintf("%02d:00", startHour),
				End:      fmt.Sprintf("%02d:00", startHour+2+gofakeit.Number(0, 2)),
				Location: location,
			})
		}

		out = append(out, directory.Provider{
			ID:              fmt.Sprintf("prov-%d", i+1),
			Name:            "Dr. " + gofakeit.Name(),
			Email:           gofakeit.Email(),
			Specialty:       specialties[gofakeit.Number(0, len(specialties)-1)],
			Degree:          "MD",
			Hospital:        hospital.Name,
			ExperienceYears: gofakeit.Number(1, 30),
			ConsultationFee: 50 + 10*gofakeit.Number(0, 20),
			Availability:    windows,
		})
	}
	return out
}

func seedPatients(count int) []directory.Patient {
	out := make([]directory.Patient, 0, count)
	for i := 0; i < count; i++ {
		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		)
		out = append(out, directory.Patient{
			ID:          fmt.Sprintf("pat-%d", i+1),
			Name:        gofakeit.Name(),
			Email:       gofakeit.Email(),
			DateOfBirth: dob.Format("2006-01-02"),
			Gender:      gofakeit.Gender(),
			BloodGroup:  gofakeit.RandomString([]string{"O+", "O-", "A+", "A-", "B+", "B-", "AB+", "AB-"}),
			Phone:       gofakeit.Phone(),
			Address:     gofakeit.Street() + ", " + gofakeit.City(),
		})
	}
	return out
}

func seedTestResults(patients []directory.Patient, providers []directory.Provider, hospitals []directory.Hospital, maxPerPatient int) []records.TestResult {
	var out []records.TestResult
	id := 0
	for _, p := range patients {
		n := gofakeit.Number(0, maxPerPatient)
		for i := 0; i < n; i++ {
			id++
			category := testCategories[gofakeit.Number(0, len(testCategories)-1)]
			date := gofakeit.DateRange(
				time.Now().AddDate(-2, 0, 0),
				time.Now(),
			)

			notes := ""
			if gofakeit.Bool() {
				notes = gofakeit.Sentence(8)
			}

			out = append(out, records.TestResult{
				ID:          fmt.Sprintf("res-%d", id),
				PatientID:   p.ID,
				FacilityID:  hospitals[gofakeit.Number(0, len(hospitals)-1)].ID,
				Category:    category,
				Name:        category + " Panel",
				Date:        date.Format("2006-01-02"),
				Result:      gofakeit.Sentence(6),
				PerformedBy: providers[gofakeit.Number(0, len(providers)-1)].Name,
				Notes:       notes,
				Status:      records.ResultCompleted,
			})
		}
	}
	return out
}

// pick returns up to n distinct elements of src in their original order.
func pick(src []string, n int) []string {
	if n >= len(src) {
		out := make([]string, len(src))
		copy(out, src)
		return out
	}
	chosen := make(map[int]struct{}, n)
	for len(chosen) < n {
		chosen[gofakeit.Number(0, len(src)-1)] = struct{}{}
	}
	out := make([]string, 0, n)
	for i, s := range src {
		if _, ok := chosen[i]; ok {
			out = append(out, s)
		}
	}
	return out
}
