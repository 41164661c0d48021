package directory

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/carebridge/patient-portal/internal/schedule"
)

func writeDataset(path string, ds Dataset) error {
	raw, err := json.Marshal(ds)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func TestDefaultDatasetIsValid(t *testing.T) {
	dir, err := New(Default())
	if err != nil {
		t.Fatalf("default dataset: %v", err)
	}

	if len(dir.Providers()) != 3 {
		t.Errorf("expected 3 providers, got %d", len(dir.Providers()))
	}
	if len(dir.Patients()) != 1 {
		t.Errorf("expected 1 patient, got %d", len(dir.Patients()))
	}

	weekly, err := dir.WeeklySchedule(context.Background(), "2")
	if err != nil {
		t.Fatalf("weekly schedule: %v", err)
	}
	if len(weekly) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(weekly))
	}
	if weekly[0].Weekday != time.Monday || weekly[0].Location != "City General Hospital" {
		t.Errorf("unexpected first window: %+v", weekly[0])
	}
}

func TestWeeklySchedule_UnknownProvider(t *testing.T) {
	dir, err := New(Default())
	if err != nil {
		t.Fatalf("default dataset: %v", err)
	}

	if _, err := dir.WeeklySchedule(context.Background(), "nobody"); !errors.Is(err, schedule.ErrProviderNotFound) {
		t.Errorf("got %v, want ErrProviderNotFound", err)
	}
}

func TestHasPatient(t *testing.T) {
	dir, err := New(Default())
	if err != nil {
		t.Fatalf("default dataset: %v", err)
	}

	ok, err := dir.HasPatient(context.Background(), "1")
	if err != nil || !ok {
		t.Errorf("HasPatient(1) = %v, %v", ok, err)
	}
	ok, err = dir.HasPatient(context.Background(), "99")
	if err != nil || ok {
		t.Errorf("HasPatient(99) = %v, %v", ok, err)
	}
}

func TestNew_RejectsBadWindows(t *testing.T) {
	cases := []struct {
		name string
		spec WindowSpec
	}{
		{"unknown weekday", WindowSpec{Day: "Funday", Start: "09:00", End: "11:00", Location: "Clinic"}},
		{"end before start", WindowSpec{Day: "Monday", Start: "11:00", End: "09:00", Location: "Clinic"}},
		{"bad time", WindowSpec{Day: "Monday", Start: "9am", End: "11:00", Location: "Clinic"}},
		{"missing location", WindowSpec{Day: "Monday", Start: "09:00", End: "11:00"}},
	}

	for _, tc := range cases {
		ds := Dataset{
			Providers: []Provider{{ID: "p1", Name: "Dr. Test", Availability: []WindowSpec{tc.spec}}},
		}
		if _, err := New(ds); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestNew_RejectsDuplicates(t *testing.T) {
	ds := Dataset{
		Providers: []Provider{{ID: "p1", Name: "A"}, {ID: "p1", Name: "B"}},
	}
	if _, err := New(ds); err == nil {
		t.Error("expected duplicate provider error")
	}

	ds = Dataset{
		Patients: []Patient{{ID: "x", Name: "A"}, {ID: "x", Name: "B"}},
	}
	if _, err := New(ds); err == nil {
		t.Error("expected duplicate patient error")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")

	if err := writeDataset(path, Default()); err != nil {
		t.Fatalf("write: %v", err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Providers) != 3 || len(ds.TestResults) != 2 {
		t.Errorf("round trip lost data: %d providers, %d results", len(ds.Providers), len(ds.TestResults))
	}
	if _, err := New(ds); err != nil {
		t.Errorf("loaded dataset invalid: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
