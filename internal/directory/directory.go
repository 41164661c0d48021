// Package directory supplies the portal's reference data: the provider,
// patient and hospital directories the booking core consumes read-only.
package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/carebridge/patient-portal/internal/schedule"
)

type Patient struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	DateOfBirth      string `json:"date_of_birth,omitempty"`
	Gender           string `json:"gender,omitempty"`
	BloodGroup       string `json:"blood_group,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
}

type Provider struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Email           string       `json:"email,omitempty"`
	Specialty       string       `json:"specialty"`
	Degree          string       `json:"degree,omitempty"`
	Hospital        string       `json:"hospital,omitempty"`
	ExperienceYears int          `json:"experience_years,omitempty"`
	ConsultationFee int          `json:"consultation_fee,omitempty"`
	Availability    []WindowSpec `json:"availability"`
}

type Hospital struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Address     string   `json:"address,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Departments []string `json:"departments,omitempty"`
	Services    []string `json:"services,omitempty"`
}

// WindowSpec is the dataset form of a weekly availability window.
type WindowSpec struct {
	Day      string `json:"day"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location"`
}

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

func (w WindowSpec) window() (schedule.Window, error) {
	day, ok := weekdays[w.Day]
	if !ok {
		return schedule.Window{}, fmt.Errorf("unknown weekday %q", w.Day)
	}
	win := schedule.Window{
		Weekday:  day,
		Start:    w.Start,
		End:      w.End,
		Location: w.Location,
	}
	if err := win.Validate(); err != nil {
		return schedule.Window{}, err
	}
	return win, nil
}

// Directory is an immutable in-memory snapshot of the reference data.
// All reads are safe for concurrent use.
type Directory struct {
	providers []Provider
	patients  []Patient
	hospitals []Hospital

	providerByID map[string]int
	patientByID  map[string]int
	weekly       map[string]schedule.WeeklySchedule
}

// New validates the dataset's availability windows up front so the booking
// core can treat every schedule as well-formed.
func New(ds Dataset) (*Directory, error) {
	d := &Directory{
		providers:    ds.Providers,
		patients:     ds.Patients,
		hospitals:    ds.Hospitals,
		providerByID: make(map[string]int, len(ds.Providers)),
		patientByID:  make(map[string]int, len(ds.Patients)),
		weekly:       make(map[string]schedule.WeeklySchedule, len(ds.Providers)),
	}

	for i, p := range ds.Providers {
		if p.ID == "" {
			return nil, fmt.Errorf("provider %d: id is required", i)
		}
		if _, dup := d.providerByID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}

		weekly := make(schedule.WeeklySchedule, 0, len(p.Availability))
		for _, spec := range p.Availability {
			win, err := spec.window()
			if err != nil {
				return nil, fmt.Errorf("provider %q: %w", p.ID, err)
			}
			weekly = append(weekly, win)
		}

		d.providerByID[p.ID] = i
		d.weekly[p.ID] = weekly
	}

	for i, p := range ds.Patients {
		if p.ID == "" {
			return nil, fmt.Errorf("patient %d: id is required", i)
		}
		if _, dup := d.patientByID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate patient id %q", p.ID)
		}
		d.patientByID[p.ID] = i
	}

	return d, nil
}

// WeeklySchedule implements schedule.ProviderSource.
func (d *Directory) WeeklySchedule(ctx context.Context, providerID string) (schedule.WeeklySchedule, error) {
	weekly, ok := d.weekly[providerID]
	if !ok {
		return nil, schedule.ErrProviderNotFound
	}
	return weekly, nil
}

// HasPatient implements schedule.PatientSource.
func (d *Directory) HasPatient(ctx context.Context, patientID string) (bool, error) {
	_, ok := d.patientByID[patientID]
	return ok, nil
}

func (d *Directory) Providers() []Provider {
	return d.providers
}

func (d *Directory) ProviderByID(id string) (Provider, bool) {
	i, ok := d.providerByID[id]
	if !ok {
		return Provider{}, false
	}
	return d.providers[i], true
}

func (d *Directory) Patients() []Patient {
	return d.patients
}

func (d *Directory) PatientByID(id string) (Patient, bool) {
	i, ok := d.patientByID[id]
	if !ok {
		return Patient{}, false
	}
	return d.patients[i], true
}

func (d *Directory) Hospitals() []Hospital {
	return d.hospitals
}
