package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Window is one recurring weekly availability declaration for a provider:
// the provider sees patients at Location every Weekday between Start and End.
// Times are wall-clock "15:04" strings, dates elsewhere are "2006-01-02".
type Window struct {
	Weekday  time.Weekday
	Start    string
	End      string
	Location string
}

// WeeklySchedule is a provider's full set of windows in declaration order.
// Multiple windows per weekday are allowed, including different locations
// over the same hours; those are independent location tracks.
type WeeklySchedule []Window

// Slot is one concrete bookable (date, time, location) derived from a window.
// Slots are recomputed on every query and never stored.
type Slot struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
}

// Key is the identity booking conflicts are resolved on: no two
// non-cancelled appointments may share it.
func (s Slot) Key() string {
	return s.ProviderID + "|" + s.Date + "|" + s.Time + "|" + s.Location
}

type Appointment struct {
	ID          uuid.UUID         `json:"id"`
	PatientID   string            `json:"patient_id"`
	ProviderID  string            `json:"provider_id"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Location    string            `json:"location,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Status      AppointmentStatus `json:"status"`
	CancelledBy string            `json:"cancelled_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (a *Appointment) slot() Slot {
	return Slot{ProviderID: a.ProviderID, Date: a.Date, Time: a.Time, Location: a.Location}
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// minuteOfDay converts a "15:04" string to minutes since midnight.
func minuteOfDay(s string) (int, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Validate checks a window's time range. Directories call this when loading
// provider schedules so the core can treat windows as well-formed.
func (w Window) Validate() error {
	start, err := minuteOfDay(w.Start)
	if err != nil {
		return err
	}
	end, err := minuteOfDay(w.End)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("window %s-%s at %q: end must be after start", w.Start, w.End, w.Location)
	}
	if w.Location == "" {
		return fmt.Errorf("window %s-%s: location is required", w.Start, w.End)
	}
	return nil
}
