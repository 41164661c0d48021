package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProviderSource is the external provider directory: it supplies each
// provider's recurring weekly availability, read-only to this package.
type ProviderSource interface {
	// WeeklySchedule fails with ErrProviderNotFound for unknown providers.
	WeeklySchedule(ctx context.Context, providerID string) (WeeklySchedule, error)
}

// PatientSource is the external patient directory.
type PatientSource interface {
	HasPatient(ctx context.Context, patientID string) (bool, error)
}

type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
)

type CreateParams struct {
	PatientID  string
	ProviderID string
	Date       string
	Time       string
	Location   string
	Reason     string
}

// Ledger owns the canonical appointment set and enforces the booking
// lifecycle: scheduled is the only live state, completed and cancelled are
// terminal, and no two non-cancelled appointments share a slot.
type Ledger struct {
	store     Store
	locker    Locker
	calendar  *Calendar
	allocator *Allocator
	providers ProviderSource
	patients  PatientSource
	logger    *zap.Logger
}

func NewLedger(store Store, locker Locker, calendar *Calendar, allocator *Allocator, providers ProviderSource, patients PatientSource, logger *zap.Logger) *Ledger {
	return &Ledger{
		store:     store,
		locker:    locker,
		calendar:  calendar,
		allocator: allocator,
		providers: providers,
		patients:  patients,
		logger:    logger,
	}
}

// AvailableSlots is the selectable (time, location) picker feed for a date,
// computed against the ledger's current state. Dates that are not bookable,
// past dates included, yield an empty feed rather than phantom slots.
func (l *Ledger) AvailableSlots(ctx context.Context, date, providerID string) ([]Slot, error) {
	weekly, err := l.providers.WeeklySchedule(ctx, providerID)
	if err != nil {
		return nil, err
	}

	bookable, err := l.calendar.IsBookable(date, weekly)
	if err != nil {
		return nil, err
	}
	if !bookable {
		return []Slot{}, nil
	}

	return l.allocator.AvailableSlots(ctx, date, providerID, weekly, l.store)
}

// Create books a slot. The caller's view of availability may be stale, so the
// uniqueness invariant is re-checked against the authoritative store inside
// the slot's critical section; a lost race fails with ErrSlotConflict even
// though the caller just saw the slot as free.
func (l *Ledger) Create(ctx context.Context, p CreateParams) (*Appointment, error) {
	ok, err := l.patients.HasPatient(ctx, p.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	weekly, err := l.providers.WeeklySchedule(ctx, p.ProviderID)
	if err != nil {
		return nil, err
	}

	target := Slot{ProviderID: p.ProviderID, Date: p.Date, Time: p.Time, Location: p.Location}
	if err := l.checkOffered(target, weekly); err != nil {
		return nil, err
	}

	var created *Appointment

	err = l.locker.WithSlotLock(ctx, target.Key(), func(lockCtx context.Context) error {
		existing, err := l.store.ActiveBySlot(lockCtx, target)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check slot holder: %w", err)
		}
		if existing != nil {
			return ErrSlotConflict
		}

		now := time.Now()
		appt := &Appointment{
			ID:         uuid.New(),
			PatientID:  p.PatientID,
			ProviderID: p.ProviderID,
			Date:       p.Date,
			Time:       p.Time,
			Location:   p.Location,
			Reason:     p.Reason,
			Status:     StatusScheduled,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := l.store.Insert(lockCtx, appt); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	l.logger.Info("appointment booked",
		zap.String("appointment_id", created.ID.String()),
		zap.String("patient_id", p.PatientID),
		zap.String("provider_id", p.ProviderID),
		zap.String("date", p.Date),
		zap.String("time", p.Time),
		zap.String("location", p.Location),
	)

	return created, nil
}

// checkOffered verifies the slot is one the provider's schedule structurally
// offers: a bookable date and an exact candidate (time, location) pair.
// Horizon violations propagate as ErrOutOfRange.
func (l *Ledger) checkOffered(target Slot, weekly WeeklySchedule) error {
	bookable, err := l.calendar.IsBookable(target.Date, weekly)
	if err != nil {
		return err
	}
	if !bookable {
		return ErrInvalidSlot
	}

	candidates, err := l.allocator.Candidates(target.Date, target.ProviderID, weekly)
	if err != nil {
		return err
	}
	for _, c := range candidates {
		if c.Key() == target.Key() {
			return nil
		}
	}
	return ErrInvalidSlot
}

// Cancel moves a scheduled appointment to cancelled. The freed slot becomes
// selectable again on the next availability query.
func (l *Ledger) Cancel(ctx context.Context, id uuid.UUID, actor string) (*Appointment, error) {
	appt, err := l.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != StatusScheduled {
		return nil, ErrInvalidTransition
	}

	updated, err := l.store.UpdateStatus(ctx, id, StatusScheduled, StatusCancelled, actor)
	if err != nil {
		// A concurrent transition won; the appointment is no longer scheduled.
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	l.logger.Info("appointment cancelled",
		zap.String("appointment_id", id.String()),
		zap.String("actor", actor),
	)

	return updated, nil
}

// MarkComplete is the external trigger for scheduled -> completed.
func (l *Ledger) MarkComplete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := l.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != StatusScheduled {
		return nil, ErrInvalidTransition
	}

	updated, err := l.store.UpdateStatus(ctx, id, StatusScheduled, StatusCompleted, "")
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("complete appointment: %w", err)
	}

	l.logger.Info("appointment completed", zap.String("appointment_id", id.String()))

	return updated, nil
}

// Reschedule is an atomic cancel-then-create: the replacement slot is fully
// validated, and its conflict re-checked under the new slot's lock, before
// the original is touched. On any failure the original stays scheduled.
func (l *Ledger) Reschedule(ctx context.Context, id uuid.UUID, newDate, newTime, newLocation string) (*Appointment, error) {
	appt, err := l.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != StatusScheduled {
		return nil, ErrInvalidTransition
	}

	weekly, err := l.providers.WeeklySchedule(ctx, appt.ProviderID)
	if err != nil {
		return nil, err
	}

	target := Slot{ProviderID: appt.ProviderID, Date: newDate, Time: newTime, Location: newLocation}
	if err := l.checkOffered(target, weekly); err != nil {
		return nil, err
	}

	var replacement *Appointment

	err = l.locker.WithSlotLock(ctx, target.Key(), func(lockCtx context.Context) error {
		existing, err := l.store.ActiveBySlot(lockCtx, target)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check slot holder: %w", err)
		}
		// Moving within the same slot is a no-op conflict-wise.
		if existing != nil && existing.ID != id {
			return ErrSlotConflict
		}

		now := time.Now()
		next := &Appointment{
			ID:         uuid.New(),
			PatientID:  appt.PatientID,
			ProviderID: appt.ProviderID,
			Date:       newDate,
			Time:       newTime,
			Location:   newLocation,
			Reason:     appt.Reason,
			Status:     StatusScheduled,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		committed, err := l.store.Replace(lockCtx, id, next)
		if err != nil {
			if errors.Is(err, ErrAppointmentNotFound) {
				return ErrInvalidTransition
			}
			return fmt.Errorf("commit reschedule: %w", err)
		}

		replacement = committed
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	l.logger.Info("appointment rescheduled",
		zap.String("old_appointment_id", id.String()),
		zap.String("new_appointment_id", replacement.ID.String()),
		zap.String("date", newDate),
		zap.String("time", newTime),
		zap.String("location", newLocation),
	)

	return replacement, nil
}

// Get returns one appointment by id.
func (l *Ledger) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return l.store.GetByID(ctx, id)
}

// ListFor returns the appointment history for a patient or a provider,
// chronological ascending by (date, time). Status filtering is the caller's.
func (l *Ledger) ListFor(ctx context.Context, id string, role Role) ([]Appointment, error) {
	switch role {
	case RolePatient:
		return l.store.ListByPatient(ctx, id)
	case RoleProvider:
		return l.store.ListByProvider(ctx, id)
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}
