package schedule

import (
	"context"

	"github.com/google/uuid"
)

// Store is the authoritative appointment ledger state. The in-memory
// implementation in this package is the canonical one; a store backed by a
// real database is an external collaborator wired in the same way.
//
// Status-changing methods are compare-and-swap shaped: they fail with
// ErrAppointmentNotFound when no appointment matches both the id and the
// expected current status, so a concurrent transition loses cleanly.
type Store interface {
	Insert(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// ActiveBySlot returns the non-cancelled appointment holding the slot,
	// or ErrAppointmentNotFound when the slot is free.
	ActiveBySlot(ctx context.Context, slot Slot) (*Appointment, error)
	ActiveForProviderDate(ctx context.Context, providerID, date string) ([]Appointment, error)

	// UpdateStatus transitions id from one status to another. actor is
	// recorded only for cancellations.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus, actor string) (*Appointment, error)

	// Replace atomically cancels the scheduled appointment oldID and inserts
	// replacement. Neither half is applied when oldID is not scheduled.
	Replace(ctx context.Context, oldID uuid.UUID, replacement *Appointment) (*Appointment, error)

	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListByProvider(ctx context.Context, providerID string) ([]Appointment, error)
}
