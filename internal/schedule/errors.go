package schedule

import "errors"

var (
	// ErrOutOfRange rejects availability queries past the booking horizon.
	ErrOutOfRange = errors.New("date is beyond the booking horizon")

	// ErrInvalidSlot means the requested (date, time, location) is not one
	// the provider's schedule offers at all.
	ErrInvalidSlot = errors.New("slot is not currently offered")

	// ErrSlotConflict is the commit-time uniqueness violation: another
	// non-cancelled appointment already holds the slot.
	ErrSlotConflict = errors.New("slot is already booked")

	// ErrSlotBusy means another booking for the same slot is mid-commit.
	ErrSlotBusy = errors.New("slot is currently being booked, please retry")

	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrProviderNotFound    = errors.New("provider not found")
	ErrPatientNotFound     = errors.New("patient not found")
)
