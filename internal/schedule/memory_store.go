package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps the ledger in process memory. Appointments are retained
// indefinitely, cancelled ones included; history is never deleted.
type MemoryStore struct {
	mu    sync.RWMutex
	appts map[uuid.UUID]*Appointment
	order []uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		appts: make(map[uuid.UUID]*Appointment),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, appt *Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *appt
	s.appts[appt.ID] = &cp
	s.order = append(s.order, appt.ID)
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *appt
	return &cp, nil
}

func (s *MemoryStore) ActiveBySlot(ctx context.Context, slot Slot) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		appt := s.appts[id]
		if appt.Status == StatusCancelled {
			continue
		}
		if appt.slot().Key() == slot.Key() {
			cp := *appt
			return &cp, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (s *MemoryStore) ActiveForProviderDate(ctx context.Context, providerID, date string) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Appointment
	for _, id := range s.order {
		appt := s.appts[id]
		if appt.Status == StatusCancelled {
			continue
		}
		if appt.ProviderID == providerID && appt.Date == date {
			out = append(out, *appt)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus, actor string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appts[id]
	if !ok || appt.Status != from {
		return nil, ErrAppointmentNotFound
	}

	appt.Status = to
	appt.UpdatedAt = time.Now()
	if to == StatusCancelled {
		appt.CancelledBy = actor
	}

	cp := *appt
	return &cp, nil
}

func (s *MemoryStore) Replace(ctx context.Context, oldID uuid.UUID, replacement *Appointment) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.appts[oldID]
	if !ok || old.Status != StatusScheduled {
		return nil, ErrAppointmentNotFound
	}

	old.Status = StatusCancelled
	old.UpdatedAt = time.Now()

	cp := *replacement
	s.appts[replacement.ID] = &cp
	s.order = append(s.order, replacement.ID)

	out := cp
	return &out, nil
}

func (s *MemoryStore) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	return s.list(func(a *Appointment) bool { return a.PatientID == patientID }), nil
}

func (s *MemoryStore) ListByProvider(ctx context.Context, providerID string) ([]Appointment, error) {
	return s.list(func(a *Appointment) bool { return a.ProviderID == providerID }), nil
}

func (s *MemoryStore) list(match func(*Appointment) bool) []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Appointment
	for _, id := range s.order {
		if appt := s.appts[id]; match(appt) {
			out = append(out, *appt)
		}
	}

	// ISO dates and 24h times sort correctly as strings.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}
