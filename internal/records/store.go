package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrInvalidRecord = errors.New("invalid test result")

// MemoryStore holds each patient's test history in upload order. Uploads
// only ever append; existing records are never modified.
type MemoryStore struct {
	mu        sync.RWMutex
	byPatient map[string][]TestResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byPatient: make(map[string][]TestResult),
	}
}

// Add appends an uploaded record to the patient's history.
func (s *MemoryStore) Add(ctx context.Context, r TestResult) error {
	if r.ID == "" || r.PatientID == "" || r.Name == "" || r.Category == "" {
		return fmt.Errorf("%w: id, patient_id, name and category are required", ErrInvalidRecord)
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRecord)
	}
	switch r.Status {
	case ResultPending, ResultCompleted:
	default:
		return fmt.Errorf("%w: status must be %q or %q", ErrInvalidRecord, ResultPending, ResultCompleted)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPatient[r.PatientID] = append(s.byPatient[r.PatientID], r)
	return nil
}

// ListByPatient returns the patient's full history in upload order.
func (s *MemoryStore) ListByPatient(ctx context.Context, patientID string) ([]TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byPatient[patientID]
	out := make([]TestResult, len(history))
	copy(out, history)
	return out, nil
}

// Search applies the filter spec to the patient's history.
func (s *MemoryStore) Search(ctx context.Context, patientID string, spec FilterSpec) ([]TestResult, error) {
	history, err := s.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return Apply(history, spec), nil
}
