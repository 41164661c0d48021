package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testAllocator(t *testing.T) *Allocator {
	t.Helper()
	return NewAllocator(testCalendar(t, 30), 30)
}

func insertScheduled(t *testing.T, store *MemoryStore, providerID, date, at, location string) *Appointment {
	t.Helper()
	appt := &Appointment{
		ID:         uuid.New(),
		PatientID:  "1",
		ProviderID: providerID,
		Date:       date,
		Time:       at,
		Location:   location,
		Status:     StatusScheduled,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := store.Insert(context.Background(), appt); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return appt
}

func TestAllocator_HalfHourTicks(t *testing.T) {
	a := testAllocator(t)
	store := NewMemoryStore()

	weekly := WeeklySchedule{
		{Weekday: time.Monday, Start: "09:00", End: "11:00", Location: "Main Clinic"},
	}

	slots, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", weekly, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, s := range slots {
		if s.Time != want[i] {
			t.Errorf("slot %d: time = %s, want %s", i, s.Time, want[i])
		}
		if s.Location != "Main Clinic" {
			t.Errorf("slot %d: location = %s, want Main Clinic", i, s.Location)
		}
	}
}

func TestAllocator_BookedSlotDiscounted(t *testing.T) {
	a := testAllocator(t)
	store := NewMemoryStore()

	weekly := WeeklySchedule{
		{Weekday: time.Monday, Start: "09:00", End: "11:00", Location: "Main Clinic"},
	}

	insertScheduled(t, store, "prov-1", "2024-06-10", "09:30", "Main Clinic")

	slots, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", weekly, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots after booking 09:30, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Time == "09:30" {
			t.Error("booked 09:30 slot still offered")
		}
	}
}

func TestAllocator_ReadsAreDeterministic(t *testing.T) {
	a := testAllocator(t)
	store := NewMemoryStore()
	weekly := testWeekly()

	first, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", weekly, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", weekly, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("repeat call changed result size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d differs between calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestAllocator_LocationTrackOrdering(t *testing.T) {
	a := testAllocator(t)
	store := NewMemoryStore()

	// Overlapping hours at two locations are independent tracks; slots are
	// grouped by window declaration order, chronological within each.
	slots, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", testWeekly(), store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Slot{
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "09:00", Location: "Main Clinic"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "09:30", Location: "Main Clinic"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "10:00", Location: "Main Clinic"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "10:30", Location: "Main Clinic"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "09:00", Location: "Annex"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "09:30", Location: "Annex"},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestAllocator_SameLocationWindowsMergeChronologically(t *testing.T) {
	a := testAllocator(t)
	store := NewMemoryStore()

	// An afternoon window declared before a morning one at the same location,
	// with another location's window interleaved between them. The location
	// keeps first-declaration position but its ticks sort chronologically.
	weekly := WeeklySchedule{
		{Weekday: time.Monday, Start: "13:00", End: "14:00", Location: "Main Clinic"},
		{Weekday: time.Monday, Start: "09:00", End: "10:00", Location: "Annex"},
		{Weekday: time.Monday, Start: "09:00", End: "10:00", Location: "Main Clinic"},
	}

	slots, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", weekly, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Slot{
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "09:00", Location: "Main Clinic"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "09:30", Location: "Main Clinic"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "13:00", Location: "Main Clinic"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "13:30", Location: "Main Clinic"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "09:00", Location: "Annex"},
		{ProviderID: "prov-1", Date: "2024-06-10", Time: "09:30", Location: "Annex"},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestAllocator_OverlappingWindowsOfferTickOnce(t *testing.T) {
	a := testAllocator(t)
	store := NewMemoryStore()

	weekly := WeeklySchedule{
		{Weekday: time.Monday, Start: "09:00", End: "11:00", Location: "Main Clinic"},
		{Weekday: time.Monday, Start: "10:00", End: "12:00", Location: "Main Clinic"},
	}

	slots, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", weekly, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, s := range slots {
		if s.Time != want[i] {
			t.Errorf("slot %d: time = %s, want %s", i, s.Time, want[i])
		}
	}
}

func TestAllocator_SameTimeOtherLocationUnaffected(t *testing.T) {
	a := testAllocator(t)
	store := NewMemoryStore()

	insertScheduled(t, store, "prov-1", "2024-06-10", "09:00", "Main Clinic")

	slots, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", testWeekly(), store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if s.Time == "09:00" && s.Location == "Annex" {
			return
		}
	}
	t.Error("09:00 at Annex should remain offered when 09:00 at Main Clinic is booked")
}

func TestAllocator_FullyBookedIsEmptyNotError(t *testing.T) {
	a := testAllocator(t)
	store := NewMemoryStore()

	weekly := WeeklySchedule{
		{Weekday: time.Monday, Start: "09:00", End: "10:00", Location: "Main Clinic"},
	}
	insertScheduled(t, store, "prov-1", "2024-06-10", "09:00", "Main Clinic")
	insertScheduled(t, store, "prov-1", "2024-06-10", "09:30", "Main Clinic")

	slots, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", weekly, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(slots) != 0 {
		t.Errorf("expected no open slots, got %d", len(slots))
	}
}

func TestAllocator_CancelledBookingDoesNotBlock(t *testing.T) {
	a := testAllocator(t)
	store := NewMemoryStore()

	weekly := WeeklySchedule{
		{Weekday: time.Monday, Start: "09:00", End: "10:00", Location: "Main Clinic"},
	}
	appt := insertScheduled(t, store, "prov-1", "2024-06-10", "09:00", "Main Clinic")
	if _, err := store.UpdateStatus(context.Background(), appt.ID, StatusScheduled, StatusCancelled, "patient"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	slots, err := a.AvailableSlots(context.Background(), "2024-06-10", "prov-1", weekly, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Errorf("expected cancelled slot to be offered again, got %d slots", len(slots))
	}
}
