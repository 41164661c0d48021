package schedule

import (
	"context"
	"fmt"
	"sort"
)

// LedgerView is the read side of the appointment store the allocator needs
// to discount already-taken slots.
type LedgerView interface {
	// ActiveForProviderDate returns every non-cancelled appointment the
	// provider holds on the date.
	ActiveForProviderDate(ctx context.Context, providerID, date string) ([]Appointment, error)
}

// Allocator expands a date's availability windows into discrete bookable
// slots. Slots are ephemeral: recomputed per query, never stored.
type Allocator struct {
	calendar    *Calendar
	tickMinutes int
}

func NewAllocator(calendar *Calendar, tickMinutes int) *Allocator {
	return &Allocator{
		calendar:    calendar,
		tickMinutes: tickMinutes,
	}
}

// Candidates returns every slot the schedule structurally offers on the date,
// ignoring bookings. Each window contributes ticks from its start up to, but
// excluding, its end: a 09:00-11:00 window with 30 minute ticks yields 09:00,
// 09:30, 10:00 and 10:30. Slots are grouped by location, locations in the
// order their first window is declared, chronological within each location;
// same-location windows merge into one track.
func (a *Allocator) Candidates(date, providerID string, weekly WeeklySchedule) ([]Slot, error) {
	windows, err := a.calendar.WindowsFor(date, weekly)
	if err != nil {
		return nil, err
	}

	var locations []string
	seen := make(map[string]bool)
	ticks := make(map[string][]int)
	for _, w := range windows {
		start, err := minuteOfDay(w.Start)
		if err != nil {
			return nil, fmt.Errorf("window start: %w", err)
		}
		end, err := minuteOfDay(w.End)
		if err != nil {
			return nil, fmt.Errorf("window end: %w", err)
		}
		if !seen[w.Location] {
			seen[w.Location] = true
			locations = append(locations, w.Location)
		}
		for m := start; m < end; m += a.tickMinutes {
			ticks[w.Location] = append(ticks[w.Location], m)
		}
	}

	var slots []Slot
	for _, loc := range locations {
		minutes := ticks[loc]
		sort.Ints(minutes)
		prev := -1
		for _, m := range minutes {
			// Overlapping windows at one location offer each tick once.
			if m == prev {
				continue
			}
			prev = m
			slots = append(slots, Slot{
				ProviderID: providerID,
				Date:       date,
				Time:       formatMinute(m),
				Location:   loc,
			})
		}
	}
	return slots, nil
}

// AvailableSlots returns the candidates minus those held by a non-cancelled
// appointment in the ledger view. An empty result on a bookable date means
// fully booked; callers distinguish that from "not offered" via
// Calendar.IsBookable.
func (a *Allocator) AvailableSlots(ctx context.Context, date, providerID string, weekly WeeklySchedule, view LedgerView) ([]Slot, error) {
	candidates, err := a.Candidates(date, providerID, weekly)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []Slot{}, nil
	}

	active, err := view.ActiveForProviderDate(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("load active appointments: %w", err)
	}

	taken := make(map[string]struct{}, len(active))
	for _, appt := range active {
		taken[appt.slot().Key()] = struct{}{}
	}

	open := make([]Slot, 0, len(candidates))
	for _, s := range candidates {
		if _, held := taken[s.Key()]; !held {
			open = append(open, s)
		}
	}
	return open, nil
}
