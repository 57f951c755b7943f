package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/dpinto-lab/chrono/internal/event"
	"github.com/dpinto-lab/chrono/internal/preferences"
)

func mustNow(t *testing.T) time.Time {
	t.Helper()
	// A Wednesday, so the week-scoped search has weekdays on both sides.
	tm, err := time.Parse("2006-01-02", "2026-02-18")
	if err != nil {
		t.Fatal(err)
	}
	return tm
}

// Single activity, no existing events, no bias — earliest slot wins.
func TestFindAvailableSlotsEarliestWithNoConstraints(t *testing.T) {
	now := mustNow(t)
	req := Request{Activity: "gym", Duration: 60, Count: 1, Date: "2026-02-19"}
	sols, err := FindAvailableSlots(nil, preferences.New(), req, 1, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(sols) != 1 || len(sols[0]) != 1 {
		t.Fatalf("expected one singleton solution, got %+v", sols)
	}
	if sols[0][0].Time != "06:00" {
		t.Errorf("expected earliest slot 06:00, got %s", sols[0][0].Time)
	}
}

// An existing event forces the scan past the busy run.
func TestFindAvailableSlotsSkipsBusyRun(t *testing.T) {
	now := mustNow(t)
	events := []event.Event{{ID: "1", Date: "2026-02-19", Time: "06:00", Duration: 90}}
	req := Request{Activity: "gym", Duration: 60, Count: 1, Date: "2026-02-19"}
	sols, err := FindAvailableSlots(events, preferences.New(), req, 1, now)
	if err != nil {
		t.Fatal(err)
	}
	if sols[0][0].Time != "07:30" {
		t.Errorf("expected first free slot after the busy run, got %s", sols[0][0].Time)
	}
}

// A blocked preference window is honored like a busy event.
func TestFindAvailableSlotsHonorsBlockedWindow(t *testing.T) {
	now := mustNow(t)
	prefs := preferences.New()
	if err := prefs.AddBlockedWindow(preferences.BlockedWindow{
		Label: "standup", Days: []string{"thursday"}, Start: "06:00", End: "07:00",
	}); err != nil {
		t.Fatal(err)
	}
	req := Request{Activity: "gym", Duration: 30, Count: 1, Date: "2026-02-19"}
	sols, err := FindAvailableSlots(nil, prefs, req, 1, now)
	if err != nil {
		t.Fatal(err)
	}
	if sols[0][0].Time != "07:00" {
		t.Errorf("expected blocked window to push the slot to 07:00, got %s", sols[0][0].Time)
	}
}

// Evening bias pulls the chosen slot to the evening band even
// though earlier slots are free.
func TestFindAvailableSlotsRespectsTimeBias(t *testing.T) {
	now := mustNow(t)
	req := Request{Activity: "reading", Duration: 30, Count: 1, Date: "2026-02-19", TimeBias: preferences.BiasEvening}
	sols, err := FindAvailableSlots(nil, preferences.New(), req, 1, now)
	if err != nil {
		t.Fatal(err)
	}
	if sols[0][0].SlotIdx < 24 {
		t.Errorf("expected an evening slot (index >= 24), got index %d (%s)", sols[0][0].SlotIdx, sols[0][0].Time)
	}
}

func TestFindAvailableSlotsMultiCountUsesDistinctDays(t *testing.T) {
	now := mustNow(t)
	req := Request{Activity: "gym", Duration: 60, Count: 3}
	sols, err := FindAvailableSlots(nil, preferences.New(), req, 1, now)
	if err != nil {
		t.Fatal(err)
	}
	sol := sols[0]
	if len(sol) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(sol))
	}
	seen := map[string]bool{}
	for _, s := range sol {
		if seen[s.Date] {
			t.Fatalf("expected distinct days, got repeat %s in %+v", s.Date, sol)
		}
		seen[s.Date] = true
	}
}

func TestFindAvailableSlotsUnsatisfiableWhenDayFull(t *testing.T) {
	now := mustNow(t)
	events := []event.Event{{ID: "1", Date: "2026-02-19", Time: "06:00", Duration: 16 * 60}}
	req := Request{Activity: "gym", Duration: 60, Count: 1, Date: "2026-02-19"}
	_, err := FindAvailableSlots(events, preferences.New(), req, 1, now)
	if !errors.Is(err, ErrUnsatisfiable) {
		t.Errorf("expected ErrUnsatisfiable, got %v", err)
	}
}

func TestFindAvailableSlotsRejectsNonPositiveCount(t *testing.T) {
	now := mustNow(t)
	_, err := FindAvailableSlots(nil, preferences.New(), Request{Duration: 30, Count: 0}, 1, now)
	var ge *ErrGrounding
	if !errors.As(err, &ge) {
		t.Errorf("expected ErrGrounding, got %v", err)
	}
}

func TestFindFreeIntervalsReturnsGapsAroundEvents(t *testing.T) {
	events := []event.Event{
		{ID: "1", Date: "2026-02-19", Time: "08:00", Duration: 60},
		{ID: "2", Date: "2026-02-19", Time: "10:00", Duration: 60},
	}
	intervals, err := FindFreeIntervals(events, preferences.New(), "2026-02-19", 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(intervals) < 3 {
		t.Fatalf("expected at least 3 free intervals (before/between/after), got %d: %+v", len(intervals), intervals)
	}
	if intervals[0].Start != "06:00" || intervals[0].End != "08:00" {
		t.Errorf("expected first interval 06:00-08:00, got %+v", intervals[0])
	}
}

func TestFindFreeIntervalsDropsRunsShorterThanMinDuration(t *testing.T) {
	events := []event.Event{
		{ID: "1", Date: "2026-02-19", Time: "06:00", Duration: 30},
		{ID: "2", Date: "2026-02-19", Time: "07:00", Duration: 15 * 60},
	}
	intervals, err := FindFreeIntervals(events, preferences.New(), "2026-02-19", 60)
	if err != nil {
		t.Fatal(err)
	}
	for _, iv := range intervals {
		if iv.Start == "06:30" {
			t.Errorf("expected the 30-minute gap to be dropped (min duration 60), got it in %+v", intervals)
		}
	}
}

func TestCheckConflictDetectsOverlap(t *testing.T) {
	events := []event.Event{{ID: "1", Date: "2026-02-19", Time: "09:00", Duration: 60}}
	conflicts, err := CheckConflict(events, "2026-02-19", "09:30", 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 1 || conflicts[0].ID != "1" {
		t.Errorf("expected a conflict with event 1, got %+v", conflicts)
	}
}

func TestCheckConflictNoOverlapOnAdjacentSlot(t *testing.T) {
	events := []event.Event{{ID: "1", Date: "2026-02-19", Time: "09:00", Duration: 60}}
	conflicts, err := CheckConflict(events, "2026-02-19", "10:00", 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 0 {
		t.Errorf("expected no conflict for an adjacent slot, got %+v", conflicts)
	}
}

func TestCheckConflictIgnoresOtherDates(t *testing.T) {
	events := []event.Event{{ID: "1", Date: "2026-02-20", Time: "09:00", Duration: 60}}
	conflicts, err := CheckConflict(events, "2026-02-19", "09:00", 60)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 0 {
		t.Errorf("expected no conflict across dates, got %+v", conflicts)
	}
}

func TestCheckPreferenceBlockDetectsOverlap(t *testing.T) {
	now := mustNow(t)
	prefs := preferences.New()
	if err := prefs.AddBlockedWindow(preferences.BlockedWindow{
		Label: "lunch", Days: []string{"thursday"}, Start: "12:00", End: "13:00",
	}); err != nil {
		t.Fatal(err)
	}
	blocked, err := CheckPreferenceBlock(prefs, "2026-02-19", "12:30", 30, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocked) != 1 || blocked[0].Label != "lunch" {
		t.Errorf("expected the lunch block, got %+v", blocked)
	}
}

func TestCheckPreferenceBlockHonorsExpiry(t *testing.T) {
	now := mustNow(t)
	prefs := preferences.New()
	if err := prefs.AddBlockedWindow(preferences.BlockedWindow{
		Label: "lunch", Days: []string{"thursday"}, Start: "12:00", End: "13:00", Until: "2026-01-01",
	}); err != nil {
		t.Fatal(err)
	}
	blocked, err := CheckPreferenceBlock(prefs, "2026-02-19", "12:30", 30, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocked) != 0 {
		t.Errorf("expected the expired block to be ignored, got %+v", blocked)
	}
}

func TestFindAvailableSlotsWorkingHoursOnlyExcludesEarlyMorning(t *testing.T) {
	now := mustNow(t)
	req := Request{Activity: "meeting", Duration: 30, Count: 1, Date: "2026-02-19", WorkingHoursOnly: true}
	sols, err := FindAvailableSlots(nil, preferences.New(), req, 1, now)
	if err != nil {
		t.Fatal(err)
	}
	if sols[0][0].Time != "09:00" {
		t.Errorf("expected working-hours-only to start at 09:00, got %s", sols[0][0].Time)
	}
}

func TestFindAvailableSlotsReturnsUpToKOrderedByPenalty(t *testing.T) {
	now := mustNow(t)
	req := Request{Activity: "gym", Duration: 30, Count: 1, Date: "2026-02-19"}
	sols, err := FindAvailableSlots(nil, preferences.New(), req, 3, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(sols) != 3 {
		t.Fatalf("expected 3 ranked solutions, got %d", len(sols))
	}
	for i := 1; i < len(sols); i++ {
		if sols[i][0].SlotIdx < sols[i-1][0].SlotIdx {
			t.Errorf("solutions not in ascending slot order: %+v", sols)
		}
	}
}
