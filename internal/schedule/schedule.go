// Package schedule implements the Scheduling Core: the direct,
// hand-written search over the small (weekday, slot) state space that
// finds available slots, free intervals, and conflicts, honoring
// blocked windows and a soft time-of-day bias.
//
// The search is a closed-form scan rather than a priority-queue or
// constraint-solver formulation — the state space is at most 7 days by
// 32 slots, small enough that scanning candidate starts in (date, slot)
// order and skipping busy/blocked runs outperforms the bookkeeping a
// general solver would need.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dpinto-lab/chrono/internal/event"
	"github.com/dpinto-lab/chrono/internal/preferences"
	"github.com/dpinto-lab/chrono/internal/slot"
)

// ErrUnsatisfiable is returned when no assignment of the requested
// count of slots exists under the given constraints.
var ErrUnsatisfiable = errors.New("schedule: no feasible assignment")

// ErrGrounding wraps a malformed request or stored event that can't be
// reasoned about (unparsable time/date, non-positive duration, etc.).
type ErrGrounding struct {
	Reason string
}

func (e *ErrGrounding) Error() string { return "schedule: " + e.Reason }

func groundingf(format string, args ...any) error {
	return &ErrGrounding{Reason: fmt.Sprintf(format, args...)}
}

// bigPenalty dominates the lexicographic objective: minimize the count
// of chosen slots outside the requested time bias first, then minimize
// the sum of slot indices (earliest-first) among ties. The maximum
// possible sum of slot indices across any solution (<=7 slots, each
// <32) is well under bigPenalty, so summing per-slot penalties below
// reproduces the lexicographic order exactly.
const bigPenalty = 10000

// Request describes what the caller wants scheduled.
type Request struct {
	Activity         string
	Title            string
	Duration         int // minutes
	Count            int // number of occurrences wanted, >=1
	Date             string               // explicit ISO date; "" means search the week
	AllowedWeekdays  []string             // restricts search to these weekdays; nil means all
	AvoidWeekends    bool
	WorkingHoursOnly bool
	TimeBias         preferences.TimeBias
}

// SlotSolution is one concrete (date, time) assignment within a Solution.
type SlotSolution struct {
	Date     string
	Time     string
	SlotIdx  int
	Duration int
}

// Solution is a full assignment of Request.Count slots.
type Solution []SlotSolution

// FreeInterval is a contiguous free run on a single date.
type FreeInterval struct {
	Date            string
	Start           string
	End             string
	DurationMinutes int
}

// dayState is the precomputed busy bitset for one candidate date.
type dayState struct {
	date    string
	weekday string
	busy    [slot.Count]bool
}

func buildDayStates(dates []string, events []event.Event, prefs *preferences.Preferences, now time.Time) ([]dayState, error) {
	byDate := make(map[string][]event.Event, len(dates))
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	out := make([]dayState, 0, len(dates))
	for _, d := range dates {
		wd, err := slot.WeekdayOf(d)
		if err != nil {
			return nil, groundingf("invalid date %q: %v", d, err)
		}
		ds := dayState{date: d, weekday: wd}
		for _, e := range byDate[d] {
			start, end, err := e.SlotRange()
			if err != nil {
				return nil, groundingf("event %q: %v", e.ID, err)
			}
			for s := start; s < end && s < slot.Count; s++ {
				ds.busy[s] = true
			}
		}
		if prefs != nil {
			for _, w := range prefs.ActiveWindows(wd, now) {
				startSlot, err := slot.Of(w.Start)
				if err != nil {
					continue
				}
				endSlot, err := slot.Of(w.End)
				if err != nil {
					continue
				}
				for s := startSlot; s < endSlot && s < slot.Count; s++ {
					ds.busy[s] = true
				}
			}
		}
		out = append(out, ds)
	}
	return out, nil
}

func weekdaySet(allowed []string) map[string]bool {
	if len(allowed) == 0 {
		return nil
	}
	m := make(map[string]bool, len(allowed))
	for _, d := range allowed {
		m[d] = true
	}
	return m
}

func isWeekend(wd string) bool { return wd == "saturday" || wd == "sunday" }

// candidateDates resolves which ISO dates are in scope for req given
// today's date.
func candidateDates(req Request, now time.Time) []string {
	if req.Date != "" {
		return []string{req.Date}
	}
	week := slot.WeekDates(now)
	allowed := weekdaySet(req.AllowedWeekdays)
	var out []string
	for _, d := range week {
		wd, err := slot.WeekdayOf(d)
		if err != nil {
			continue
		}
		if req.AvoidWeekends && isWeekend(wd) {
			continue
		}
		if allowed != nil && !allowed[wd] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// penalty scores a single candidate slot under the request's time bias.
// Slots inside the preferred band cost only their index; slots outside
// it cost bigPenalty plus their index, so that minimizing the sum
// across a solution lexicographically prefers fewer out-of-band slots
// first and earliest times second.
func penalty(s int, bias preferences.TimeBias) int {
	inBand := true
	switch bias {
	case preferences.BiasMorning:
		inBand = slot.IsMorning(s)
	case preferences.BiasAfternoon:
		inBand = slot.IsAfternoon(s)
	case preferences.BiasEvening:
		inBand = slot.IsEvening(s)
	}
	if inBand {
		return s
	}
	return bigPenalty + s
}

type candidate struct {
	date    string
	slotIdx int
	penalty int
}

// feasibleStarts returns every slot index on ds where a run of durSlots
// consecutive free slots begins, honoring WorkingHoursOnly.
func feasibleStarts(ds dayState, durSlots int, workingHoursOnly bool) []int {
	var out []int
	for start := 0; start+durSlots <= slot.Count; start++ {
		if workingHoursOnly && (!slot.IsWorkingHour(start) || !slot.IsWorkingHour(start+durSlots-1)) {
			continue
		}
		free := true
		for s := start; s < start+durSlots; s++ {
			if ds.busy[s] {
				free = false
				break
			}
		}
		if free {
			out = append(out, start)
		}
	}
	return out
}

// FindAvailableSlots returns up to k ranked Solutions satisfying req,
// each a full assignment of req.Count slots. Solutions are ordered by
// the lexicographic time-bias objective (fewest out-of-band slots,
// then earliest). When req.Count > 1 the chosen slots fall on distinct
// dates.
func FindAvailableSlots(events []event.Event, prefs *preferences.Preferences, req Request, k int, now time.Time) ([]Solution, error) {
	if req.Count <= 0 {
		return nil, groundingf("count must be positive, got %d", req.Count)
	}
	if k <= 0 {
		k = 1
	}
	durSlots, err := slot.DurationToSlots(req.Duration)
	if err != nil {
		return nil, groundingf("duration: %v", err)
	}

	dates := candidateDates(req, now)
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no candidate dates in scope", ErrUnsatisfiable)
	}
	days, err := buildDayStates(dates, events, prefs, now)
	if err != nil {
		return nil, err
	}

	// perDay[i] holds every feasible start on days[i], sorted by penalty,
	// best first.
	type dayCandidates struct {
		date string
		cs   []candidate
	}
	perDay := make([]dayCandidates, 0, len(days))
	for _, ds := range days {
		starts := feasibleStarts(ds, durSlots, req.WorkingHoursOnly)
		if len(starts) == 0 {
			continue
		}
		cs := make([]candidate, len(starts))
		for i, s := range starts {
			cs[i] = candidate{date: ds.date, slotIdx: s, penalty: penalty(s, req.TimeBias)}
		}
		sort.Slice(cs, func(i, j int) bool { return cs[i].penalty < cs[j].penalty })
		perDay = append(perDay, dayCandidates{date: ds.date, cs: cs})
	}

	if req.Count == 1 {
		var all []candidate
		for _, pd := range perDay {
			all = append(all, pd.cs...)
		}
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: no free slot fits a %d-minute activity", ErrUnsatisfiable, req.Duration)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].penalty != all[j].penalty {
				return all[i].penalty < all[j].penalty
			}
			if all[i].date != all[j].date {
				return all[i].date < all[j].date
			}
			return all[i].slotIdx < all[j].slotIdx
		})
		if k > len(all) {
			k = len(all)
		}
		out := make([]Solution, k)
		for i := 0; i < k; i++ {
			out[i] = Solution{toSlotSolution(all[i], req.Duration)}
		}
		return out, nil
	}

	// count > 1: distinct-day assignments. Sort days by their best
	// (lowest-penalty) candidate and require at least req.Count days.
	if len(perDay) < req.Count {
		return nil, fmt.Errorf("%w: need %d distinct days, only %d have room", ErrUnsatisfiable, req.Count, len(perDay))
	}
	sort.Slice(perDay, func(i, j int) bool { return perDay[i].cs[0].penalty < perDay[j].cs[0].penalty })

	const altsPerDay = 3
	chosenDays := perDay[:req.Count]

	type solutionOption struct {
		picks   []candidate
		total   int
	}
	// Enumerate small cartesian variations across the top altsPerDay
	// candidates of each chosen day, capped so the branching stays tiny.
	var options []solutionOption
	var recurse func(i int, acc []candidate, total int)
	recurse = func(i int, acc []candidate, total int) {
		if i == len(chosenDays) {
			cp := make([]candidate, len(acc))
			copy(cp, acc)
			options = append(options, solutionOption{picks: cp, total: total})
			return
		}
		n := len(chosenDays[i].cs)
		if n > altsPerDay {
			n = altsPerDay
		}
		for j := 0; j < n; j++ {
			c := chosenDays[i].cs[j]
			recurse(i+1, append(acc, c), total+c.penalty)
		}
	}
	recurse(0, nil, 0)

	sort.Slice(options, func(i, j int) bool { return options[i].total < options[j].total })
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: no assignment across %d days", ErrUnsatisfiable, req.Count)
	}
	if k > len(options) {
		k = len(options)
	}

	out := make([]Solution, 0, k)
	seen := make(map[string]bool, k)
	for _, opt := range options {
		sorted := make([]candidate, len(opt.picks))
		copy(sorted, opt.picks)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].date != sorted[j].date {
				return sorted[i].date < sorted[j].date
			}
			return sorted[i].slotIdx < sorted[j].slotIdx
		})
		key := solutionKey(sorted)
		if seen[key] {
			continue
		}
		seen[key] = true
		sol := make(Solution, len(sorted))
		for i, c := range sorted {
			sol[i] = toSlotSolution(c, req.Duration)
		}
		out = append(out, sol)
		if len(out) == k {
			break
		}
	}
	return out, nil
}

func solutionKey(cs []candidate) string {
	key := ""
	for _, c := range cs {
		key += c.date + "@" + fmt.Sprint(c.slotIdx) + "|"
	}
	return key
}

func toSlotSolution(c candidate, duration int) SlotSolution {
	return SlotSolution{Date: c.date, Time: slot.Time(c.slotIdx), SlotIdx: c.slotIdx, Duration: duration}
}

// FindFreeIntervals returns every contiguous free run on date at least
// minDuration minutes long.
func FindFreeIntervals(events []event.Event, prefs *preferences.Preferences, date string, minDuration int) ([]FreeInterval, error) {
	minSlots, err := slot.DurationToSlots(minDuration)
	if err != nil {
		return nil, groundingf("min duration: %v", err)
	}
	days, err := buildDayStates([]string{date}, events, prefs, time.Now())
	if err != nil {
		return nil, err
	}
	ds := days[0]

	var out []FreeInterval
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		length := end - start
		if length >= minSlots {
			out = append(out, FreeInterval{
				Date:            date,
				Start:           slot.Time(start),
				End:             slot.Time(end),
				DurationMinutes: length * 30,
			})
		}
		start = -1
	}
	for s := 0; s < slot.Count; s++ {
		if ds.busy[s] {
			flush(s)
			continue
		}
		if start < 0 {
			start = s
		}
	}
	flush(slot.Count)
	return out, nil
}

// CheckConflict returns every event on (date,time,duration)'s own date
// that overlaps it.
func CheckConflict(events []event.Event, date, timeStr string, duration int) ([]event.Event, error) {
	proposed := event.Event{Date: date, Time: timeStr, Duration: duration}
	if err := proposed.Validate(); err != nil {
		return nil, groundingf("candidate slot: %v", err)
	}
	var conflicts []event.Event
	for _, e := range events {
		if event.Overlaps(proposed, e) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts, nil
}

// CheckPreferenceBlock returns every active blocked window that
// overlaps (date,time,duration).
func CheckPreferenceBlock(prefs *preferences.Preferences, date, timeStr string, duration int, now time.Time) ([]preferences.BlockedWindow, error) {
	start, err := slot.Of(timeStr)
	if err != nil {
		return nil, groundingf("time: %v", err)
	}
	durSlots, err := slot.DurationToSlots(duration)
	if err != nil {
		return nil, groundingf("duration: %v", err)
	}
	end := start + durSlots
	wd, err := slot.WeekdayOf(date)
	if err != nil {
		return nil, groundingf("date: %v", err)
	}

	var blocked []preferences.BlockedWindow
	if prefs == nil {
		return blocked, nil
	}
	for _, w := range prefs.ActiveWindows(wd, now) {
		ws, err := slot.Of(w.Start)
		if err != nil {
			continue
		}
		we, err := slot.Of(w.End)
		if err != nil {
			continue
		}
		if start < we && ws < end {
			blocked = append(blocked, w)
		}
	}
	return blocked, nil
}
