// Package dispatch implements the command dispatcher: per-intent
// handlers that combine the Scheduling Core and the Event Store, with
// interactive confirmation hooks routed through a Prompter so the
// dispatcher itself stays free of terminal concerns.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dpinto-lab/chrono/internal/calstore"
	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/event"
	"github.com/dpinto-lab/chrono/internal/preferences"
	"github.com/dpinto-lab/chrono/internal/schedule"
	"github.com/dpinto-lab/chrono/internal/session"
	"github.com/dpinto-lab/chrono/internal/summary"
)

// Choice is a numbered option presented to the user by Prompter.Choose.
type Choice string

const (
	ChoiceFindNextSlot Choice = "find-next-slot"
	ChoiceOverride     Choice = "override"
	ChoiceCancel       Choice = "cancel"
	ChoiceTryNext      Choice = "try-next"
	ChoiceChangeBias   Choice = "change-time-bias"
	ChoiceManualTime   Choice = "manual-time"
)

// Prompter is the interactive surface the dispatcher calls into;
// internal/cliapp implements it with bubbletea choice menus, tests
// implement it with a scripted stub.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(prompt string) bool
	// Choose presents options and returns the chosen one, or ChoiceCancel if cancelled.
	Choose(prompt string, options []Choice) Choice
	// ManualTime asks the user to type an "HH:MM" time; ok is false if cancelled.
	ManualTime(prompt string) (string, bool)
	// Bias asks the user to pick a new time-of-day bias.
	Bias(prompt string) preferences.TimeBias
}

// Result is what a handler produces for display; handlers never print
// directly.
type Result struct {
	Message string
	Events  []event.Event           // for LIST
	Week    *summary.WeekSummary    // for LIST over a multi-day span
	Slots   []schedule.Solution     // for FIND_OPTIMAL
	Free    []schedule.FreeInterval // for FIND_FREE
	Err     error
}

// Dispatcher wires the store, preferences, session memory, and a
// Prompter together to execute one Command at a time.
type Dispatcher struct {
	Store           calstore.EventStore
	Prefs           *preferences.Preferences
	Memory          *session.Memory
	Prompt          Prompter
	DefaultDuration int
	Now             func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Dispatcher) duration(c command.Command) int {
	if c.Duration > 0 {
		return c.Duration
	}
	if d.DefaultDuration > 0 {
		return d.DefaultDuration
	}
	return 60
}

// Dispatch routes c to its per-intent handler.
func (d *Dispatcher) Dispatch(ctx context.Context, c command.Command) Result {
	switch c.Intent {
	case command.Help:
		return Result{Message: helpText}
	case command.Schedule:
		return d.handleSchedule(ctx, c)
	case command.List:
		return d.handleList(ctx, c)
	case command.Delete:
		return d.handleDelete(ctx, c)
	case command.Update:
		return d.handleUpdate(ctx, c)
	case command.FindFree:
		return d.handleFindFree(ctx, c)
	case command.FindOptimal:
		return d.handleFindOptimal(ctx, c)
	case command.Preferences:
		return d.handlePreferences(ctx, c)
	default:
		return Result{Message: "I didn't understand that. Type 'help' for examples."}
	}
}

const helpText = `Try:
  schedule gym tomorrow morning
  what's on friday?
  move meeting to 3pm
  delete that
  find free time today`

// handleSchedule handles a SCHEDULE command: with an
// explicit time, check conflicts/preference blocks and offer a choice
// on a hit; without one, invoke the solver and walk candidates.
func (d *Dispatcher) handleSchedule(ctx context.Context, c command.Command) Result {
	if c.Activity == "" && c.Label == "" {
		return Result{Message: "What would you like to schedule? Try: schedule gym tomorrow morning"}
	}
	title := c.Title()
	date, ok := c.Date()
	if !ok {
		date = d.now().Format("2006-01-02")
	}
	duration := d.duration(c)

	events, err := d.Store.ListByDate(ctx, date)
	if err != nil {
		return Result{Err: err}
	}

	if c.Time != "" {
		return d.scheduleExplicitTime(ctx, title, date, c.Time, duration, events)
	}
	return d.scheduleBySolver(ctx, title, c, date, duration, events)
}

func (d *Dispatcher) scheduleExplicitTime(ctx context.Context, title, date, timeStr string, duration int, events []event.Event) Result {
	conflicts, err := schedule.CheckConflict(events, date, timeStr, duration)
	if err != nil {
		return Result{Err: err}
	}
	blocked, err := schedule.CheckPreferenceBlock(d.Prefs, date, timeStr, duration, d.now())
	if err != nil {
		return Result{Err: err}
	}

	if len(conflicts) > 0 || len(blocked) > 0 {
		choice := d.Prompt.Choose(conflictMessage(timeStr, conflicts, blocked), []Choice{ChoiceFindNextSlot, ChoiceOverride, ChoiceCancel})
		switch choice {
		case ChoiceCancel, "":
			return Result{Message: "Cancelled."}
		case ChoiceOverride:
			return d.createAndRecord(ctx, title, date, timeStr, duration)
		case ChoiceFindNextSlot:
			return d.scheduleBySolver(ctx, title, command.Command{}, date, duration, events)
		}
	}

	if !d.Prompt.Confirm(fmt.Sprintf("Schedule '%s' on %s at %s for %d min?", title, date, timeStr, duration)) {
		return Result{Message: "Cancelled."}
	}
	return d.createAndRecord(ctx, title, date, timeStr, duration)
}

func conflictMessage(timeStr string, conflicts []event.Event, blocked []preferences.BlockedWindow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s' conflicts with:\n", timeStr)
	for _, e := range conflicts {
		fmt.Fprintf(&b, "  - %s %s (%d min)\n", e.Time, e.Title, e.Duration)
	}
	for _, w := range blocked {
		fmt.Fprintf(&b, "  - blocked: %s (%s-%s)\n", w.Label, w.Start, w.End)
	}
	return b.String()
}

func (d *Dispatcher) scheduleBySolver(ctx context.Context, title string, c command.Command, date string, duration int, events []event.Event) Result {
	req := schedule.Request{Activity: title, Duration: duration, Count: 1, Date: date, TimeBias: c.TimeBias}

	const maxCandidates = 5
	for attempt := 0; attempt < maxCandidates; attempt++ {
		solutions, err := schedule.FindAvailableSlots(events, d.Prefs, req, maxCandidates, d.now())
		if err != nil || len(solutions) <= attempt {
			if errors.Is(err, schedule.ErrUnsatisfiable) || len(solutions) == 0 {
				return Result{Message: "No available slots found. The calendar may be full for this date."}
			}
			return Result{Err: err}
		}
		chosen := solutions[attempt][0]

		if !d.Prompt.Confirm(fmt.Sprintf("Schedule '%s' on %s at %s for %d min?", title, chosen.Date, chosen.Time, duration)) {
			choice := d.Prompt.Choose("What next?", []Choice{ChoiceTryNext, ChoiceChangeBias, ChoiceManualTime, ChoiceCancel})
			switch choice {
			case ChoiceTryNext:
				continue
			case ChoiceChangeBias:
				req.TimeBias = d.Prompt.Bias("Pick a time-of-day preference")
				attempt = -1 // restart the scan under the new bias
				continue
			case ChoiceManualTime:
				manual, ok := d.Prompt.ManualTime("Enter a time (HH:MM)")
				if !ok {
					return Result{Message: "Cancelled."}
				}
				return d.scheduleExplicitTime(ctx, title, chosen.Date, manual, duration, events)
			default:
				return Result{Message: "Cancelled."}
			}
		}
		return d.createAndRecord(ctx, title, chosen.Date, chosen.Time, duration)
	}
	return Result{Message: "No available slots found. The calendar may be full for this date."}
}

func (d *Dispatcher) createAndRecord(ctx context.Context, title, date, timeStr string, duration int) Result {
	created, err := d.Store.Create(ctx, event.Event{Title: title, Date: date, Time: timeStr, Duration: duration})
	if err != nil {
		return Result{Err: err}
	}
	d.Memory.RecordCreated(created)
	return Result{Message: fmt.Sprintf("Created '%s' on %s at %s", created.Title, created.Date, created.Time)}
}

// handleList implements LIST: single date or a min/max range. A
// multi-day span also gets a per-day load summary.
func (d *Dispatcher) handleList(ctx context.Context, c command.Command) Result {
	var events []event.Event
	var err error
	switch len(c.Dates) {
	case 0:
		events, err = d.Store.ListByDate(ctx, d.now().Format("2006-01-02"))
	case 1:
		events, err = d.Store.ListByDate(ctx, c.Dates[0])
	default:
		start, end := minMaxDate(c.Dates)
		events, err = d.Store.ListByRange(ctx, start, end)
	}
	if err != nil {
		return Result{Err: err}
	}
	res := Result{Events: events}
	if len(c.Dates) > 1 {
		res.Week = summary.Summarize(c.Dates, events)
	}
	return res
}

func minMaxDate(dates []string) (min, max string) {
	min, max = dates[0], dates[0]
	for _, d := range dates[1:] {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// handleDelete implements DELETE: numeric reference, then anaphora,
// then fuzzy title match on today's events, then upcoming events.
func (d *Dispatcher) handleDelete(ctx context.Context, c command.Command) Result {
	today := d.now().Format("2006-01-02")

	if n, ok := parseOneBasedIndex(c.Activity); ok {
		events, err := d.Store.ListByDate(ctx, today)
		if err != nil {
			return Result{Err: err}
		}
		if n < 1 || n > len(events) {
			return Result{Message: fmt.Sprintf("There's no event #%d today.", n)}
		}
		return d.confirmDelete(ctx, events[n-1])
	}

	if session.IsAnaphoric(c) {
		if d.Memory.Empty() {
			return Result{Message: "No recent event in memory."}
		}
		resolved, _ := d.Memory.Resolve(c)
		return d.deleteByTitle(ctx, resolved, today)
	}

	if c.Activity == "" {
		return Result{Message: "Which event to delete? Try: cancel gym tomorrow"}
	}
	return d.deleteByTitle(ctx, c, today)
}

func (d *Dispatcher) deleteByTitle(ctx context.Context, c command.Command, today string) Result {
	date := today
	explicitDate := false
	if dd, ok := c.Date(); ok {
		date = dd
		explicitDate = true
	}

	events, err := d.Store.ListByDate(ctx, date)
	if err != nil {
		return Result{Err: err}
	}
	match := fuzzyTitleMatch(events, c.Activity)

	if match == nil && !explicitDate {
		upcoming, err := d.Store.ListByRange(ctx, today, farFuture(today))
		if err != nil {
			return Result{Err: err}
		}
		events = upcoming
		match = fuzzyTitleMatch(events, c.Activity)
	}

	if match == nil {
		return Result{Message: fmt.Sprintf("No event matching '%s' found.", c.Activity), Events: events}
	}
	return d.confirmDelete(ctx, *match)
}

func (d *Dispatcher) confirmDelete(ctx context.Context, e event.Event) Result {
	if !d.Prompt.Confirm(fmt.Sprintf("Delete '%s' on %s at %s?", e.Title, e.Date, e.Time)) {
		return Result{Message: "Cancelled."}
	}
	if err := d.Store.Delete(ctx, e.ID); err != nil {
		return Result{Err: err}
	}
	d.Memory.Record(e)
	return Result{Message: fmt.Sprintf("Deleted '%s'", e.Title)}
}

// handleUpdate implements UPDATE: fuzzy title match on upcoming
// events, merging the command's nonempty fields as changes.
func (d *Dispatcher) handleUpdate(ctx context.Context, c command.Command) Result {
	if c.Activity == "" {
		return Result{Message: "Which event to update? Try: move gym to 3pm"}
	}
	today := d.now().Format("2006-01-02")
	events, err := d.Store.ListByRange(ctx, today, farFuture(today))
	if err != nil {
		return Result{Err: err}
	}
	match := fuzzyTitleMatch(events, c.Activity)
	if match == nil {
		return Result{Message: fmt.Sprintf("No event matching '%s' found.", c.Activity)}
	}

	patch := event.Event{}
	var changeDesc []string
	if c.Time != "" {
		patch.Time = c.Time
		changeDesc = append(changeDesc, "time="+c.Time)
	}
	if date, ok := c.Date(); ok {
		patch.Date = date
		changeDesc = append(changeDesc, "date="+date)
	}
	if c.Duration > 0 {
		patch.Duration = c.Duration
		changeDesc = append(changeDesc, fmt.Sprintf("duration=%dmin", c.Duration))
	}
	if len(changeDesc) == 0 {
		return Result{Message: "What should I change? Try: move gym to 3pm"}
	}

	if !d.Prompt.Confirm(fmt.Sprintf("Update '%s': %s?", match.Title, strings.Join(changeDesc, ", "))) {
		return Result{Message: "Cancelled."}
	}
	updated, err := d.Store.Update(ctx, match.ID, patch)
	if err != nil {
		return Result{Err: err}
	}
	d.Memory.Record(updated)
	return Result{Message: fmt.Sprintf("Updated '%s' — %s at %s", updated.Title, updated.Date, updated.Time)}
}

// handleFindFree and handleFindOptimal pass straight through to the solver.
func (d *Dispatcher) handleFindFree(ctx context.Context, c command.Command) Result {
	date, ok := c.Date()
	if !ok {
		date = d.now().Format("2006-01-02")
	}
	events, err := d.Store.ListByDate(ctx, date)
	if err != nil {
		return Result{Err: err}
	}
	minDuration := d.duration(c)
	intervals, err := schedule.FindFreeIntervals(events, d.Prefs, date, minDuration)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Free: intervals}
}

func (d *Dispatcher) handleFindOptimal(ctx context.Context, c command.Command) Result {
	activity := c.Activity
	if activity == "" {
		activity = "event"
	}
	req := schedule.Request{Activity: activity, Duration: d.duration(c), Count: 1, TimeBias: c.TimeBias}
	if date, ok := c.Date(); ok {
		req.Date = date
	}

	var events []event.Event
	var err error
	if req.Date != "" {
		events, err = d.Store.ListByDate(ctx, req.Date)
	} else {
		today := d.now().Format("2006-01-02")
		events, err = d.Store.ListByRange(ctx, today, farFuture(today))
	}
	if err != nil {
		return Result{Err: err}
	}

	solutions, err := schedule.FindAvailableSlots(events, d.Prefs, req, 1, d.now())
	if err != nil {
		if errors.Is(err, schedule.ErrUnsatisfiable) {
			return Result{Message: "No available slots found."}
		}
		return Result{Err: err}
	}
	return Result{Slots: solutions}
}

func (d *Dispatcher) handlePreferences(ctx context.Context, c command.Command) Result {
	var b strings.Builder
	b.WriteString("Blocked windows:\n")
	if len(d.Prefs.BlockedWindows) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, w := range d.Prefs.BlockedWindows {
		fmt.Fprintf(&b, "  - %s: %s %s-%s\n", w.Label, strings.Join(w.Days, ","), w.Start, w.End)
	}
	fmt.Fprintf(&b, "Default time preference: %s\n", orNone(string(d.Prefs.DefaultTimeBias)))
	fmt.Fprintf(&b, "Smart parsing: %v\n", d.Prefs.NLParserEnabled)
	return Result{Message: b.String()}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func farFuture(from string) string {
	t, err := time.Parse("2006-01-02", from)
	if err != nil {
		return from
	}
	return t.AddDate(1, 0, 0).Format("2006-01-02")
}

func parseOneBasedIndex(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// fuzzyTitleMatch finds an exact case-insensitive title match first,
// then a substring match in either direction.
func fuzzyTitleMatch(events []event.Event, title string) *event.Event {
	if title == "" {
		return nil
	}
	t := strings.ToLower(title)
	for i := range events {
		if strings.ToLower(events[i].Title) == t {
			return &events[i]
		}
	}
	sorted := make([]event.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Time < sorted[j].Time
	})
	for i := range sorted {
		lower := strings.ToLower(sorted[i].Title)
		if strings.Contains(lower, t) || strings.Contains(t, lower) {
			return &sorted[i]
		}
	}
	return nil
}
