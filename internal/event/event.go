// Package event defines the canonical calendar Event record the
// Scheduling Core, Event Store, and Session Memory all share.
package event

import (
	"errors"
	"fmt"

	"github.com/dpinto-lab/chrono/internal/slot"
)

// ErrStraddlesDayBoundary is returned when an event's time+duration
// would run past the end of the schedulable window.
var ErrStraddlesDayBoundary = errors.New("event: straddles day boundary")

// ErrDurationTooShort is returned for a duration below the 15-minute floor.
var ErrDurationTooShort = errors.New("event: duration must be at least 15 minutes")

// Event is a scheduled calendar entry.
type Event struct {
	ID          string
	Title       string
	Date        string // ISO-date
	Time        string // HH:MM
	Duration    int    // minutes, >= 15
	Description string
	Category    string
}

// Validate checks the invariants from the data model: duration floor,
// and that the event's slot range fits within one day.
func (e Event) Validate() error {
	if e.Duration < 15 {
		return fmt.Errorf("%w: got %d", ErrDurationTooShort, e.Duration)
	}
	start, err := slot.Of(e.Time)
	if err != nil {
		return err
	}
	durSlots, err := slot.DurationToSlots(e.Duration)
	if err != nil {
		return err
	}
	if start+durSlots > slot.Count {
		return fmt.Errorf("%w: %s %s + %dmin", ErrStraddlesDayBoundary, e.Date, e.Time, e.Duration)
	}
	return nil
}

// SlotRange returns the [start, end) half-open slot interval the event
// occupies.
func (e Event) SlotRange() (start, end int, err error) {
	start, err = slot.Of(e.Time)
	if err != nil {
		return 0, 0, err
	}
	durSlots, err := slot.DurationToSlots(e.Duration)
	if err != nil {
		return 0, 0, err
	}
	return start, start + durSlots, nil
}

// Overlaps reports whether e and other occupy any common slot on the
// same date: a.start < b.end && b.start < a.end.
func Overlaps(a, b Event) bool {
	if a.Date != b.Date {
		return false
	}
	aStart, aEnd, errA := a.SlotRange()
	bStart, bEnd, errB := b.SlotRange()
	if errA != nil || errB != nil {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}
