// Package slot implements the bidirectional mapping between wall-clock
// HH:MM strings and the discrete half-hour slot indices the scheduling
// core operates on.
package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DayStartHour is the first hour of the schedulable window (inclusive).
	DayStartHour = 6
	// DayEndHour is the last hour of the schedulable window (exclusive).
	DayEndHour = 22
	// Count is the total number of half-hour slots in a day, S = 32.
	Count = (DayEndHour - DayStartHour) * 2

	// WorkingHoursStart and WorkingHoursEnd bound the working-hours band
	// (09:00-18:00), expressed as slot indices.
	WorkingHoursStart = 6
	WorkingHoursEnd   = 24

	// MorningEnd, AfternoonEnd bound the morning/afternoon/evening bands.
	MorningEnd   = 12
	AfternoonEnd = 24
)

var (
	// ErrInvalidTime is returned when an HH:MM string falls outside the
	// schedulable day or isn't well-formed.
	ErrInvalidTime = errors.New("slot: invalid time")
	// ErrInvalidDuration is returned for a non-positive duration.
	ErrInvalidDuration = errors.New("slot: invalid duration")
)

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Of converts an "HH:MM" string (two digits on each side of the colon)
// into a slot index. Minutes in [0,30)
// collapse to the slot at the hour; [30,60) to the following slot.
func Of(hhmm string) (int, error) {
	h, m, err := splitHHMM(hhmm)
	if err != nil {
		return 0, err
	}
	if h < DayStartHour || h >= DayEndHour {
		return 0, fmt.Errorf("%w: %q outside [%02d:00,%02d:00)", ErrInvalidTime, hhmm, DayStartHour, DayEndHour)
	}
	s := (h-DayStartHour)*2 + half(m)
	return s, nil
}

// Time formats a slot index back into an "HH:MM" string. Callers must
// only pass indices in [0, Count); out-of-range indices still format
// with the same arithmetic rather than erroring.
func Time(s int) string {
	hour := DayStartHour + s/2
	minute := 0
	if s%2 == 1 {
		minute = 30
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// DurationToSlots converts a duration in minutes to a slot count,
// rounding up to the nearest half hour.
func DurationToSlots(minutes int) (int, error) {
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDuration, minutes)
	}
	return (minutes + 29) / 30, nil
}

// WeekdayOf returns the lowercase English weekday name for an ISO date.
func WeekdayOf(iso string) (string, error) {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, iso)
	}
	return weekdayNames[t.Weekday()], nil
}

// WeekDates returns the 7 consecutive ISO dates of the week containing
// anchor, starting on the Monday on or before anchor.
func WeekDates(anchor time.Time) [7]string {
	offset := int(anchor.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	monday := anchor.AddDate(0, 0, -offset)
	var out [7]string
	for i := range out {
		out[i] = monday.AddDate(0, 0, i).Format("2006-01-02")
	}
	return out
}

// IsWorkingHour reports whether slot s falls in the 09:00-18:00 band.
func IsWorkingHour(s int) bool { return s >= WorkingHoursStart && s < WorkingHoursEnd }

// IsMorning reports whether slot s falls in [0, MorningEnd).
func IsMorning(s int) bool { return s < MorningEnd }

// IsAfternoon reports whether slot s falls in [MorningEnd, AfternoonEnd).
func IsAfternoon(s int) bool { return s >= MorningEnd && s < AfternoonEnd }

// IsEvening reports whether slot s falls in [AfternoonEnd, Count).
func IsEvening(s int) bool { return s >= AfternoonEnd && s < Count }

func half(m int) int {
	if m >= 30 {
		return 1
	}
	return 0
}

func splitHHMM(hhmm string) (hour, minute int, err error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || m < 0 || m > 59 || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return h, m, nil
}
