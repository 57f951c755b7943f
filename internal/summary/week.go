// Package summary aggregates a span of calendar events into per-day
// load figures for the week list view.
package summary

import (
	"sort"

	"github.com/dpinto-lab/chrono/internal/event"
	"github.com/dpinto-lab/chrono/internal/slot"
)

// dayMinutes is the schedulable span of one day, 06:00-22:00.
const dayMinutes = slot.Count * 30

// DayLoad holds one day's aggregated scheduling load.
type DayLoad struct {
	Date        string
	Weekday     string
	Events      int
	BusyMinutes int
	FreeMinutes int
}

// WeekSummary holds aggregated data for a run of days.
type WeekSummary struct {
	Start       string
	End         string
	Events      int
	BusyMinutes int
	BusiestDay  string // ISO date; empty when no day has events
	Days        []DayLoad
}

// Summarize aggregates events over the given dates. Events whose date
// falls outside the span are ignored. Days come back in date order
// regardless of input order.
func Summarize(dates []string, events []event.Event) *WeekSummary {
	if len(dates) == 0 {
		return &WeekSummary{}
	}

	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Strings(sorted)

	byDate := make(map[string]*DayLoad, len(sorted))
	days := make([]DayLoad, len(sorted))
	for i, d := range sorted {
		wd, _ := slot.WeekdayOf(d)
		days[i] = DayLoad{Date: d, Weekday: wd, FreeMinutes: dayMinutes}
		byDate[d] = &days[i]
	}

	s := &WeekSummary{Start: sorted[0], End: sorted[len(sorted)-1]}
	for _, e := range events {
		day, ok := byDate[e.Date]
		if !ok {
			continue
		}
		day.Events++
		day.BusyMinutes += e.Duration
		s.Events++
		s.BusyMinutes += e.Duration
	}

	busiest := -1
	for i := range days {
		days[i].FreeMinutes = dayMinutes - days[i].BusyMinutes
		if days[i].FreeMinutes < 0 {
			days[i].FreeMinutes = 0
		}
		if days[i].Events > 0 && (busiest < 0 || days[i].BusyMinutes > days[busiest].BusyMinutes) {
			busiest = i
		}
	}
	if busiest >= 0 {
		s.BusiestDay = days[busiest].Date
	}
	s.Days = days
	return s
}
