package summary

import (
	"testing"

	"github.com/dpinto-lab/chrono/internal/event"
)

var weekDates = []string{
	"2026-02-16", "2026-02-17", "2026-02-18", "2026-02-19",
	"2026-02-20", "2026-02-21", "2026-02-22",
}

func TestSummarizeAggregatesPerDayAndTotal(t *testing.T) {
	events := []event.Event{
		{Title: "standup", Date: "2026-02-16", Time: "09:00", Duration: 30},
		{Title: "review", Date: "2026-02-16", Time: "14:00", Duration: 60},
		{Title: "gym", Date: "2026-02-18", Time: "06:00", Duration: 60},
	}

	s := Summarize(weekDates, events)

	if s.Start != "2026-02-16" || s.End != "2026-02-22" {
		t.Errorf("expected span 2026-02-16..2026-02-22, got %s..%s", s.Start, s.End)
	}
	if s.Events != 3 {
		t.Errorf("expected 3 events, got %d", s.Events)
	}
	if s.BusyMinutes != 150 {
		t.Errorf("expected 150 busy minutes, got %d", s.BusyMinutes)
	}
	if s.BusiestDay != "2026-02-16" {
		t.Errorf("expected busiest day 2026-02-16, got %q", s.BusiestDay)
	}
	if len(s.Days) != 7 {
		t.Fatalf("expected 7 day rows, got %d", len(s.Days))
	}
	monday := s.Days[0]
	if monday.Weekday != "monday" || monday.Events != 2 || monday.BusyMinutes != 90 {
		t.Errorf("unexpected monday row: %+v", monday)
	}
	if monday.FreeMinutes != 960-90 {
		t.Errorf("expected monday free minutes %d, got %d", 960-90, monday.FreeMinutes)
	}
}

func TestSummarizeIgnoresEventsOutsideSpan(t *testing.T) {
	events := []event.Event{
		{Title: "gym", Date: "2026-03-01", Time: "06:00", Duration: 60},
	}
	s := Summarize(weekDates, events)
	if s.Events != 0 || s.BusyMinutes != 0 || s.BusiestDay != "" {
		t.Errorf("expected empty aggregation, got %+v", s)
	}
}

func TestSummarizeSortsUnorderedDates(t *testing.T) {
	s := Summarize([]string{"2026-02-18", "2026-02-16"}, nil)
	if s.Start != "2026-02-16" || s.Days[0].Date != "2026-02-16" {
		t.Errorf("expected date-ordered rows, got start=%s first=%s", s.Start, s.Days[0].Date)
	}
}

func TestSummarizeEmptySpan(t *testing.T) {
	s := Summarize(nil, nil)
	if len(s.Days) != 0 || s.Events != 0 {
		t.Errorf("expected zero-value summary, got %+v", s)
	}
}
