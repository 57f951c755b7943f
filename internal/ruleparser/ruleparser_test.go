package ruleparser

import (
	"testing"
	"time"

	"github.com/dpinto-lab/chrono/internal/command"
)

func now(t *testing.T) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02", "2026-02-18")
	if err != nil {
		t.Fatal(err)
	}
	return tm
}

func TestIntentClassification(t *testing.T) {
	n := now(t)
	cases := []struct {
		input string
		want  command.Intent
	}{
		{"help", command.Help},
		{"show my preferences", command.Preferences},
		{"what's the best time for a workout", command.FindOptimal},
		{"when am i free tomorrow", command.FindFree},
		{"delete the gym session", command.Delete},
		{"move my meeting to 3pm", command.Update},
		{"schedule gym tomorrow at 6am", command.Schedule},
		{"what's on friday", command.List},
		{"asdkjasd", command.Unknown},
	}
	for _, c := range cases {
		got := Parse(c.input, n)
		if got.Intent != c.want {
			t.Errorf("Parse(%q).Intent = %v, want %v", c.input, got.Intent, c.want)
		}
	}
}

func TestBareHourHeuristic(t *testing.T) {
	n := now(t)
	if got := Parse("schedule meeting at 2", n); got.Time != "14:00" {
		t.Errorf("at 2 -> %q, want 14:00", got.Time)
	}
	if got := Parse("schedule run at 9", n); got.Time != "09:00" {
		t.Errorf("at 9 -> %q, want 09:00", got.Time)
	}
}

func Test12And24HourTime(t *testing.T) {
	n := now(t)
	if got := Parse("schedule gym at 3pm", n); got.Time != "15:00" {
		t.Errorf("3pm -> %q", got.Time)
	}
	if got := Parse("schedule gym at 14:30", n); got.Time != "14:30" {
		t.Errorf("14:30 -> %q", got.Time)
	}
	if got := Parse("schedule gym at 12am", n); got.Time != "00:00" {
		t.Errorf("12am -> %q", got.Time)
	}
	if got := Parse("schedule gym at 12pm", n); got.Time != "12:00" {
		t.Errorf("12pm -> %q", got.Time)
	}
}

func TestDurationExtraction(t *testing.T) {
	n := now(t)
	if got := Parse("schedule gym for 2 hours", n); got.Duration != 120 {
		t.Errorf("duration = %d, want 120", got.Duration)
	}
	if got := Parse("schedule gym for 45 minutes", n); got.Duration != 45 {
		t.Errorf("duration = %d, want 45", got.Duration)
	}
}

func TestTimePrefExtraction(t *testing.T) {
	n := now(t)
	got := Parse("schedule gym in the morning", n)
	if got.TimeBias != "morning" {
		t.Errorf("time pref = %q, want morning", got.TimeBias)
	}
	got = Parse("schedule gym at night", n)
	if got.TimeBias != "evening" {
		t.Errorf("night should normalize to evening, got %q", got.TimeBias)
	}
}

func TestCustomLabel(t *testing.T) {
	n := now(t)
	got := Parse(`schedule a workout called "Morning Grind"`, n)
	if got.Label != "Morning Grind" {
		t.Errorf("label = %q, want Morning Grind", got.Label)
	}
	if got.Title() != "Morning Grind" {
		t.Errorf("title = %q, want Morning Grind", got.Title())
	}
}

func TestActivityExtraction(t *testing.T) {
	n := now(t)
	got := Parse("schedule gym tomorrow at 6am", n)
	if got.Activity != "gym" {
		t.Errorf("activity = %q, want gym", got.Activity)
	}
}

func TestEmptyInputIsZeroConfidence(t *testing.T) {
	n := now(t)
	got := Parse("   ", n)
	if got.Intent != command.Unknown || got.Confidence != 0 {
		t.Errorf("empty input = %+v", got)
	}
}

func TestUnknownIntentConfidence(t *testing.T) {
	n := now(t)
	got := Parse("asdkjasd qwoiej", n)
	if got.Confidence != 0.3 {
		t.Errorf("unknown confidence = %v, want 0.3", got.Confidence)
	}
}
