package slot

import (
	"errors"
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	for h := DayStartHour; h < DayEndHour; h++ {
		for _, m := range []int{0, 30} {
			hhmm := Time((h-DayStartHour)*2 + half(m))
			s, err := Of(hhmm)
			if err != nil {
				t.Fatalf("Of(%q): %v", hhmm, err)
			}
			if got := Time(s); got != hhmm {
				t.Errorf("round trip mismatch: %q -> %d -> %q", hhmm, s, got)
			}
		}
	}
}

func TestOfRejectsOutsideWindow(t *testing.T) {
	for _, bad := range []string{"05:30", "22:00", "23:59", "not-a-time", "6:5"} {
		if _, err := Of(bad); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("Of(%q) = %v, want ErrInvalidTime", bad, err)
		}
	}
}

func TestDurationToSlotsMonotone(t *testing.T) {
	cases := []struct{ m, want int }{
		{1, 1}, {29, 1}, {30, 1}, {31, 2}, {60, 2}, {61, 3}, {90, 3},
	}
	for _, c := range cases {
		got, err := DurationToSlots(c.m)
		if err != nil {
			t.Fatalf("DurationToSlots(%d): %v", c.m, err)
		}
		if got != c.want {
			t.Errorf("DurationToSlots(%d) = %d, want %d", c.m, got, c.want)
		}
	}
	for m := 1; m < 200; m++ {
		a, err := DurationToSlots(m)
		if err != nil {
			t.Fatal(err)
		}
		b, err := DurationToSlots(m + 1)
		if err != nil {
			t.Fatal(err)
		}
		if a > b {
			t.Errorf("monotonicity violated at m=%d: %d > %d", m, a, b)
		}
	}
}

func TestDurationToSlotsRejectsNonPositive(t *testing.T) {
	for _, bad := range []int{0, -1, -30} {
		if _, err := DurationToSlots(bad); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("DurationToSlots(%d) = %v, want ErrInvalidDuration", bad, err)
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	got, err := WeekdayOf("2026-02-18")
	if err != nil {
		t.Fatal(err)
	}
	if got != "wednesday" {
		t.Errorf("WeekdayOf(2026-02-18) = %q, want wednesday", got)
	}
}

func TestWeekDatesStartsMonday(t *testing.T) {
	anchor, _ := time.Parse("2006-01-02", "2026-02-18") // Wednesday
	dates := WeekDates(anchor)
	if dates[0] != "2026-02-16" {
		t.Errorf("week start = %s, want 2026-02-16 (Monday)", dates[0])
	}
	if dates[6] != "2026-02-22" {
		t.Errorf("week end = %s, want 2026-02-22 (Sunday)", dates[6])
	}
}

func TestBands(t *testing.T) {
	if !IsMorning(0) || IsMorning(12) {
		t.Error("morning band boundary wrong")
	}
	if !IsAfternoon(12) || IsAfternoon(24) {
		t.Error("afternoon band boundary wrong")
	}
	if !IsEvening(24) || !IsEvening(Count-1) {
		t.Error("evening band boundary wrong")
	}
	if !IsWorkingHour(6) || IsWorkingHour(24) {
		t.Error("working-hours boundary wrong")
	}
}
