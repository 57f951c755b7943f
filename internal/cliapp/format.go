package cliapp

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/dpinto-lab/chrono/internal/dispatch"
	"github.com/dpinto-lab/chrono/internal/event"
	"github.com/dpinto-lab/chrono/internal/schedule"
	"github.com/dpinto-lab/chrono/internal/summary"
)

var (
	colorSuccess = color.New(color.FgGreen, color.Bold)
	colorError   = color.New(color.FgRed, color.Bold)
	colorInfo    = color.New(color.FgWhite, color.Faint)
	colorHeader  = color.New(color.Bold)
)

func printSuccess(msg string) { colorSuccess.Print("  ✔ "); fmt.Println(msg) }
func printError(msg string)   { colorError.Print("  ✖ "); fmt.Println(msg) }
func printInfo(msg string)    { colorInfo.Print("  ℹ "); fmt.Println(msg) }

// printResult renders a dispatch.Result, one block per populated
// outcome field.
func printResult(res dispatch.Result) {
	if res.Err != nil {
		printError(res.Err.Error())
		return
	}
	if res.Message != "" {
		fmt.Println("  " + res.Message)
	}
	if len(res.Events) > 0 {
		printEvents(res.Events)
	}
	if res.Week != nil {
		printWeekSummary(res.Week)
	}
	if len(res.Free) > 0 {
		printFreeIntervals(res.Free)
	}
	if len(res.Slots) > 0 {
		printSlots(res.Slots)
	}
}

func printEvents(events []event.Event) {
	colorHeader.Println("\n  Events")
	currentDate := ""
	for _, e := range events {
		label := e.Date
		if e.Date != currentDate {
			if t, err := time.Parse("2006-01-02", e.Date); err == nil {
				label = t.Format("Mon Jan 2")
			}
			currentDate = e.Date
		} else {
			label = ""
		}
		fmt.Printf("  %-10s %s  %-25s %d min  %s\n", label, e.Time, e.Title, e.Duration, relativeEventTime(e))
	}
	fmt.Println()
}

// relativeEventTime renders "in 3 hours"/"2 days ago" next to the
// absolute time.
func relativeEventTime(e event.Event) string {
	t, err := time.Parse("2006-01-02 15:04", e.Date+" "+e.Time)
	if err != nil {
		return ""
	}
	return "(" + humanize.Time(t) + ")"
}

func printWeekSummary(w *summary.WeekSummary) {
	if w.Events == 0 {
		printInfo("Nothing scheduled in this span.")
		return
	}
	colorHeader.Println("  Week at a glance")
	for _, day := range w.Days {
		bar := strings.Repeat("█", day.BusyMinutes/60)
		fmt.Printf("  %-10s %2d event(s)  %4d min busy  %s\n", day.Weekday, day.Events, day.BusyMinutes, bar)
	}
	fmt.Printf("  %d events, %s scheduled", w.Events, formatMinutes(w.BusyMinutes))
	if w.BusiestDay != "" {
		if t, err := time.Parse("2006-01-02", w.BusiestDay); err == nil {
			fmt.Printf("; busiest day is %s", t.Format("Monday"))
		}
	}
	fmt.Println()
	fmt.Println()
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%d h", m/60)
	}
	return fmt.Sprintf("%d h %d min", m/60, m%60)
}

func printFreeIntervals(intervals []schedule.FreeInterval) {
	colorHeader.Println("\n  Free slots")
	for _, f := range intervals {
		fmt.Printf("  • %s — %s (%d min)\n", f.Start, f.End, f.DurationMinutes)
	}
	fmt.Println()
}

func printSlots(solutions []schedule.Solution) {
	best := solutions[0]
	colorHeader.Println("\n  Best slot")
	for _, s := range best {
		if t, err := time.Parse("2006-01-02", s.Date); err == nil {
			fmt.Printf("  %s at %s (%d min)\n", t.Format("Monday, January 2"), s.Time, s.Duration)
		} else {
			fmt.Printf("  %s at %s (%d min)\n", s.Date, s.Time, s.Duration)
		}
	}
	fmt.Println()
}
