// Package dateresolve turns a natural-language date fragment into zero or
// more absolute ISO dates plus a human-readable label.
package dateresolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Kind classifies what shape of result was resolved.
type Kind int

const (
	// KindNone means nothing in the text matched any recognized date form.
	KindNone Kind = iota
	KindDate
	KindWeek
	KindMonth
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindWeek:
		return "week"
	case KindMonth:
		return "month"
	default:
		return "none"
	}
}

// Result is the outcome of resolving a date fragment.
type Result struct {
	Kind  Kind
	Dates []string // ISO dates, chronological order
	Label string
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// typos maps ~25 common misspellings (mostly of "tomorrow" and the
// weekday names) to their corrected form, matched on word boundaries.
var typos = map[string]string{
	"tommorow": "tomorrow", "tomorow": "tomorrow", "tmrw": "tomorrow", "tmr": "tomorrow",
	"tomorroow": "tomorrow", "tomorrw": "tomorrow", "2morrow": "tomorrow",
	"yesteday": "yesterday", "ysterday": "yesterday", "yesterdy": "yesterday",
	"wenesday": "wednesday", "wensday": "wednesday", "wedensday": "wednesday",
	"thurday": "thursday", "thrusday": "thursday", "tusday": "tuesday", "tueday": "tuesday",
	"firday": "friday", "saterday": "saturday", "satruday": "saturday",
	"satuday": "saturday", "munday": "monday", "mondy": "monday",
	"sundya": "sunday", "suday": "sunday",
}

var typoPattern = buildTypoPattern()

func buildTypoPattern() *regexp.Regexp {
	keys := make([]string, 0, len(typos))
	for k := range typos {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(keys, "|") + `)\b`)
}

func fixTypos(text string) string {
	return typoPattern.ReplaceAllStringFunc(text, func(m string) string {
		return typos[strings.ToLower(m)]
	})
}

var monthDayFirst = regexp.MustCompile(`(\w+)\s+(\d{1,2})(?:st|nd|rd|th)?(?:\s*,?\s*(\d{4}))?`)
var dayMonthFirst = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(\w+)(?:\s*,?\s*(\d{4}))?`)

// Resolve parses message for a date reference, relative to now.
func Resolve(message string, now time.Time) Result {
	lower := fixTypos(strings.ToLower(message))

	if strings.Contains(lower, "today") {
		return Result{Kind: KindDate, Dates: []string{iso(now)}, Label: fmt.Sprintf("today (%s)", now.Format("January 02, 2006"))}
	}
	if strings.Contains(lower, "tomorrow") {
		t := now.AddDate(0, 0, 1)
		return Result{Kind: KindDate, Dates: []string{iso(t)}, Label: fmt.Sprintf("tomorrow (%s)", t.Format("January 02, 2006"))}
	}
	if strings.Contains(lower, "yesterday") {
		t := now.AddDate(0, 0, -1)
		return Result{Kind: KindDate, Dates: []string{iso(t)}, Label: fmt.Sprintf("yesterday (%s)", t.Format("January 02, 2006"))}
	}

	if strings.Contains(lower, "this week") {
		start := startOfWeek(now)
		return weekResult(start, "this week")
	}
	if strings.Contains(lower, "next week") {
		start := startOfWeek(now).AddDate(0, 0, 7)
		return weekResult(start, "next week")
	}

	if r, ok := resolveWeekday(lower, now); ok {
		return r
	}

	if r, ok := resolveExplicitDate(lower, now); ok {
		return r
	}

	if r, ok := resolveBareMonth(lower, now); ok {
		return r
	}

	if r, ok := resolveWithDateparse(message, now); ok {
		return r
	}

	return Result{Kind: KindNone}
}

func iso(t time.Time) string { return t.Format("2006-01-02") }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func startOfWeek(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return t.AddDate(0, 0, -offset)
}

func weekResult(start time.Time, label string) Result {
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = iso(start.AddDate(0, 0, i))
	}
	end := start.AddDate(0, 0, 6)
	return Result{
		Kind:  KindWeek,
		Dates: dates,
		Label: fmt.Sprintf("%s (%s - %s)", label, start.Format("Jan 02"), end.Format("Jan 02")),
	}
}

// mondayIndexed maps a weekday onto Monday=0..Sunday=6, the frame the
// skip-a-week arithmetic in resolveWeekday is defined in. Subtracting
// raw time.Weekday values would put Sunday at 0 instead of 6 and throw
// any Sunday-involving query off by a week.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) - int(time.Monday) + 7) % 7
}

// resolveWeekday implements the "next friday always skips to the
// following week, even if today is before Friday" rule: days_ahead is
// computed plain, bumped by 7 if "next" is present, then bumped again
// (only) if it is still non-positive.
func resolveWeekday(lower string, now time.Time) (Result, bool) {
	for name, wd := range weekdayNames {
		if !strings.Contains(lower, name) {
			continue
		}
		daysAhead := mondayIndexed(wd) - mondayIndexed(now.Weekday())
		if strings.Contains(lower, "next") {
			daysAhead += 7
		}
		if daysAhead <= 0 {
			daysAhead += 7
		}
		target := now.AddDate(0, 0, daysAhead)
		return Result{
			Kind:  KindDate,
			Dates: []string{iso(target)},
			Label: fmt.Sprintf("%s (%s)", capitalize(name), target.Format("January 02, 2006")),
		}, true
	}
	return Result{}, false
}

func resolveExplicitDate(lower string, now time.Time) (Result, bool) {
	for _, pattern := range []*regexp.Regexp{monthDayFirst, dayMonthFirst} {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		var monthStr string
		var dayStr string
		if _, err := strconv.Atoi(m[1]); err == nil {
			dayStr, monthStr = m[1], m[2]
		} else {
			monthStr, dayStr = m[1], m[2]
		}
		month, ok := monthNames[monthStr]
		if !ok {
			continue
		}
		day, err := strconv.Atoi(dayStr)
		if err != nil {
			continue
		}
		year := now.Year()
		if m[3] != "" {
			if y, err := strconv.Atoi(m[3]); err == nil {
				year = y
			}
		} else if month < now.Month() {
			year++
		}
		target := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
		if target.Day() != day || target.Month() != month {
			continue // e.g. "February 30" — invalid calendar date
		}
		return Result{Kind: KindDate, Dates: []string{iso(target)}, Label: target.Format("January 02, 2006")}, true
	}
	return Result{}, false
}

func resolveBareMonth(lower string, now time.Time) (Result, bool) {
	for name, month := range monthNames {
		if !strings.Contains(lower, name) {
			continue
		}
		year := now.Year()
		if month < now.Month() {
			year++
		}
		first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, 0).AddDate(0, 0, -1)
		dates := make([]string, 0, 31)
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			dates = append(dates, iso(d))
		}
		return Result{
			Kind:  KindMonth,
			Dates: dates,
			Label: fmt.Sprintf("%s %d", capitalize(name), year),
		}, true
	}
	return Result{}, false
}

// resolveWithDateparse is the last-resort path: for explicit date fragments that don't match either fixed pattern (e.g.
// "15/02/2026", "2026-02-15"), try a general-purpose parser
// before giving up. Relative words are handled above and never reach here.
func resolveWithDateparse(raw string, now time.Time) (Result, bool) {
	t, err := dateparse.ParseIn(raw, now.Location())
	if err != nil {
		return Result{}, false
	}
	return Result{Kind: KindDate, Dates: []string{iso(t)}, Label: t.Format("January 02, 2006")}, true
}
