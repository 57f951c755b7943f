// Package command defines the Command record produced by the rule parser
// and the NL parser alike, and consumed by the chain coordinator and the
// command dispatcher.
package command

import "github.com/dpinto-lab/chrono/internal/preferences"

// Intent is the classified action a Command requests.
type Intent string

const (
	Schedule    Intent = "SCHEDULE"
	List        Intent = "LIST"
	Delete      Intent = "DELETE"
	Update      Intent = "UPDATE"
	FindFree    Intent = "FIND_FREE"
	FindOptimal Intent = "FIND_OPTIMAL"
	Help        Intent = "HELP"
	Preferences Intent = "PREFERENCES"
	Unknown     Intent = "UNKNOWN"
)

// Command is the typed record produced by both the rule parser and
// the NL parser adapter. A single struct carrying the superset of
// optional fields — rather than one variant type per intent — keeps the
// rule parser, the NL parser adapter, and the chain coordinator (which
// mutates Time in place during pre-solve) operating on one shape; the
// dispatcher recovers per-intent exhaustiveness by keeping one handler
// function per intent and switching on Intent itself.
type Command struct {
	Intent Intent

	Activity string // "gym", "meeting with john"
	Label    string // custom title: "called Morning Workout"

	Dates     []string // resolved ISO dates
	DateLabel string   // "tomorrow (February 18, 2026)"

	Time     string // "HH:MM", empty if unset
	Duration int    // minutes, 0 if unset

	TimeBias preferences.TimeBias

	Confidence float64
	Raw        string
}

// Title returns the event title: the custom label if one was given,
// otherwise the extracted activity.
func (c Command) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Activity
}

// Date returns the single resolved date, if exactly one was found.
func (c Command) Date() (string, bool) {
	if len(c.Dates) == 1 {
		return c.Dates[0], true
	}
	return "", false
}
