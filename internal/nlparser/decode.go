package nlparser

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/dateresolve"
	"github.com/dpinto-lab/chrono/internal/preferences"
	"github.com/dpinto-lab/chrono/internal/ruleparser"
)

var validIntents = map[string]command.Intent{
	"SCHEDULE":     command.Schedule,
	"LIST":         command.List,
	"DELETE":       command.Delete,
	"UPDATE":       command.Update,
	"FIND_FREE":    command.FindFree,
	"FIND_OPTIMAL": command.FindOptimal,
	"HELP":         command.Help,
	"PREFERENCES":  command.Preferences,
}

// decodeCommands parses the model's raw text response (after fence
// stripping) into the Command list, applying the same normalization the
// wire contract documents: a bare object is auto-wrapped to a singleton
// list, string sentinels collapse to empty, and relative date phrases
// are resolved locally rather than trusted from the model.
func decodeCommands(raw string, userInput string, now time.Time) ([]command.Command, error) {
	body := extractJSON(raw)

	var wire []wireCommand
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		var single wireCommand
		if err2 := json.Unmarshal([]byte(body), &single); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		wire = []wireCommand{single}
	}

	out := make([]command.Command, 0, len(wire))
	for _, w := range wire {
		out = append(out, buildCommand(w, userInput, now))
	}
	return out, nil
}

func buildCommand(w wireCommand, userInput string, now time.Time) command.Command {
	intent, ok := validIntents[w.Intent]
	if !ok {
		intent = command.Unknown
	}

	activity := Clean(w.Activity)
	dateStr := Clean(w.Date)
	dateEndStr := Clean(w.DateEnd)
	timeVal := Clean(w.Time)
	timePref := Clean(w.TimePref)

	if timeVal == "" {
		timeVal = ruleparser.ExtractTime(userInput)
	}

	var dates []string
	var dateLabel string
	if dateStr != "" {
		if start, err := time.Parse("2006-01-02", dateStr); err == nil {
			if dateEndStr != "" {
				if end, err := time.Parse("2006-01-02", dateEndStr); err == nil {
					for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
						dates = append(dates, d.Format("2006-01-02"))
					}
					dateLabel = start.Format("Jan 02") + " - " + end.Format("Jan 02")
				} else {
					dates = []string{dateStr}
					dateLabel = start.Format("Monday, January 02")
				}
			} else {
				dates = []string{dateStr}
				dateLabel = start.Format("Monday, January 02")
			}
		} else if resolved := dateresolve.Resolve(dateStr, now); len(resolved.Dates) > 0 {
			dates = resolved.Dates
			dateLabel = resolved.Label
		} else {
			dates = []string{dateStr}
			dateLabel = dateStr
		}
	}

	duration := 0
	if w.Duration != nil {
		duration = *w.Duration
	}

	return command.Command{
		Intent:     intent,
		Activity:   activity,
		Dates:      dates,
		DateLabel:  dateLabel,
		Time:       timeVal,
		Duration:   duration,
		TimeBias:   preferences.TimeBias(timePref),
		Confidence: 0.95,
		Raw:        userInput,
	}
}
