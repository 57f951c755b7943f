// Package chain implements the chain coordinator: given a batch of
// parsed commands, it detects intra-batch time conflicts and pre-solves
// untimed SCHEDULE commands in declaration order, treating each
// already-placed command as a virtual event for the commands that
// follow it.
package chain

import (
	"fmt"
	"sort"
	"time"

	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/event"
	"github.com/dpinto-lab/chrono/internal/preferences"
	"github.com/dpinto-lab/chrono/internal/schedule"
	"github.com/dpinto-lab/chrono/internal/slot"
)

// defaultDuration is used when a command carries no explicit duration;
// the dispatcher's config normally supplies one, but the coordinator
// itself must not fail a command outright just for lacking one.
const defaultDuration = 60

// ChainFailure records why the command at Index could not be pre-solved.
type ChainFailure struct {
	Index  int
	Reason string
}

// Result is the outcome of running a batch of commands through the
// coordinator's conflict scan and pre-solve steps.
type Result struct {
	Commands  []command.Command // mutated copies: pre-solved commands get Time/Dates filled in
	Conflicts []int             // indices of commands in an intra-batch time conflict
	Failures  []ChainFailure    // indices that could not be pre-solved, with a reason
}

// Run executes steps 1-2 of the Chain Coordinator (intra-batch conflict
// scan, then pre-solve of untimed SCHEDULE commands). Steps 3-4
// (preview/edit, execute) belong to the dispatcher, which re-enters Run
// after every edit — the ordering guarantee that command N+1 always
// observes command N's chosen time falls out of pre-solving strictly in
// declaration order against an accumulating virtual-event list.
func Run(commands []command.Command, existing []event.Event, prefs *preferences.Preferences, now time.Time) Result {
	cmds := make([]command.Command, len(commands))
	copy(cmds, commands)

	result := Result{Commands: cmds, Conflicts: scanIntraBatchConflicts(cmds)}

	pool := make([]event.Event, len(existing))
	copy(pool, existing)
	var virtual []event.Event

	for i := range cmds {
		c := cmds[i]
		if c.Intent != command.Schedule || c.Time != "" {
			continue
		}

		duration := c.Duration
		if duration <= 0 {
			duration = defaultDuration
		}
		req := schedule.Request{
			Activity: c.Activity,
			Duration: duration,
			Count:    1,
			TimeBias: c.TimeBias,
		}
		if date, ok := c.Date(); ok {
			req.Date = date
		}

		candidates := make([]event.Event, 0, len(pool)+len(virtual))
		candidates = append(candidates, pool...)
		candidates = append(candidates, virtual...)

		solutions, err := schedule.FindAvailableSlots(candidates, prefs, req, 1, now)
		if err != nil || len(solutions) == 0 {
			reason := "no available slot fits this request"
			if err != nil {
				reason = err.Error()
			}
			result.Failures = append(result.Failures, ChainFailure{Index: i, Reason: reason})
			continue
		}

		chosen := solutions[0][0]
		cmds[i].Time = chosen.Time
		if _, ok := c.Date(); !ok {
			cmds[i].Dates = []string{chosen.Date}
		}

		virtual = append(virtual, event.Event{
			ID:       fmt.Sprintf("virtual-%d", i),
			Title:    cmds[i].Title(),
			Date:     chosen.Date,
			Time:     chosen.Time,
			Duration: duration,
		})
	}

	return result
}

// scanIntraBatchConflicts marks every command index whose (date, slot
// range) overlaps another SCHEDULE command in the same batch that also
// has an explicit date and time.
func scanIntraBatchConflicts(cmds []command.Command) []int {
	type timed struct {
		idx        int
		date       string
		start, end int
	}
	var placed []timed
	for i, c := range cmds {
		if c.Intent != command.Schedule || c.Time == "" {
			continue
		}
		date, ok := c.Date()
		if !ok {
			continue
		}
		start, err := slot.Of(c.Time)
		if err != nil {
			continue
		}
		duration := c.Duration
		if duration <= 0 {
			duration = defaultDuration
		}
		durSlots, err := slot.DurationToSlots(duration)
		if err != nil {
			continue
		}
		placed = append(placed, timed{idx: i, date: date, start: start, end: start + durSlots})
	}

	conflictSet := make(map[int]bool)
	for a := 0; a < len(placed); a++ {
		for b := a + 1; b < len(placed); b++ {
			pa, pb := placed[a], placed[b]
			if pa.date != pb.date {
				continue
			}
			if pa.start < pb.end && pb.start < pa.end {
				conflictSet[pa.idx] = true
				conflictSet[pb.idx] = true
			}
		}
	}

	out := make([]int, 0, len(conflictSet))
	for idx := range conflictSet {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
