package chain

import (
	"testing"
	"time"

	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/event"
	"github.com/dpinto-lab/chrono/internal/preferences"
)

func mustNow(t *testing.T) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02", "2026-02-18")
	if err != nil {
		t.Fatal(err)
	}
	return tm
}

// Two untimed SCHEDULE commands on the same date pre-solve to
// distinct times with no intra-batch conflict.
func TestRunPreSolvesChainToDistinctTimes(t *testing.T) {
	now := mustNow(t)
	cmds := []command.Command{
		{Intent: command.Schedule, Activity: "gym", Dates: []string{"2026-02-18"}, Duration: 60},
		{Intent: command.Schedule, Activity: "study", Dates: []string{"2026-02-18"}, Duration: 60},
	}
	result := Run(cmds, nil, preferences.New(), now)

	if len(result.Failures) != 0 {
		t.Fatalf("expected no failures, got %+v", result.Failures)
	}
	if len(result.Conflicts) != 0 {
		t.Fatalf("expected no intra-batch conflicts, got %+v", result.Conflicts)
	}
	t1, t2 := result.Commands[0].Time, result.Commands[1].Time
	if t1 == "" || t2 == "" {
		t.Fatalf("expected both commands solved, got %q and %q", t1, t2)
	}
	if t1 == t2 {
		t.Errorf("expected distinct times, both got %q", t1)
	}
	if t1 != "06:00" {
		t.Errorf("expected the first command to take the earliest slot 06:00, got %s", t1)
	}
}

func TestScanIntraBatchConflictsDetectsOverlap(t *testing.T) {
	cmds := []command.Command{
		{Intent: command.Schedule, Activity: "gym", Dates: []string{"2026-02-18"}, Time: "09:00", Duration: 60},
		{Intent: command.Schedule, Activity: "call", Dates: []string{"2026-02-18"}, Time: "09:30", Duration: 30},
		{Intent: command.Schedule, Activity: "lunch", Dates: []string{"2026-02-18"}, Time: "12:00", Duration: 30},
	}
	conflicts := scanIntraBatchConflicts(cmds)
	if len(conflicts) != 2 || conflicts[0] != 0 || conflicts[1] != 1 {
		t.Errorf("expected indices [0 1] to conflict, got %+v", conflicts)
	}
}

func TestScanIntraBatchConflictsIgnoresDifferentDates(t *testing.T) {
	cmds := []command.Command{
		{Intent: command.Schedule, Activity: "gym", Dates: []string{"2026-02-18"}, Time: "09:00", Duration: 60},
		{Intent: command.Schedule, Activity: "call", Dates: []string{"2026-02-19"}, Time: "09:00", Duration: 60},
	}
	conflicts := scanIntraBatchConflicts(cmds)
	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts across distinct dates, got %+v", conflicts)
	}
}

// Pre-solving around an existing store
// event must skip it, same as the solver does directly.
func TestRunPreSolveAvoidsExistingEvent(t *testing.T) {
	now := mustNow(t)
	existing := []event.Event{{ID: "1", Date: "2026-02-18", Time: "06:00", Duration: 90}}
	cmds := []command.Command{
		{Intent: command.Schedule, Activity: "gym", Dates: []string{"2026-02-18"}, Duration: 60},
	}
	result := Run(cmds, existing, preferences.New(), now)
	if len(result.Failures) != 0 {
		t.Fatalf("expected success, got failures %+v", result.Failures)
	}
	if result.Commands[0].Time != "07:30" {
		t.Errorf("expected pre-solve to skip the busy run, got %s", result.Commands[0].Time)
	}
}

func TestRunLeavesAlreadyTimedCommandsUntouched(t *testing.T) {
	now := mustNow(t)
	cmds := []command.Command{
		{Intent: command.Schedule, Activity: "gym", Dates: []string{"2026-02-18"}, Time: "10:00", Duration: 60},
	}
	result := Run(cmds, nil, preferences.New(), now)
	if result.Commands[0].Time != "10:00" {
		t.Errorf("expected explicit time preserved, got %s", result.Commands[0].Time)
	}
}

func TestRunNonScheduleCommandsPassThrough(t *testing.T) {
	now := mustNow(t)
	cmds := []command.Command{{Intent: command.List, Dates: []string{"2026-02-18"}}}
	result := Run(cmds, nil, preferences.New(), now)
	if len(result.Failures) != 0 || len(result.Conflicts) != 0 {
		t.Errorf("expected a non-SCHEDULE command to pass through untouched, got %+v", result)
	}
	if result.Commands[0].Intent != command.List {
		t.Errorf("command mutated unexpectedly: %+v", result.Commands[0])
	}
}
