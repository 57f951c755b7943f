package cliapp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dpinto-lab/chrono/internal/chain"
	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/dispatch"
	"github.com/dpinto-lab/chrono/internal/event"
	"github.com/dpinto-lab/chrono/internal/slot"
)

// runChain drives a multi-command input through the Chain Coordinator's
// preview/edit/execute loop: scan for intra-batch conflicts, pre-solve
// untimed schedule commands in order, show the resulting plan, let the
// user edit any command (which re-enters the scan), then execute the
// batch in declaration order.
func (a *App) runChain(ctx context.Context, d *dispatch.Dispatcher, cmds []command.Command) {
	base := make([]command.Command, len(cmds))
	copy(base, cmds)
	reader := bufio.NewReader(os.Stdin)

	for {
		existing, err := a.eventsForChain(ctx, base)
		if err != nil {
			printError(err.Error())
			return
		}
		res := chain.Run(base, existing, a.prefs, time.Now())
		printChainPreview(res)

		switch promptChainAction(reader) {
		case chainActionRun:
			a.executeChain(ctx, d, res)
			return
		case chainActionEdit:
			editChainCommand(reader, base)
		default:
			printInfo("Cancelled.")
			return
		}
	}
}

// eventsForChain loads every stored event the batch could collide with:
// the week the solver searches by default, widened to cover any explicit
// command date outside it.
func (a *App) eventsForChain(ctx context.Context, cmds []command.Command) ([]event.Event, error) {
	week := slot.WeekDates(time.Now())
	start, end := week[0], week[6]
	for _, c := range cmds {
		if d, ok := c.Date(); ok {
			if d < start {
				start = d
			}
			if d > end {
				end = d
			}
		}
	}
	return a.store.ListByRange(ctx, start, end)
}

func printChainPreview(res chain.Result) {
	conflicted := make(map[int]bool, len(res.Conflicts))
	for _, i := range res.Conflicts {
		conflicted[i] = true
	}
	failed := make(map[int]string, len(res.Failures))
	for _, f := range res.Failures {
		failed[f.Index] = f.Reason
	}

	colorHeader.Println("\n  Planned commands")
	for i, c := range res.Commands {
		fmt.Printf("    %d. %s", i+1, describeChainCommand(c))
		if conflicted[i] {
			colorError.Print("  ← conflicts with another command")
		}
		if reason, ok := failed[i]; ok {
			colorError.Printf("  ← will be skipped: %s", reason)
		}
		fmt.Println()
	}
	fmt.Println()
}

func describeChainCommand(c command.Command) string {
	if c.Intent != command.Schedule {
		return fmt.Sprintf("%s %s", strings.ToLower(string(c.Intent)), c.Title())
	}
	date := "today"
	if d, ok := c.Date(); ok {
		date = d
	}
	at := "(solver picks the time)"
	if c.Time != "" {
		at = "at " + c.Time
	}
	dur := ""
	if c.Duration > 0 {
		dur = fmt.Sprintf(" (%d min)", c.Duration)
	}
	return fmt.Sprintf("schedule '%s' on %s %s%s", c.Title(), date, at, dur)
}

type chainAction int

const (
	chainActionCancel chainAction = iota
	chainActionRun
	chainActionEdit
)

func promptChainAction(reader *bufio.Reader) chainAction {
	fmt.Println("    1. Run them")
	fmt.Println("    2. Edit a command")
	fmt.Println("    3. Cancel")
	fmt.Print("  Choose [1-3]: ")
	line, _ := reader.ReadString('\n')
	switch strings.TrimSpace(line) {
	case "1":
		return chainActionRun
	case "2":
		return chainActionEdit
	default:
		return chainActionCancel
	}
}

// editChainCommand mutates one command of the original batch; the
// caller re-runs the coordinator afterwards so the edit is re-checked
// for conflicts and later commands are re-solved around it.
func editChainCommand(reader *bufio.Reader, base []command.Command) {
	fmt.Print("  Which command? ")
	line, _ := reader.ReadString('\n')
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(base) {
		printError("No such command.")
		return
	}
	c := &base[n-1]

	if t := promptValue(reader, "Time (HH:MM, '-' to let the solver pick)", c.Time); t != c.Time {
		if t == "-" {
			c.Time = ""
		} else {
			c.Time = t
		}
	}
	date := ""
	if d, ok := c.Date(); ok {
		date = d
	}
	if d := promptValue(reader, "Date (YYYY-MM-DD)", date); d != date && d != "" {
		c.Dates = []string{d}
	}
	durText := ""
	if c.Duration > 0 {
		durText = strconv.Itoa(c.Duration)
	}
	if dur := promptValue(reader, "Duration (minutes)", durText); dur != durText && dur != "" {
		if m, err := strconv.Atoi(dur); err == nil && m > 0 {
			c.Duration = m
		}
	}
}

// executeChain runs the batch handlers sequentially; pre-solve failures
// are skipped, and an execution error offers skip-or-abort. Commands
// already committed stay committed on abort.
func (a *App) executeChain(ctx context.Context, d *dispatch.Dispatcher, res chain.Result) {
	failed := make(map[int]string, len(res.Failures))
	for _, f := range res.Failures {
		failed[f.Index] = f.Reason
	}

	for i, c := range res.Commands {
		if reason, ok := failed[i]; ok {
			printInfo(fmt.Sprintf("Skipping #%d (%s): %s", i+1, c.Title(), reason))
			continue
		}
		r := d.Dispatch(ctx, c)
		printResult(r)
		if r.Err != nil && i < len(res.Commands)-1 {
			if !promptYesNo("Continue with the remaining commands?") {
				printInfo("Stopped; earlier commands remain applied.")
				return
			}
		}
	}
}
