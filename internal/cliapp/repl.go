package cliapp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/nlparser"
)

var bannerStyle = color.New(color.FgCyan, color.Bold)

// runREPL is the conversational loop: read a line, parse it into a
// Command, dispatch it, print the result, repeat.
func (a *App) runREPL() error {
	bannerStyle.Println("chrono — a natural-language calendar assistant")
	fmt.Println("Type 'help' for examples, 'quit' to exit.")
	fmt.Println()

	pipeline := a.pipeline()
	d := a.dispatcher()
	ctx := context.Background()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil // EOF (e.g. piped input or Ctrl-D) ends the session cleanly
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye.")
			return nil
		case "preferences", "prefs", "settings":
			printPreferences(a.prefs)
			continue
		case "setup", "enable ollama":
			a.enableSmartParsing()
			continue
		case "login", "logout":
			printInfo("The local calendar store needs no sign-in.")
			continue
		}

		events, err := eventContextForToday(ctx, a)
		if err != nil {
			printError(err.Error())
			continue
		}

		cmds := pipeline.ParseChain(ctx, line, events)
		if len(cmds) > 1 {
			a.runChain(ctx, d, cmds)
			continue
		}

		cmd := cmds[0]
		if cmd.Intent == command.Unknown {
			choice := guidedFallback()
			if choice == "" {
				printInfo("Try rephrasing, or type 'help' for examples.")
				continue
			}
			cmd.Intent = choice
		}

		res := d.Dispatch(ctx, cmd)
		printResult(res)
	}
}

// enableSmartParsing flips the nl_parser_enabled preference on and
// persists it, so the pipeline starts preferring the NL Parser on the
// next input line.
func (a *App) enableSmartParsing() {
	if a.prefs.NLParserEnabled {
		printInfo("Smart parsing is already enabled.")
		return
	}
	a.prefs.NLParserEnabled = true
	if err := a.prefs.Save(a.cfg.Storage.PreferencesPath); err != nil {
		printError("Saving preferences: " + err.Error())
		return
	}
	printSuccess("Smart parsing enabled. Configure the provider and model in the config file.")
}

func eventContextForToday(ctx context.Context, a *App) ([]nlparser.EventContext, error) {
	events, err := a.store.ListByDate(ctx, time.Now().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	out := make([]nlparser.EventContext, len(events))
	for i, e := range events {
		out[i] = nlparser.EventContext{Title: e.Title, Date: e.Date, Time: e.Time, Duration: e.Duration}
	}
	return out, nil
}

// guidedFallback offers a numbered-choice recovery when
// the parser can't classify input at all.
func guidedFallback() command.Intent {
	fmt.Println("\n  I didn't fully understand that. Did you mean to:")
	fmt.Println("    1. Schedule an event")
	fmt.Println("    2. List events")
	fmt.Println("    3. Find free slots")
	fmt.Println("    4. Something else (try simpler phrasing)")
	fmt.Print("  Choose [1-4]: ")

	reader := bufio.NewReader(os.Stdin)
	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "1":
		return command.Schedule
	case "2":
		return command.List
	case "3":
		return command.FindFree
	default:
		return ""
	}
}
