package cliapp

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dpinto-lab/chrono/internal/dispatch"
	"github.com/dpinto-lab/chrono/internal/preferences"
)

// termPrompter implements dispatch.Prompter over stdin/stdout: a plain
// y/N prompt for Confirm, and bubbletea widgets for the other prompts
// when stdin is a terminal, with plain typed prompts otherwise.
type termPrompter struct {
	reader *bufio.Reader
}

func newTermPrompter() *termPrompter {
	return &termPrompter{reader: bufio.NewReader(os.Stdin)}
}

var _ dispatch.Prompter = (*termPrompter)(nil)

func (p *termPrompter) Confirm(prompt string) bool {
	fmt.Printf("  %s [y/N]: ", prompt)
	line, _ := p.reader.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

var choiceLabels = map[dispatch.Choice]string{
	dispatch.ChoiceFindNextSlot: "Find the next available slot",
	dispatch.ChoiceOverride:     "Schedule it anyway",
	dispatch.ChoiceCancel:       "Cancel",
	dispatch.ChoiceTryNext:      "Try the next suggestion",
	dispatch.ChoiceChangeBias:   "Change time-of-day preference",
	dispatch.ChoiceManualTime:   "Enter a time manually",
}

// Choose drives an arrow-key bubbletea menu over the candidate options;
// a terminal that can't run it (e.g. input piped from a file) falls back
// to reading a plain number from stdin.
func (p *termPrompter) Choose(prompt string, options []dispatch.Choice) dispatch.Choice {
	if !isInteractiveTerminal() {
		return p.chooseByNumber(prompt, options)
	}
	labels := make([]string, len(options))
	for i, opt := range options {
		labels[i] = choiceLabels[opt]
	}
	idx := runChoice(prompt, labels)
	if idx < 0 {
		return dispatch.ChoiceCancel
	}
	return options[idx]
}

func (p *termPrompter) chooseByNumber(prompt string, options []dispatch.Choice) dispatch.Choice {
	fmt.Printf("\n  %s\n", prompt)
	for i, opt := range options {
		fmt.Printf("    %d. %s\n", i+1, choiceLabels[opt])
	}
	fmt.Print("  Choose: ")
	line, _ := p.reader.ReadString('\n')
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(options) {
		return dispatch.ChoiceCancel
	}
	return options[n-1]
}

// ManualTime reads a typed time via a bubbles/textinput field, falling
// back to a plain stdin read when not attached to a terminal.
func (p *termPrompter) ManualTime(prompt string) (string, bool) {
	if isInteractiveTerminal() {
		return runTextInput(prompt)
	}
	fmt.Printf("  %s: ", prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil {
		return "", false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	return line, true
}

var biasLabels = []string{"Morning", "Afternoon", "Evening", "No preference"}
var biasValues = []preferences.TimeBias{preferences.BiasMorning, preferences.BiasAfternoon, preferences.BiasEvening, preferences.BiasNone}

func (p *termPrompter) Bias(prompt string) preferences.TimeBias {
	if isInteractiveTerminal() {
		idx := runChoice(prompt, biasLabels)
		if idx < 0 {
			return preferences.BiasNone
		}
		return biasValues[idx]
	}
	fmt.Printf("\n  %s\n", prompt)
	for i, label := range biasLabels {
		fmt.Printf("    %d. %s\n", i+1, label)
	}
	fmt.Print("  Choose: ")
	line, _ := p.reader.ReadString('\n')
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(biasValues) {
		return preferences.BiasNone
	}
	return biasValues[n-1]
}
