package cliapp

import (
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// isInteractiveTerminal reports whether stdin is a real terminal;
// interactive widgets are skipped when it is not.
func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// textInputModel wraps a single bubbles/textinput field for the
// dispatcher.s manual-time entry.
type textInputModel struct {
	prompt string
	input  textinput.Model
	done   bool
	value  string
	ok     bool
}

func newTextInputModel(prompt string) textInputModel {
	ti := textinput.New()
	ti.Placeholder = "HH:MM"
	ti.Focus()
	ti.CharLimit = 5
	return textInputModel{prompt: prompt, input: ti}
}

func (m textInputModel) Init() tea.Cmd { return textinput.Blink }

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "enter":
			m.value, m.ok, m.done = m.input.Value(), true, true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textInputModel) View() string {
	return choiceTitleStyle.Render(m.prompt) + "\n\n" + m.input.View() + "\n\n" + choiceHelpStyle.Render("enter to confirm, esc to cancel")
}

func runTextInput(prompt string) (string, bool) {
	m, err := tea.NewProgram(newTextInputModel(prompt)).Run()
	if err != nil {
		return "", false
	}
	result := m.(textInputModel)
	return result.value, result.ok
}
