package cliapp

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	choiceTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	choiceCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	choiceInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	choiceHelpStyle     = lipgloss.NewStyle().Faint(true)
)

// choiceModel is a minimal bubbletea cursor-list for the dispatcher's
// confirmation and "what next" menus.
type choiceModel struct {
	prompt   string
	options  []string
	cursor   int
	selected int // -1 until Enter, -2 if aborted with 'q'/Esc
}

func newChoiceModel(prompt string, options []string) choiceModel {
	return choiceModel{prompt: prompt, options: options, selected: -1}
}

func (m choiceModel) Init() tea.Cmd { return nil }

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.selected = m.cursor
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.selected = -2
		return m, tea.Quit
	}
	return m, nil
}

func (m choiceModel) View() string {
	s := choiceTitleStyle.Render(m.prompt) + "\n\n"
	for i, opt := range m.options {
		cursor := "  "
		style := choiceInactiveStyle
		if i == m.cursor {
			cursor = choiceCursorStyle.Render("> ")
			style = choiceCursorStyle
		}
		s += fmt.Sprintf("%s%s\n", cursor, style.Render(opt))
	}
	s += "\n" + choiceHelpStyle.Render("↑/↓ to move, enter to select, esc to cancel")
	return s
}

// runChoice drives a choiceModel to completion and returns the chosen
// index, or -1 if the user aborted.
func runChoice(prompt string, options []string) int {
	m, err := tea.NewProgram(newChoiceModel(prompt, options)).Run()
	if err != nil {
		return -1
	}
	result := m.(choiceModel)
	if result.selected < 0 {
		return -1
	}
	return result.selected
}
