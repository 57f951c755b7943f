package cliapp

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpinto-lab/chrono/internal/preferences"
)

// preferencesCmd implements the "preferences" subcommand: display
// the current blocked windows and default bias, and offer to add a new
// blocked window interactively.
func (a *App) preferencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preferences",
		Short: "View or edit blocked windows and the default time preference",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			printPreferences(a.prefs)

			if !promptYesNo("Add a blocked window?") {
				return nil
			}
			reader := bufio.NewReader(os.Stdin)
			w := preferences.BlockedWindow{
				Label: promptValue(reader, "Label", "Blocked"),
				Days:  promptSlice(reader, "Days (comma-separated, e.g. monday,tuesday)", nil),
				Start: promptValue(reader, "Start (HH:MM)", ""),
				End:   promptValue(reader, "End (HH:MM)", ""),
			}
			if err := a.prefs.AddBlockedWindow(w); err != nil {
				return fmt.Errorf("adding blocked window: %w", err)
			}
			if err := a.prefs.Save(a.cfg.Storage.PreferencesPath); err != nil {
				return fmt.Errorf("saving preferences: %w", err)
			}
			printSuccess("Blocked window added.")
			return nil
		},
	}
}

func printPreferences(p *preferences.Preferences) {
	colorHeader.Println("\n  Preferences")
	fmt.Printf("  Smart parsing: %v\n", p.NLParserEnabled)
	fmt.Printf("  Default time preference: %s\n", orNone(string(p.DefaultTimeBias)))
	if len(p.BlockedWindows) == 0 {
		fmt.Println("  Blocked windows: (none)")
		fmt.Println()
		return
	}
	fmt.Println("  Blocked windows:")
	for i, w := range p.BlockedWindows {
		until := "Always"
		if w.Until != "" {
			until = w.Until
		}
		fmt.Printf("    %d. %-12s %-30s %s-%s (until %s)\n", i+1, w.Label, strings.Join(w.Days, ","), w.Start, w.End, until)
	}
	fmt.Println()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("  %s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptSlice(reader *bufio.Reader, label string, current []string) []string {
	fmt.Printf("  %s [%s]: ", label, strings.Join(current, ", "))
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
