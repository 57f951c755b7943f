// Package cliapp is the chrono CLI shell: a cobra root command for
// one-shot invocations plus a REPL for conversational use, wiring
// internal/config, internal/calstore, internal/preferences, and
// internal/dispatch together behind one cobra entry point.
package cliapp

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dpinto-lab/chrono/internal/calstore"
	"github.com/dpinto-lab/chrono/internal/config"
	"github.com/dpinto-lab/chrono/internal/dispatch"
	"github.com/dpinto-lab/chrono/internal/intent"
	"github.com/dpinto-lab/chrono/internal/nlparser"
	"github.com/dpinto-lab/chrono/internal/preferences"
	"github.com/dpinto-lab/chrono/internal/session"
)

// Version is set at build time.
var Version = "dev"

// Commit is set at build time.
var Commit = "none"

// App holds the CLI application state.
type App struct {
	cfg    *config.Config
	store  calstore.EventStore
	prefs  *preferences.Preferences
	memory *session.Memory
	root   *cobra.Command
}

// NewApp creates the CLI application from an already-loaded config.
func NewApp(cfg *config.Config) *App {
	a := &App{cfg: cfg, memory: session.New()}

	a.root = &cobra.Command{
		Use:   "chrono",
		Short: "A natural-language calendar assistant",
		Long: `Chrono schedules, lists, and rearranges calendar events from
plain-English commands, with a constraint-based scheduler that honors
blocked windows and a soft time-of-day preference.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			return a.runREPL()
		},
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.preferencesCmd())
	a.root.AddCommand(a.loginCmd())
	a.root.AddCommand(a.setupCmd())

	return a
}

// loginCmd verifies the calendar backend is reachable. The bundled
// SQLite store needs no credentials, so this amounts to opening it.
func (a *App) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Connect to the calendar backend",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			printSuccess("Calendar store ready at " + a.cfg.Storage.DBPath)
			return nil
		},
	}
}

// setupCmd enables the NL parser and checks the configured backend is
// reachable, so the first interactive session starts with smart parsing.
func (a *App) setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Enable smart parsing and check the language-model backend",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			a.enableSmartParsing()
			if a.cfg.LLM.Provider == "ollama" {
				if nlparser.Ping(a.cfg.LLM.BaseURL) {
					printSuccess("Ollama is reachable.")
				} else {
					printInfo("Ollama is not responding at " + a.cfg.LLM.BaseURL + "; the rule parser will be used until it is.")
				}
			}
			return nil
		},
	}
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("chrono %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases any resources held by the app.
func (a *App) Close() error {
	if s, ok := a.store.(*calstore.SQLite); ok {
		return s.Close()
	}
	return nil
}

func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	dbDir := filepath.Dir(a.cfg.Storage.DBPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	store, err := calstore.NewSQLite(a.cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening calendar database: %w", err)
	}
	a.store = store

	prefs, err := preferences.Load(a.cfg.Storage.PreferencesPath)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}
	a.prefs = prefs

	return nil
}

func (a *App) dispatcher() *dispatch.Dispatcher {
	return &dispatch.Dispatcher{
		Store:           a.store,
		Prefs:           a.prefs,
		Memory:          a.memory,
		Prompt:          newTermPrompter(),
		DefaultDuration: a.cfg.Schedule.DefaultDurationMinutes,
	}
}

func (a *App) pipeline() *intent.Pipeline {
	nl := a.buildNLParser()
	enabled := func() bool { return a.prefs.NLParserEnabled }
	return intent.New(nl, enabled, time.Now)
}

// buildNLParser constructs the configured provider's Parser, wrapped in
// a circuit breaker so repeated backend failures fall back to the rule
// parser for a cooldown period instead of retrying every command.
func (a *App) buildNLParser() nlparser.Parser {
	var inner nlparser.Parser
	switch a.cfg.LLM.Provider {
	case "ollama":
		p, err := nlparser.NewOllamaParser(a.cfg.LLM.Model, a.cfg.LLM.BaseURL)
		if err != nil {
			return nil
		}
		inner = p
	case "openai":
		inner = nlparser.NewOpenAIParser(a.cfg.LLM.Model, os.Getenv("OPENAI_API_KEY"), a.cfg.LLM.BaseURL)
	default:
		return nil
	}
	cooldown := time.Duration(a.cfg.LLM.BreakerCooldownS) * time.Second
	return nlparser.NewBreakerParser(inner, cooldown)
}
