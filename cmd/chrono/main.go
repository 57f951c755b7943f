package main

import (
	"fmt"
	"os"

	"github.com/dpinto-lab/chrono/internal/cliapp"
	"github.com/dpinto-lab/chrono/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app := cliapp.NewApp(cfg)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
