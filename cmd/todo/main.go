// cmd/todo/main.go
//
// This is the entry point for the to-do list.
// Run `todo` from any directory: the task list lives in tasks.txt there.
//
// Flow:
// 1. Make sure .todo/ exists (config + logs)
// 2. Load the config and open the logs
// 3. Launch the TUI, which loads tasks.txt

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/todo/internal/config"
	"github.com/kingrea/todo/internal/logbook"
	"github.com/kingrea/todo/internal/logging"
	"github.com/kingrea/todo/internal/store"
	"github.com/kingrea/todo/internal/tui"
)

func main() {
	// Get the current working directory - tasks.txt is resolved against it
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .todo directory: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.New(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogPath(), cfg.LogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	logger.Info("session opened", "dir", cwd, "tasks", cfg.TasksPath())

	journal, err := logbook.New(cfg.JournalPath())
	if err != nil {
		logger.Warn("activity journal unavailable", "err", err)
		journal = nil
	}

	app := tui.NewApp(
		store.New(cfg.TasksPath()),
		tui.WithLogger(logger),
		tui.WithLogbook(journal),
		tui.WithDefaultPriority(cfg.DefaultPriority()),
		tui.WithJournal(cfg.ShowJournal(), cfg.JournalLines()),
	)

	// Run blocks until the user quits
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited", "err", err)
		logger.Close()
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	logger.Info("session closed")
	logger.Close()
}
