package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/honeydo/internal/config"
	"github.com/tgienger/honeydo/internal/db"
	"github.com/tgienger/honeydo/internal/repository"
	"github.com/tgienger/honeydo/internal/search"
	"github.com/tgienger/honeydo/internal/storage/memory"
	"github.com/tgienger/honeydo/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// store is everything the app needs from a storage backend
type store interface {
	repository.Store
	search.Settings
	ui.Settings
}

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("honeydo %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating log directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	var st store
	switch cfg.Storage {
	case config.StorageMemory:
		st = memory.NewMemoryStorage()
	default:
		database, err := db.Open(cfg.DBPath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
			os.Exit(1)
		}
		defer database.Close()
		st = database
	}
	logger.Info("starting honeydo", "version", version, "storage", cfg.Storage, "db", cfg.DBPath)

	events := ui.NewEvents()
	mgr := repository.New(st,
		repository.WithLogger(logger),
		repository.WithWeekStart(cfg.WeekStart),
		repository.OnStoreError(events.PublishError),
	)
	searcher := search.New(mgr, st,
		search.WithDebounce(cfg.SearchDebounce),
		search.WithWeekStart(cfg.WeekStart),
		search.WithLogger(logger),
		search.OnUpdate(events.PublishSnapshot),
	)

	// Create and run the application
	app := ui.NewApp(mgr, searcher, st, events)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
