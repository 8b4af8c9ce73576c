// Package internal provides the App struct that wires pacer's services
// together and initializes the CLI layer.
package internal

import (
	"fmt"

	"github.com/valter-silva-au/pacer/internal/cli"
	"github.com/valter-silva-au/pacer/internal/config"
	"github.com/valter-silva-au/pacer/internal/observability"
)

// App holds the service dependencies for a pacer invocation.
type App struct {
	// Configuration
	Config *config.Config

	// Observability
	EventLog   observability.EventLog
	Summarizer observability.Summarizer
}

// NewApp loads configuration, opens the event log, and wires the CLI
// package-level services.
func NewApp() (*App, error) {
	app := &App{}

	// --- Configuration ---
	cfgMgr := config.NewManager()
	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfgMgr.Validate(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Observability ---
	if cfg.EventLogPath != "" {
		app.EventLog, err = observability.NewJSONLEventLog(cfg.EventLogPath)
		if err != nil {
			// Non-fatal: disable event logging if the log can't be created.
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		app.Summarizer = observability.NewSummarizer(app.EventLog)
	}

	// --- Wire CLI package-level variables ---
	cli.AppConfig = app.Config
	cli.EventLog = app.EventLog
	cli.Summarizer = app.Summarizer

	return app, nil
}

// Close releases resources held by the App, such as the event log file
// handle. It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}
