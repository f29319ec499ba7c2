// Package app provides the top-level application lifecycle for cricketwatch.
// It wires the Gamma and CLOB clients, notification channels, the optional
// alert cache, and the discovery and monitor services, then runs the
// configured operating mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/cricsage/cricketwatch/internal/config"
)

// App is the root application object. It owns the configuration, the search
// term from the command line, the logger, and a list of cleanup functions
// called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	search  string
	logger  *slog.Logger
	closers []func()
}

// New creates a new App. search is the optional team/match filter term from
// the command line; empty means no filtering.
func New(cfg *config.Config, search string, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		search: search,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, selects the operating mode, and runs it to
// completion. On return the registered cleanup functions still need Close.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.String("log_level", a.cfg.LogLevel),
		slog.String("search", a.search),
	)

	deps, cleanup, err := Wire(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	switch strings.ToLower(a.cfg.Mode) {
	case "discover":
		return a.DiscoverMode(ctx, deps)
	case "monitor":
		return a.MonitorMode(ctx, deps)
	case "inspect":
		return a.InspectMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close tears down all resources in reverse registration order. Safe to call
// multiple times.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// RecoverPanic logs a recovered panic value with its stack trace. Call it
// from a deferred recover in main so a programming error exits through the
// logger instead of a raw crash.
func RecoverPanic(logger *slog.Logger, r any) {
	logger.Error("panic recovered",
		slog.Any("panic", r),
		slog.String("stack", string(debug.Stack())),
	)
}
