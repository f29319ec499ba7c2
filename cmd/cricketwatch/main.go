// Command cricketwatch finds cricket markets on Polymarket, filters them by
// an optional search term, and either prints summaries (discover), polls
// high-probability markets until they resolve (monitor), or interactively
// shows market details and order books (inspect).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cricsage/cricketwatch/internal/app"
	"github.com/cricsage/cricketwatch/internal/config"
	"github.com/cricsage/cricketwatch/internal/crypto"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	search := flag.String("search", "", "filter markets by team or match (e.g. \"Mumbai vs Chennai\")")
	mode := flag.String("mode", "", "operating mode: discover, monitor, or inspect (overrides config)")
	encryptKey := flag.String("encrypt-key", "", "encrypt the configured wallet key to this path and exit")
	flag.Parse()

	// Bootstrap logger before config is available.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	defer func() {
		if r := recover(); r != nil {
			app.RecoverPanic(slog.Default(), r)
			os.Exit(2)
		}
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	if *mode != "" {
		cfg.Mode = *mode
	}

	if *encryptKey != "" {
		if err := crypto.WriteEncryptedKey(*encryptKey, cfg.Wallet.PrivateKey, cfg.Wallet.KeyPassword); err != nil {
			logger.Error("failed to encrypt wallet key", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("encrypted wallet key written", slog.String("path", *encryptKey))
		return
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Logs go to stdout and, when configured, are appended to the log file
	// so runs accumulate a history.
	logOut := io.Writer(os.Stdout)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open log file",
				slog.String("path", cfg.LogFile),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		defer f.Close()
		logOut = io.MultiWriter(os.Stdout, f)
	}
	logger = slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("cricketwatch starting",
		slog.String("mode", cfg.Mode),
		slog.String("config", *configPath),
	)

	application := app.New(cfg, *search, logger)
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		// Cancellation surfaces wrapped by the mode handlers.
		if errors.Is(err, context.Canceled) {
			logger.Info("application shut down gracefully")
		} else {
			logger.Error("application exited with error",
				slog.String("error", err.Error()),
			)
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Info("cricketwatch stopped")
}
