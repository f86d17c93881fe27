// cmd/notifier/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kalidyasin/github-commit-notifier/internal/api"
	"github.com/kalidyasin/github-commit-notifier/internal/config"
	"github.com/kalidyasin/github-commit-notifier/internal/github"
	"github.com/kalidyasin/github-commit-notifier/internal/notify"
	"github.com/kalidyasin/github-commit-notifier/internal/poller"
	"github.com/kalidyasin/github-commit-notifier/internal/state"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully", "orgs", cfg.Orgs, "interval", cfg.Interval.String())

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize application components. Terminal notifications go to
	// stdout; logs stay on stderr so the two streams don't interleave.
	ghClient := github.NewClient(cfg.GithubToken, logger)
	tracker := state.NewTracker()
	notifier := notify.NewNotifier(os.Stdout, notify.BeeepDesktop{}, logger)
	appPoller := poller.NewPoller(ghClient, tracker, notifier, logger, cfg.Orgs, cfg.Interval)

	// 5. Optionally serve the status API
	var server *http.Server
	if cfg.StatusAddr != "" {
		server = &http.Server{
			Addr:    cfg.StatusAddr,
			Handler: api.NewRouter(tracker, notifier, logger),
		}
		go func() {
			logger.Info("Status API listening", "addr", cfg.StatusAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Status API server error", "error", err)
			}
		}()
	}

	// 6. Start the poller in a separate goroutine
	go appPoller.Start(ctx)

	// 7. Wait for shutdown signal
	logger.Info("Application started. Waiting for shutdown signal...")
	<-ctx.Done()
	logger.Info("Shutdown signal received. Exiting.")

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Status API shutdown error", "error", err)
		}
	}

	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
