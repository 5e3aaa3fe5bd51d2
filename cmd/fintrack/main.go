package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	app, err := cli.NewApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(app.Ledger, app.Analytics, apphttp.Options{
		Addr:               ":" + cfg.Port,
		DefaultUserID:      cfg.DefaultUserID,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Pinger:             app.Backend.Pinger,
		CacheSize:          app.Analytics.CachedReports,
		Logger:             logger,
	})

	ctx, _, stopped := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := app.Close(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	// Reports cached by other processes sharing the backend go stale on their writes.
	if app.Backend.Changes != nil {
		go func() {
			if err := app.Backend.Changes.ConsumeChanges(ctx, app.Analytics.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Change consumption stopped", "error", err)
			}
		}()
	}

	logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-stopped
	logger.Info("Server stopped gracefully")
}
