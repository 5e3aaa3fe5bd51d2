package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.AMQPEnabled() {
		logger.Error("fintrack-worker requires AMQP_URL")
		os.Exit(1)
	}

	app, err := cli.NewApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	if app.Backend.Changes == nil {
		logger.Error("AMQP broker unreachable", "exchange", cfg.AMQPExchange)
		_ = app.Close()
		os.Exit(1)
	}

	exporter, err := app.Exporter(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		_ = app.Close()
		os.Exit(1)
	}
	if exporter == nil {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	changes := worker.NewChangeWorker(app.Analytics, exporter, logger, cfg.DefaultUserID)
	scheduler := worker.NewScheduler(changes, cfg.ExportInterval)

	ctx, stop, stopped := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if scheduler.IsRunning() {
			if err := scheduler.Stop(shutdownCtx); err != nil {
				logger.Warn("Scheduler stop timed out", "error", err)
			}
		}
		if err := app.Close(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	if exporter != nil && cfg.ExportInterval > 0 {
		if err := scheduler.Start(ctx); err != nil {
			logger.Error("Failed to start export scheduler", "error", err)
		}
	}

	if err := app.Backend.Changes.ConsumeChanges(ctx, changes.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Change consumption failed", "error", err)
	}
	stop()

	<-stopped
}
