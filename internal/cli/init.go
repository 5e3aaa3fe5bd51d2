// Package cli provides common CLI initialization utilities shared by
// cmd/fintrack, cmd/fintrack-worker and cmd/fintrack-report.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func SetupLogger(component string) *log.Logger {
	logger := log.New(log.ConfigFromEnv(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), component))
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

const cacheCleanupInterval = time.Minute

// App is the wiring every command shares: a ledger backend with its
// analytics and write services.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Backend   *backend.BackendResult
	Cache     *cache.Manager
	Analytics *services.AnalyticsService
	Ledger    *services.LedgerService
}

// NewApp opens the configured backend and builds the services on top of it.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	reports := cache.NewLRUCache[core.Report](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	manager := cache.NewManager(logger.WithComponent(log.ComponentCache))
	manager.Register(reports)
	manager.StartCleanup(cacheCleanupInterval)

	analytics := services.NewAnalyticsService(res.Store, reports, logger)
	ledger := services.NewLedgerService(res.Store, res.Publisher(), analytics, logger.WithComponent(log.ComponentLedger))

	return &App{
		Config:    cfg,
		Logger:    logger,
		Backend:   res,
		Cache:     manager,
		Analytics: analytics,
		Ledger:    ledger,
	}, nil
}

// Exporter builds the Google Sheets exporter, or returns nil when export is
// not configured.
func (a *App) Exporter(ctx context.Context) (sheets.Exporter, error) {
	if !a.Config.ExportEnabled() {
		return nil, nil
	}
	client, err := gsheet.NewClient(ctx, gsheet.Config{
		SpreadsheetID:   a.Config.GoogleSpreadsheetID,
		SheetPrefix:     a.Config.GoogleSheetPrefix,
		CredentialsJSON: a.Config.GoogleServiceAccountJSON,
		CredentialsFile: a.Config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("create sheets exporter: %w", err)
	}
	return client, nil
}

// Close stops cache cleanup and releases the backend.
func (a *App) Close() error {
	a.Cache.Stop()
	return a.Backend.Cleanup()
}

// GracefulShutdown returns a context cancelled on SIGINT, SIGTERM or a call to
// the returned stop function. cleanup then runs with a context bounded by
// timeout; done closes once it returns.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (ctx context.Context, stop context.CancelFunc, done <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, cancel, finished
}
