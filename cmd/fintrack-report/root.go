package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

var (
	flagUser string
	flagNow  string
	flagJSON bool
)

var rootCmd = &cobra.Command{
	Use:           "fintrack-report",
	Short:         "Personal finance report",
	Long:          "Compute the analytics report for one user from the configured ledger backend.",
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User ID (default DEFAULT_USER_ID)")
	rootCmd.PersistentFlags().StringVar(&flagNow, "now", "", "Reference instant, RFC3339 or YYYY-MM-DD (default current time)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print the report as JSON")
}

// loadReport is the shared path used by all commands.
func loadReport(ctx context.Context) (core.Report, error) {
	now, err := parseNow(flagNow, time.Now())
	if err != nil {
		return core.Report{}, err
	}

	cli.LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return core.Report{}, fmt.Errorf("invalid configuration: %w", err)
	}

	// Diagnostics go to stderr so stdout stays parseable.
	lc := log.ConfigFromEnv("warn", cfg.LogFormat, log.ComponentApp)
	lc.Output = os.Stderr
	logger := log.New(lc)

	// Reports are one-shot here, change notifications are not needed.
	cfg.AMQPURL = ""
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		return core.Report{}, err
	}
	defer func() { _ = app.Close() }()

	user := flagUser
	if user == "" {
		user = cfg.DefaultUserID
	}
	return app.Analytics.ReportAt(ctx, user, now)
}

// parseNow accepts an RFC3339 instant or a calendar date, read as local noon.
func parseNow(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: want RFC3339 or YYYY-MM-DD", s)
	}
	return d.Add(12 * time.Hour), nil
}
