// Package worker reacts to ledger change notifications and keeps exported
// reports up to date.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
)

// Reporter is the analytics side the worker drives.
type Reporter interface {
	Invalidate(userID string)
	Report(ctx context.Context, userID string) (core.Report, error)
}

// ChangeWorker invalidates, recomputes and optionally exports a user's report
// whenever their ledger changes.
type ChangeWorker struct {
	reports  Reporter
	exporter sheets.Exporter
	logger   *log.Logger
	events   *log.StructuredLogger

	mu    sync.Mutex
	users map[string]struct{}
}

// NewChangeWorker creates a worker. exporter may be nil, in which case
// reports are only recomputed. users seeds the set returned by Users.
func NewChangeWorker(reports Reporter, exporter sheets.Exporter, logger *log.Logger, users ...string) *ChangeWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	w := &ChangeWorker{
		reports:  reports,
		exporter: exporter,
		logger:   logger,
		events:   log.NewStructuredLogger(logger),
		users:    make(map[string]struct{}),
	}
	for _, u := range users {
		if u != "" {
			w.users[u] = struct{}{}
		}
	}
	return w
}

// HandleChange processes one change notification from AMQP.
func (w *ChangeWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	w.events.LogChangeReceived(ctx, msg.UserID, msg.Entity, msg.Operation, msg.EntityID)
	w.track(msg.UserID)

	w.reports.Invalidate(msg.UserID)
	return w.refresh(ctx, msg.UserID)
}

// ExportAll refreshes the given users in order. A failure for one user does
// not stop the others.
func (w *ChangeWorker) ExportAll(ctx context.Context, users []string) error {
	var errs []error
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.refresh(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}

	w.logger.InfoContext(ctx, "Scheduled export completed",
		log.FieldComponent, log.ComponentWorker,
		"users", len(users),
		"errors", len(errs))
	return errors.Join(errs...)
}

// Users returns the seeded and notified user ids, sorted.
func (w *ChangeWorker) Users() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.users))
	for u := range w.users {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func (w *ChangeWorker) track(userID string) {
	w.mu.Lock()
	w.users[userID] = struct{}{}
	w.mu.Unlock()
}

func (w *ChangeWorker) refresh(ctx context.Context, userID string) error {
	report, err := w.reports.Report(ctx, userID)
	if err != nil {
		w.events.LogError(ctx, "Failed to compute report", err, log.ComponentWorker, log.OpReport,
			log.NewFields().WithUserID(userID))
		return fmt.Errorf("compute report for %s: %w", userID, err)
	}

	if w.exporter == nil {
		return nil
	}
	if err := w.exporter.ExportReport(ctx, userID, report); err != nil {
		w.events.LogError(ctx, "Failed to export report", err, log.ComponentSheets, log.OpExport,
			log.NewFields().WithUserID(userID))
		return fmt.Errorf("export report for %s: %w", userID, err)
	}
	return nil
}
