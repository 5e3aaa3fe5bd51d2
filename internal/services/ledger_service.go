// Package services orchestrates ledger writes, change notifications and
// report computation.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// ChangePublisher announces ledger changes to other processes.
type ChangePublisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// Invalidator drops derived state for a user after a change.
type Invalidator interface {
	Invalidate(userID string)
}

// TransactionFilter narrows a transaction listing. Zero values match everything.
type TransactionFilter struct {
	Kind  core.Kind
	Query string
}

// LedgerService validates and writes transactions and categories, then
// notifies interested parties. Publishing is best effort: the write has
// already succeeded when it runs.
type LedgerService struct {
	store       ledger.Store
	publisher   ChangePublisher
	invalidator Invalidator
	now         func() time.Time
	logger      *slog.Logger
}

// NewLedgerService wires a store with optional publisher and invalidator.
func NewLedgerService(store ledger.Store, publisher ChangePublisher, invalidator Invalidator, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		store:       store,
		publisher:   publisher,
		invalidator: invalidator,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID string, f TransactionFilter) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	var preds []analytics.Predicate
	if f.Kind != "" {
		preds = append(preds, analytics.ByKind(f.Kind))
	}
	if f.Query != "" {
		preds = append(preds, analytics.MatchesDescription(f.Query))
	}
	if len(preds) == 0 {
		return txs, nil
	}
	return analytics.Filter(txs, preds...), nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, userID, id)
}

// CreateTransaction assigns an ID and creation time and stores tx.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	tx.CreatedAt = s.now().UTC()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.changed(ctx, created.UserID, amqp.EntityTransaction, amqp.OperationCreate, created.ID)
	return created, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	updated, err := s.store.UpdateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.changed(ctx, updated.UserID, amqp.EntityTransaction, amqp.OperationUpdate, updated.ID)
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.changed(ctx, userID, amqp.EntityTransaction, amqp.OperationDelete, id)
	return nil
}

func (s *LedgerService) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *LedgerService) GetCategory(ctx context.Context, userID, id string) (core.Category, error) {
	return s.store.GetCategory(ctx, userID, id)
}

func (s *LedgerService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = s.now().UTC()
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.changed(ctx, created.UserID, amqp.EntityCategory, amqp.OperationCreate, created.ID)
	return created, nil
}

func (s *LedgerService) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	updated, err := s.store.UpdateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	s.changed(ctx, updated.UserID, amqp.EntityCategory, amqp.OperationUpdate, updated.ID)
	return updated, nil
}

// DeleteCategory removes the category; its transactions become uncategorized.
func (s *LedgerService) DeleteCategory(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.changed(ctx, userID, amqp.EntityCategory, amqp.OperationDelete, id)
	return nil
}

func (s *LedgerService) changed(ctx context.Context, userID, entity, operation, id string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
	if s.publisher == nil {
		return
	}
	msg := amqp.NewChangeMessage(userID, entity, operation, id)
	if err := s.publisher.PublishChange(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish change message",
			"user_id", userID,
			"entity", entity,
			"operation", operation,
			"error", err)
	}
}

// Close closes the underlying store
func (s *LedgerService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close ledger store: %w", err)
	}
	return nil
}
