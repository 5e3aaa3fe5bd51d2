// Package ledger defines the storage ports for transactions and categories.
package ledger

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters. Every call is scoped to one user; a record
// owned by another user is reported as core.ErrNotFound.
type (
	TransactionStore interface {
		// ListTransactions returns the user's transactions, newest date first.
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
		// CreateTransaction stores tx, assigning ID and CreatedAt when unset.
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id string) error
	}

	CategoryStore interface {
		// ListCategories returns the user's categories in creation order.
		ListCategories(ctx context.Context, userID string) ([]core.Category, error)
		GetCategory(ctx context.Context, userID, id string) (core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
		// DeleteCategory removes the category and leaves its transactions uncategorized.
		DeleteCategory(ctx context.Context, userID, id string) error
	}

	// Store is the full ledger backend.
	Store interface {
		TransactionStore
		CategoryStore
		Close() error
	}

	// Pinger is implemented by stores that can report their health.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
