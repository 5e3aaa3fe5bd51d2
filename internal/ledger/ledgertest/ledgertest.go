// Package ledgertest holds behavior checks shared by every ledger.Store.
package ledgertest

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Run exercises a fresh store returned by newStore for each subtest.
func Run(t *testing.T, newStore func(t *testing.T) ledger.Store) {
	t.Run("category lifecycle", func(t *testing.T) { testCategoryLifecycle(t, newStore(t)) })
	t.Run("transaction lifecycle", func(t *testing.T) { testTransactionLifecycle(t, newStore(t)) })
	t.Run("transaction ordering", func(t *testing.T) { testTransactionOrdering(t, newStore(t)) })
	t.Run("user isolation", func(t *testing.T) { testUserIsolation(t, newStore(t)) })
	t.Run("delete category uncategorizes", func(t *testing.T) { testDeleteCategory(t, newStore(t)) })
	t.Run("rejects invalid records", func(t *testing.T) { testRejectsInvalid(t, newStore(t)) })
}

func mustCategory(t *testing.T, s ledger.Store, userID, name string) core.Category {
	t.Helper()
	c, err := s.CreateCategory(context.Background(), core.Category{
		UserID: userID,
		Name:   name,
		Color:  "#3b82f6",
		Budget: core.Money{Cents: 10000},
	})
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func mustTransaction(t *testing.T, s ledger.Store, tx core.Transaction) core.Transaction {
	t.Helper()
	created, err := s.CreateTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return created
}

func expense(userID string, cents int64, d core.Date, categoryID string) core.Transaction {
	return core.Transaction{
		UserID:      userID,
		CategoryID:  core.Ref(categoryID),
		Kind:        core.Expense,
		Amount:      core.Money{Cents: cents},
		Date:        d,
		Description: "expense",
	}
}

func testCategoryLifecycle(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	first := mustCategory(t, s, "u1", "Groceries")
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", first)
	}
	second := mustCategory(t, s, "u1", "Housing")

	list, err := s.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("expected creation order, got %+v", list)
	}

	first.Name = "Food"
	first.Budget = core.Money{Cents: 25050}
	updated, err := s.UpdateCategory(ctx, first)
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	got, err := s.GetCategory(ctx, "u1", first.ID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if got.Name != "Food" || got.Budget.Cents != 25050 || !got.CreatedAt.Equal(updated.CreatedAt) {
		t.Fatalf("unexpected category after update %+v", got)
	}

	if err := s.DeleteCategory(ctx, "u1", second.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, err := s.GetCategory(ctx, "u1", second.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteCategory(ctx, "u1", second.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func testTransactionLifecycle(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	cat := mustCategory(t, s, "u1", "Groceries")
	tx := mustTransaction(t, s, expense("u1", 1234, core.NewDate(2024, time.March, 5), cat.ID))
	if tx.ID == "" || tx.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", tx)
	}

	got, err := s.GetTransaction(ctx, "u1", tx.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if !got.HasCategory(cat.ID) || got.Amount.Cents != 1234 || got.Date.String() != "2024-03-05" {
		t.Fatalf("unexpected transaction %+v", got)
	}

	got.Kind = core.Income
	got.CategoryID = nil
	got.Description = "refund"
	if _, err := s.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("update transaction: %v", err)
	}
	got, _ = s.GetTransaction(ctx, "u1", tx.ID)
	if got.Kind != core.Income || got.CategoryID != nil || got.Description != "refund" {
		t.Fatalf("unexpected transaction after update %+v", got)
	}

	missing := got
	missing.ID = "missing"
	if _, err := s.UpdateTransaction(ctx, missing); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing, got %v", err)
	}

	if err := s.DeleteTransaction(ctx, "u1", tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if _, err := s.GetTransaction(ctx, "u1", tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func testTransactionOrdering(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	mk := func(d core.Date, created time.Duration) string {
		tx := expense("u1", 100, d, "")
		tx.CreatedAt = base.Add(created)
		return mustTransaction(t, s, tx).ID
	}
	older := mk(core.NewDate(2024, time.February, 1), 0)
	earlySameDay := mk(core.NewDate(2024, time.March, 2), time.Minute)
	lateSameDay := mk(core.NewDate(2024, time.March, 2), time.Hour)

	list, err := s.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	want := []string{lateSameDay, earlySameDay, older}
	if len(list) != len(want) {
		t.Fatalf("expected %d transactions, got %d", len(want), len(list))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, list[i].ID, id)
		}
	}
}

func testUserIsolation(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	cat := mustCategory(t, s, "u1", "Groceries")
	tx := mustTransaction(t, s, expense("u1", 100, core.NewDate(2024, time.March, 1), cat.ID))

	if list, _ := s.ListTransactions(ctx, "u2"); len(list) != 0 {
		t.Fatalf("u2 sees u1 transactions: %+v", list)
	}
	if list, _ := s.ListCategories(ctx, "u2"); len(list) != 0 {
		t.Fatalf("u2 sees u1 categories: %+v", list)
	}
	if _, err := s.GetTransaction(ctx, "u2", tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across users, got %v", err)
	}
	if err := s.DeleteCategory(ctx, "u2", cat.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting across users, got %v", err)
	}
	// u2 cannot reference u1's category
	_, err := s.CreateTransaction(ctx, expense("u2", 100, core.NewDate(2024, time.March, 1), cat.ID))
	var verr *core.ValidationError
	if !errors.As(err, &verr) || verr.Field != "category_id" {
		t.Fatalf("expected category_id validation error, got %v", err)
	}
}

func testDeleteCategory(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	cat := mustCategory(t, s, "u1", "Groceries")
	tx := mustTransaction(t, s, expense("u1", 100, core.NewDate(2024, time.March, 1), cat.ID))

	if err := s.DeleteCategory(ctx, "u1", cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	got, err := s.GetTransaction(ctx, "u1", tx.ID)
	if err != nil {
		t.Fatalf("transaction should survive category delete: %v", err)
	}
	if got.CategoryID != nil {
		t.Fatalf("expected uncategorized transaction, got %v", *got.CategoryID)
	}
}

func testRejectsInvalid(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	bad := expense("u1", -1, core.NewDate(2024, time.March, 1), "")
	if _, err := s.CreateTransaction(ctx, bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	_, err := s.CreateCategory(ctx, core.Category{UserID: "u1", Name: "x", Color: "blue"})
	if !errors.Is(err, core.ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}
