package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger/memory"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*amqp.ChangeMessage
	err  error
}

func (p *recordingPublisher) PublishChange(_ context.Context, msg *amqp.ChangeMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

type recordingInvalidator struct{ users []string }

func (i *recordingInvalidator) Invalidate(userID string) { i.users = append(i.users, userID) }

// countingSource counts list calls and can block until released.
type countingSource struct {
	*memory.Store
	txCalls  atomic.Int32
	catCalls atomic.Int32
	release  chan struct{}
	err      error
}

func (s *countingSource) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	s.txCalls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.Store.ListTransactions(ctx, userID)
}

func (s *countingSource) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	s.catCalls.Add(1)
	return s.Store.ListCategories(ctx, userID)
}

func newLedger(t *testing.T) (*LedgerService, *recordingPublisher, *recordingInvalidator) {
	t.Helper()
	pub := &recordingPublisher{}
	inv := &recordingInvalidator{}
	return NewLedgerService(memory.New(), pub, inv, nil), pub, inv
}

func TestLedgerServiceCreateAssignsIDAndNotifies(t *testing.T) {
	svc, pub, inv := newLedger(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, core.Category{UserID: "u1", Name: "Food", Color: "#10b981"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	tx, err := svc.CreateTransaction(ctx, core.Transaction{
		ID:          "client-chosen",
		UserID:      "u1",
		CategoryID:  core.Ref(cat.ID),
		Kind:        core.Expense,
		Amount:      core.Money{Cents: 1250},
		Date:        core.NewDate(2024, time.March, 3),
		Description: "Groceries",
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if tx.ID == "" || tx.ID == "client-chosen" || tx.CreatedAt.IsZero() {
		t.Fatalf("expected server assigned id and time, got %+v", tx)
	}

	if len(pub.msgs) != 2 {
		t.Fatalf("expected 2 change messages, got %d", len(pub.msgs))
	}
	last := pub.msgs[1]
	if last.UserID != "u1" || last.Entity != amqp.EntityTransaction || last.Operation != amqp.OperationCreate || last.EntityID != tx.ID {
		t.Fatalf("unexpected message %+v", last)
	}
	if len(inv.users) != 2 || inv.users[0] != "u1" {
		t.Fatalf("unexpected invalidations %v", inv.users)
	}
}

func TestLedgerServiceValidationSkipsNotification(t *testing.T) {
	svc, pub, inv := newLedger(t)
	_, err := svc.CreateTransaction(context.Background(), core.Transaction{
		UserID: "u1", Kind: "transfer", Amount: core.Money{Cents: 1},
		Date: core.NewDate(2024, time.March, 3), Description: "x",
	})
	var verr *core.ValidationError
	if !errors.As(err, &verr) || verr.Field != "kind" {
		t.Fatalf("expected kind validation error, got %v", err)
	}
	if len(pub.msgs) != 0 || len(inv.users) != 0 {
		t.Fatal("failed writes must not notify")
	}
}

func TestLedgerServicePublishFailureIsNotFatal(t *testing.T) {
	svc, pub, _ := newLedger(t)
	pub.err = errors.New("broker down")
	_, err := svc.CreateCategory(context.Background(), core.Category{UserID: "u1", Name: "Food", Color: "#10b981"})
	if err != nil {
		t.Fatalf("publish failure should not fail the write: %v", err)
	}
}

func TestLedgerServiceListFilters(t *testing.T) {
	svc, _, _ := newLedger(t)
	ctx := context.Background()
	for _, tx := range []core.Transaction{
		{UserID: "u1", Kind: core.Income, Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 3, 1), Description: "Salary March"},
		{UserID: "u1", Kind: core.Expense, Amount: core.Money{Cents: 50}, Date: core.NewDate(2024, 3, 2), Description: "Coffee"},
		{UserID: "u1", Kind: core.Expense, Amount: core.Money{Cents: 70}, Date: core.NewDate(2024, 3, 3), Description: "coffee beans"},
	} {
		if _, err := svc.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, _ := svc.ListTransactions(ctx, "u1", TransactionFilter{})
	expenses, _ := svc.ListTransactions(ctx, "u1", TransactionFilter{Kind: core.Expense})
	coffee, _ := svc.ListTransactions(ctx, "u1", TransactionFilter{Kind: core.Expense, Query: "COFFEE"})
	salary, _ := svc.ListTransactions(ctx, "u1", TransactionFilter{Query: "salary"})
	if len(all) != 3 || len(expenses) != 2 || len(coffee) != 2 || len(salary) != 1 {
		t.Fatalf("unexpected filter sizes all=%d expenses=%d coffee=%d salary=%d", len(all), len(expenses), len(coffee), len(salary))
	}
}

func TestLedgerServiceDeleteCategoryNotifies(t *testing.T) {
	svc, pub, _ := newLedger(t)
	ctx := context.Background()
	cat, _ := svc.CreateCategory(ctx, core.Category{UserID: "u1", Name: "Food", Color: "#10b981"})
	if err := svc.DeleteCategory(ctx, "u1", cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteCategory(ctx, "u1", cat.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := pub.msgs[len(pub.msgs)-1]; got.Operation != amqp.OperationDelete || got.Entity != amqp.EntityCategory {
		t.Fatalf("unexpected message %+v", got)
	}
}

func newAnalytics(t *testing.T) (*AnalyticsService, *countingSource) {
	t.Helper()
	src := &countingSource{Store: memory.New()}
	svc := NewAnalyticsService(src, cache.NewLRUCache[core.Report](16, time.Hour), nil)
	svc.now = func() time.Time { return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC) }
	return svc, src
}

func seed(t *testing.T, src *countingSource) {
	t.Helper()
	ctx := context.Background()
	cat, err := src.Store.CreateCategory(ctx, core.Category{UserID: "u1", Name: "Food", Color: "#FF0000"})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	for _, tx := range []core.Transaction{
		{UserID: "u1", Kind: core.Income, Amount: core.Money{Cents: 50000}, Date: core.NewDate(2024, 3, 1), Description: "salary"},
		{UserID: "u1", Kind: core.Expense, CategoryID: core.Ref(cat.ID), Amount: core.Money{Cents: 30000}, Date: core.NewDate(2024, 3, 2), Description: "food"},
	} {
		if _, err := src.Store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
}

func TestAnalyticsServiceCachesPerDay(t *testing.T) {
	svc, src := newAnalytics(t)
	seed(t, src)
	ctx := context.Background()

	r, err := svc.Report(ctx, "u1")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.Totals.Balance.Cents != 20000 || r.TopCategory == nil || r.TopCategory.Name != "Food" {
		t.Fatalf("unexpected report %+v", r.Totals)
	}
	if r.DailyAverage != 20 {
		t.Fatalf("daily average = %v", r.DailyAverage)
	}

	// same calendar day hits the cache
	svc.now = func() time.Time { return time.Date(2024, time.March, 15, 23, 0, 0, 0, time.UTC) }
	if _, err := svc.Report(ctx, "u1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if n := src.txCalls.Load(); n != 1 {
		t.Fatalf("expected one fetch, got %d", n)
	}

	// next day recomputes
	svc.now = func() time.Time { return time.Date(2024, time.March, 16, 0, 1, 0, 0, time.UTC) }
	if _, err := svc.Report(ctx, "u1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if n := src.txCalls.Load(); n != 2 {
		t.Fatalf("expected recompute on a new day, got %d fetches", n)
	}
}

func TestAnalyticsServiceReturnsIndependentCopies(t *testing.T) {
	svc, src := newAnalytics(t)
	seed(t, src)
	ctx := context.Background()

	first, err := svc.Report(ctx, "u1")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	first.Monthly[5].Expense = core.Money{Cents: 1}
	first.Distribution[0].Name = "edited"
	first.TopCategory.Name = "edited"
	first.Budgets[0].Name = "edited"
	*first.Recent[0].CategoryID = "edited"
	first.Recent[1].Description = "edited"

	second, err := svc.Report(ctx, "u1")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if n := src.txCalls.Load(); n != 1 {
		t.Fatalf("expected a cache hit, got %d fetches", n)
	}
	if second.Monthly[5].Expense.Cents != 30000 {
		t.Errorf("monthly bucket changed through an earlier copy: %v", second.Monthly[5].Expense)
	}
	if second.Distribution[0].Name != "Food" || second.TopCategory.Name != "Food" || second.Budgets[0].Name != "Food" {
		t.Errorf("category names changed through an earlier copy: %+v", second.Distribution[0])
	}
	for _, tx := range second.Recent {
		if tx.Description == "edited" || (tx.CategoryID != nil && *tx.CategoryID == "edited") {
			t.Errorf("recent transaction changed through an earlier copy: %+v", tx)
		}
	}
}

func TestAnalyticsServiceInvalidate(t *testing.T) {
	svc, src := newAnalytics(t)
	seed(t, src)
	ctx := context.Background()

	if _, err := svc.Report(ctx, "u1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, err := svc.Report(ctx, "u2"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := svc.HandleChange(ctx, amqp.NewChangeMessage("u1", amqp.EntityTransaction, amqp.OperationCreate, "x")); err != nil {
		t.Fatalf("handle change: %v", err)
	}
	if _, err := svc.Report(ctx, "u1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, err := svc.Report(ctx, "u2"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if n := src.txCalls.Load(); n != 3 {
		t.Fatalf("expected only u1 recomputed, got %d fetches", n)
	}
}

func TestAnalyticsServiceCollapsesConcurrentMisses(t *testing.T) {
	svc, src := newAnalytics(t)
	seed(t, src)
	src.release = make(chan struct{})

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Report(context.Background(), "u1")
			errs <- err
		}()
	}

	// wait until the first computation is in flight, then let it finish
	deadline := time.Now().Add(2 * time.Second)
	for src.txCalls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("report: %v", err)
		}
	}
	if n := src.txCalls.Load(); n != 1 {
		t.Fatalf("expected one shared computation, got %d", n)
	}
}

func TestAnalyticsServiceSourceError(t *testing.T) {
	svc, src := newAnalytics(t)
	src.err = errors.New("disk on fire")
	if _, err := svc.Report(context.Background(), "u1"); err == nil {
		t.Fatal("expected error")
	}
	src.err = nil
	if _, err := svc.Report(context.Background(), "u1"); err != nil {
		t.Fatalf("errors must not be cached: %v", err)
	}
}

func TestCacheKeyPrefixIsUnambiguous(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	k1 := cacheKey("u1", now, 0)
	k10 := cacheKey("u10", now, 0)
	if len(k10) >= len(userPrefix("u1")) && k10[:len(userPrefix("u1"))] == userPrefix("u1") {
		t.Fatalf("u1 prefix matches u10 key %s", k10)
	}
	if k1 != "2:u1:2024-03-15:0" {
		t.Fatalf("unexpected key %s", k1)
	}
}
