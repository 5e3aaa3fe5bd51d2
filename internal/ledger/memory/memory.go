// Package memory is an in-process ledger store for development and tests.
package memory

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var _ ledger.Store = (*Store)(nil)

// SeedFile is the category seed file name looked up under the seed directory.
const SeedFile = "categories.txt"

type Store struct {
	mu   sync.Mutex
	now  func() time.Time
	txs  map[string]core.Transaction
	cats map[string]core.Category
}

func New() *Store {
	return &Store{
		now:  time.Now,
		txs:  make(map[string]core.Transaction),
		cats: make(map[string]core.Category),
	}
}

// NewFromFiles creates a store whose categories for userID are seeded from
// base/categories.txt, one "name,#RRGGBB,budget" per line. Defaults are used
// when the file is missing or yields nothing usable.
func NewFromFiles(base, userID string) *Store {
	s := New()
	seeds := readSeeds(filepath.Join(base, SeedFile))
	if len(seeds) == 0 {
		seeds = defaultSeeds()
	}
	for _, c := range seeds {
		c.UserID = userID
		// seeds are validated by readSeeds and defaults are known good
		_, _ = s.CreateCategory(context.Background(), c)
	}
	return s
}

func (s *Store) Close() error { return nil }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0)
	for _, t := range s.txs {
		if t.UserID == userID {
			out = append(out, cloneTx(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return cloneTx(t), nil
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCategoryLocked(tx); err != nil {
		return core.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if _, exists := s.txs[tx.ID]; exists {
		return core.Transaction{}, fmt.Errorf("transaction %s already exists", tx.ID)
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now().UTC()
	}
	tx = cloneTx(tx)
	s.txs[tx.ID] = tx
	return cloneTx(tx), nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.txs[tx.ID]
	if !ok || old.UserID != tx.UserID {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", tx.ID, core.ErrNotFound)
	}
	if err := s.checkCategoryLocked(tx); err != nil {
		return core.Transaction{}, err
	}
	tx.CreatedAt = old.CreatedAt
	tx = cloneTx(tx)
	s.txs[tx.ID] = tx
	return cloneTx(tx), nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok || t.UserID != userID {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	delete(s.txs, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0)
	for _, c := range s.cats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, userID, id string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cats[id]
	if !ok || c.UserID != userID {
		return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := s.cats[c.ID]; exists {
		return core.Category{}, fmt.Errorf("category %s already exists", c.ID)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.nextCreatedLocked(c.UserID)
	}
	s.cats[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.cats[c.ID]
	if !ok || old.UserID != c.UserID {
		return core.Category{}, fmt.Errorf("category %s: %w", c.ID, core.ErrNotFound)
	}
	c.CreatedAt = old.CreatedAt
	s.cats[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cats[id]
	if !ok || c.UserID != userID {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	delete(s.cats, id)
	for txID, t := range s.txs {
		if t.HasCategory(id) {
			t.CategoryID = nil
			s.txs[txID] = t
		}
	}
	return nil
}

func (s *Store) checkCategoryLocked(tx core.Transaction) error {
	if tx.CategoryID == nil {
		return nil
	}
	c, ok := s.cats[*tx.CategoryID]
	if !ok || c.UserID != tx.UserID {
		return &core.ValidationError{Field: "category_id", Err: core.ErrNotFound}
	}
	return nil
}

// nextCreatedLocked keeps creation order strict for categories created within
// the same clock tick, such as a batch of seeds.
func (s *Store) nextCreatedLocked(userID string) time.Time {
	now := s.now().UTC()
	for _, c := range s.cats {
		if c.UserID == userID && !now.After(c.CreatedAt) {
			now = c.CreatedAt.Add(time.Microsecond)
		}
	}
	return now
}

func cloneTx(t core.Transaction) core.Transaction {
	if t.CategoryID != nil {
		id := *t.CategoryID
		t.CategoryID = &id
	}
	return t
}

func defaultSeeds() []core.Category {
	return []core.Category{
		{Name: "Housing", Color: "#3b82f6", Budget: core.Money{Cents: 120000}},
		{Name: "Groceries", Color: "#10b981", Budget: core.Money{Cents: 40000}},
		{Name: "Transport", Color: "#f59e0b", Budget: core.Money{Cents: 15000}},
		{Name: "Leisure", Color: "#ef4444"},
	}
}

func readSeeds(path string) []core.Category {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.Category
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := parseSeed(line)
		if err != nil {
			continue
		}
		key := strings.ToLower(c.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// parseSeed reads "name,#RRGGBB[,budget]".
func parseSeed(line string) (core.Category, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return core.Category{}, errors.New("expected name,color[,budget]")
	}
	c := core.Category{
		UserID: "seed",
		Name:   strings.TrimSpace(parts[0]),
		Color:  strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
		budget, err := core.ParseAmount(parts[2])
		if err != nil {
			return core.Category{}, err
		}
		c.Budget = budget
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.UserID = ""
	return c, nil
}
