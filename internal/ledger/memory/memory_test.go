package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fintrack/internal/ledger"
	"fintrack/internal/ledger/ledgertest"
)

func TestStoreContract(t *testing.T) {
	ledgertest.Run(t, func(*testing.T) ledger.Store { return New() })
}

func TestNewFromFilesDefaults(t *testing.T) {
	s := NewFromFiles(t.TempDir(), "u1")
	cats, err := s.ListCategories(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != len(defaultSeeds()) {
		t.Fatalf("expected defaults when file missing, got %d", len(cats))
	}
	if cats[0].Name != "Housing" {
		t.Fatalf("expected seed order preserved, got %s first", cats[0].Name)
	}
}

func TestNewFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()
	content := "# name,color,budget\nRent,#112233,900\nFood,#445566,\nrent,#778899,1\n\nbroken line\nBad,blue,10\nFun,#AABBCC,12.5\n"
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := NewFromFiles(dir, "alice")
	cats, _ := s.ListCategories(context.Background(), "alice")
	if len(cats) != 3 {
		t.Fatalf("unexpected categories: %+v", cats)
	}
	if cats[0].Name != "Rent" || cats[0].Budget.Cents != 90000 {
		t.Errorf("first seed = %+v", cats[0])
	}
	if cats[1].Name != "Food" || !cats[1].Budget.IsZero() {
		t.Errorf("second seed = %+v", cats[1])
	}
	if cats[2].Name != "Fun" || cats[2].Budget.Cents != 1250 || cats[2].UserID != "alice" {
		t.Errorf("third seed = %+v", cats[2])
	}

	if others, _ := s.ListCategories(context.Background(), "bob"); len(others) != 0 {
		t.Fatalf("seeds should belong to the configured user only")
	}
}
