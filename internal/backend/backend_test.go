package backend

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"fintrack/internal/config"
)

func quietFactory() Factory {
	return NewFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unsupported backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:   "sqlite",
		SQLiteDBPath:  "/tmp/x.db",
		AutoMigrate:   true,
		DefaultUserID: "local",
		AMQPURL:       "amqp://localhost",
		AMQPExchange:  "fintrack.changes",
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" || !cfg.AutoMigrate || cfg.AMQPExchange != "fintrack.changes" {
		t.Fatalf("unexpected backend config %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend, DefaultUserID: "local"}, false},
		{"memory without user", Config{Type: MemoryBackend}, true},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"amqp without exchange", Config{Type: MemoryBackend, DefaultUserID: "local", AMQPURL: "amqp://x"}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if got := GetBackendTypeStrings(); len(got) != 2 || got[0] != "sqlite" || got[1] != "memory" {
		t.Fatalf("GetBackendTypeStrings = %v", got)
	}
}

func TestCreateMemoryBackendSeedsCategories(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "categories.txt"), []byte("Rent,#3B82F6,900\nFood,#10B981\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: MemoryBackend, SeedDir: dir, DefaultUserID: "local"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer res.Cleanup()

	if res.Changes != nil || res.Publisher() != nil {
		t.Fatal("expected no change publisher without AMQP")
	}
	cats, err := res.Store.ListCategories(context.Background(), "local")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Rent" || cats[0].Budget.Cents != 90000 {
		t.Fatalf("unexpected seeded categories %+v", cats)
	}
	if err := res.Pinger.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fintrack.db")
	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path, AutoMigrate: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := res.Pinger.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if cats, err := res.Store.ListCategories(context.Background(), "local"); err != nil || len(cats) != 0 {
		t.Fatalf("expected empty ledger, got %v, %v", cats, err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	if _, err := quietFactory().CreateBackend(context.Background(), Config{Type: "nope"}); err == nil {
		t.Fatal("expected error")
	}
}
