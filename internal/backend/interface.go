package backend

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/ledger"
	"fintrack/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the ledger store and the optional change-notification
// client built for it.
type BackendResult struct {
	Store  ledger.Store
	Pinger ledger.Pinger
	// Changes is nil when AMQP is not configured or unreachable
	Changes *amqp.Client
	Cleanup CleanupFunc
}

// Publisher returns Changes as a ChangePublisher, or a nil interface when
// there is no client.
func (r *BackendResult) Publisher() services.ChangePublisher {
	if r.Changes == nil {
		return nil
	}
	return r.Changes
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AutoMigrate  bool

	// Memory specific
	SeedDir       string
	DefaultUserID string

	// Change notifications, optional for both backends
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
