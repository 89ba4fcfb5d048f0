// Package dataset abstracts where the loaded tables come from. The
// tables are read-only for the process lifetime; providers hand out
// copies so concurrent readers never share mutable state.
package dataset

import (
	"context"

	"cashtrack/internal/core"
)

// Provider serves the immutable user table and the joined record table.
type Provider interface {
	// Users returns the raw user collection.
	Users(ctx context.Context) ([]core.User, error)

	// Records returns the left-joined record collection. Its length
	// always equals the transaction row count.
	Records(ctx context.Context) ([]core.Record, error)
}

// CleanupFunc releases provider resources.
type CleanupFunc func() error

// Result contains the provider instance and optional cleanup function.
type Result struct {
	Provider Provider
	Cleanup  CleanupFunc
}

// Type selects the dataset backend.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for provider creation.
type Config struct {
	Type Type

	// Memory backend: flat input files.
	UsersCSV        string
	TransactionsCSV string

	// SQLite backend.
	SQLiteDBPath string
}
