package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"cashtrack/internal/dataset/memory"
	"cashtrack/internal/loader"
	"cashtrack/internal/storage"
)

// Factory creates dataset providers based on configuration.
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new provider factory.
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the provider named by the config. The memory backend
// loads the CSVs once, eagerly, so a bad input file fails startup
// rather than the first request.
func (f *Factory) Create(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid dataset backend: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLite(config)
	default:
		return f.createMemory(config)
	}
}

func (f *Factory) createSQLite(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	f.logger.Info("Initialized sqlite dataset backend", "db_path", config.SQLiteDBPath)
	return &Result{Provider: repo, Cleanup: repo.Close}, nil
}

func (f *Factory) createMemory(config Config) (*Result, error) {
	store, err := memory.NewFromFiles(loader.Source{
		UsersPath:        config.UsersCSV,
		TransactionsPath: config.TransactionsCSV,
	})
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	attrs := []any{
		"users_csv", config.UsersCSV,
		"transactions_csv", config.TransactionsCSV,
	}
	if min, max, maxAmount, ok := store.Dataset().Bounds(); ok {
		attrs = append(attrs,
			"from", min.String(),
			"to", max.String(),
			"max_amount_cents", maxAmount.Cents)
	}
	f.logger.Info("Initialized memory dataset backend", attrs...)
	return &Result{Provider: store, Cleanup: nil}, nil
}
