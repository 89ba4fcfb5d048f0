// Command cashtrack-import loads the CSV tables and writes them into
// the SQLite database, so the server can run with DATA_BACKEND=sqlite.
// The import is idempotent: users upsert by id and transactions are
// replaced wholesale.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"cashtrack/internal/config"
	"cashtrack/internal/core"
	"cashtrack/internal/loader"
	applog "cashtrack/internal/log"
	"cashtrack/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		applog.New(applog.DefaultConfig()).Error("Failed to load configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	usersPath := flag.String("users", cfg.UsersCSV, "path to the users CSV")
	txPath := flag.String("transactions", cfg.TransactionsCSV, "path to the transactions CSV")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "path to the SQLite database")
	flag.Parse()

	level, _ := cfg.SlogLevel()
	logger := applog.New(applog.Config{Level: level, Component: applog.ComponentImport, Format: cfg.LogFormat})
	applog.SetDefault(logger)

	ctx := context.Background()

	ds, err := loader.Load(loader.Source{UsersPath: *usersPath, TransactionsPath: *txPath})
	if err != nil {
		logger.Error("Failed to load CSV tables", applog.FieldError, err.Error())
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		logger.Error("Failed to open SQLite database", applog.FieldError, err.Error(), "db_path", *dbPath)
		os.Exit(1)
	}
	defer func() { _ = repo.Close() }()

	txs := make([]core.Transaction, 0, len(ds.Records))
	for _, r := range ds.Records {
		txs = append(txs, r.Transaction)
	}

	if err := repo.ImportUsers(ctx, ds.Users); err != nil {
		logger.Error("User import failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if err := repo.ImportTransactions(ctx, txs); err != nil {
		logger.Error("Transaction import failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	userCount, txCount, err := repo.Counts(ctx)
	if err != nil {
		logger.Error("Count check failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	attrs := []any{
		"db_path", *dbPath,
		"users", userCount,
		"transactions", txCount,
	}
	if min, max, _, ok := ds.Bounds(); ok {
		attrs = append(attrs, "from", min.String(), "to", max.String())
	}
	logger.Info("Import completed", attrs...)
}
