// Package storage provides the SQLite-backed dataset provider. The
// importer loads the flat CSV tables into SQLite once; afterwards the
// repository serves the same read-only tables the memory backend does,
// with the left join pushed down into SQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cashtrack/internal/core"
	"cashtrack/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Users implements dataset.Provider.
func (r *SQLiteRepository) Users(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, name, major, class_year, residence_type, interests
		FROM users
		ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Major, &u.ClassYear, &u.ResidenceType, &u.Interests); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Records implements dataset.Provider. The LEFT JOIN keeps transactions
// whose user id has no profile row, mirroring the in-memory join.
func (r *SQLiteRepository) Records(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.user_id, t.date, t.merchant, t.category, t.amount_cents,
		       t.payment_method, t.location,
		       u.user_id, u.name, u.major, u.class_year, u.residence_type, u.interests
		FROM transactions t
		LEFT JOIN users u ON u.user_id = t.user_id
		ORDER BY t.date, t.id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			rec     core.Record
			dateStr string
			joined  sql.NullString
			name    sql.NullString
			major   sql.NullString
			year    sql.NullString
			res     sql.NullString
			ints    sql.NullString
		)
		if err := rows.Scan(&rec.UserID, &dateStr, &rec.Merchant, &rec.Category,
			&rec.Amount.Cents, &rec.PaymentMethod, &rec.Location,
			&joined, &name, &major, &year, &res, &ints); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		rec.Date = date
		if joined.Valid {
			rec.User = &core.User{
				ID:            joined.String,
				Name:          name.String,
				Major:         major.String,
				ClassYear:     year.String,
				ResidenceType: res.String,
				Interests:     ints.String,
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// ImportUsers bulk-inserts the user table. Existing rows with the same
// id are replaced so the importer can be re-run safely.
func (r *SQLiteRepository) ImportUsers(ctx context.Context, users []core.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO users (user_id, name, major, class_year, residence_type, interests)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare user insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range users {
		if err := u.Validate(); err != nil {
			return fmt.Errorf("user %q: %w", u.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, u.ID, u.Name, u.Major, u.ClassYear, u.ResidenceType, u.Interests); err != nil {
			return fmt.Errorf("insert user %q: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	fields := log.NewFields().
		WithComponent(log.ComponentStorage).
		WithOperation(log.OpImport)
	fields[log.FieldCount] = len(users)
	slog.InfoContext(ctx, "Users imported", fields.ToSlice()...)
	return nil
}

// ImportTransactions replaces the transaction table with the given
// rows. Replacement keeps re-runs of the importer idempotent; the rows
// have no stable natural key to upsert on.
func (r *SQLiteRepository) ImportTransactions(ctx context.Context, txs []core.Transaction) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := dbtx.PrepareContext(ctx, `
		INSERT INTO transactions (user_id, date, merchant, category, amount_cents, payment_method, location)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txs {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, t.UserID, t.Date.String(), t.Merchant,
			t.Category, t.Amount.Cents, t.PaymentMethod, t.Location); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	fields := log.NewFields().
		WithComponent(log.ComponentStorage).
		WithOperation(log.OpImport)
	fields[log.FieldCount] = len(txs)
	slog.InfoContext(ctx, "Transactions imported", fields.ToSlice()...)
	return nil
}

// Counts returns table sizes, used by the importer for a summary line.
func (r *SQLiteRepository) Counts(ctx context.Context) (users, transactions int64, err error) {
	if err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	if err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&transactions); err != nil {
		return 0, 0, fmt.Errorf("count transactions: %w", err)
	}
	return users, transactions, nil
}
