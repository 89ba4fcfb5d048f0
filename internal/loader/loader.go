// Package loader reads the two flat input tables and produces the
// joined, immutable dataset the rest of the pipeline works on. Loading
// happens once per process; the returned Dataset is never mutated.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cashtrack/internal/core"
	"cashtrack/internal/log"
)

// Source names the two input table locations. It is the only loader
// configuration.
type Source struct {
	UsersPath        string
	TransactionsPath string
}

// Dataset is the immutable result of one load: the raw user table plus
// the left-joined record table. Row count of Records always equals the
// row count of the transactions source.
type Dataset struct {
	Users   []core.User
	Records []core.Record
}

// Bounds reports the dataset extent: earliest and latest transaction
// dates and the largest single amount. ok is false when the dataset has
// no transactions.
func (d *Dataset) Bounds() (min, max core.Date, maxAmount core.Money, ok bool) {
	if len(d.Records) == 0 {
		return core.Date{}, core.Date{}, core.Money{}, false
	}
	min, max = d.Records[0].Date, d.Records[0].Date
	for _, r := range d.Records {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
		if r.Amount.Cents > maxAmount.Cents {
			maxAmount = r.Amount
		}
	}
	return min, max, maxAmount, true
}

// UserByID looks up a profile in the loaded user table.
func (d *Dataset) UserByID(id string) (core.User, bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, true
		}
	}
	return core.User{}, false
}

// Load reads both tables, parses transaction dates and amounts, and
// joins transactions onto users. Any unparseable date or amount aborts
// the load with a wrapped error naming the row. An unmatched user id is
// not an error; the left join keeps the row with a nil profile.
func Load(src Source) (*Dataset, error) {
	users, err := LoadUsers(src.UsersPath)
	if err != nil {
		return nil, fmt.Errorf("load users %s: %w", src.UsersPath, err)
	}
	txs, err := LoadTransactions(src.TransactionsPath)
	if err != nil {
		return nil, fmt.Errorf("load transactions %s: %w", src.TransactionsPath, err)
	}

	ds := &Dataset{
		Users:   users,
		Records: core.Join(users, txs),
	}
	fields := log.NewFields().
		WithComponent(log.ComponentLoader).
		WithOperation(log.OpLoad)
	fields["users"] = len(users)
	fields["transactions"] = len(txs)
	slog.Info("Dataset loaded", fields.ToSlice()...)
	return ds, nil
}

// LoadUsers reads the users table. Columns: user_id, name, major,
// class_year, residence_type, interests.
func LoadUsers(path string) ([]core.User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	cols, err := readHeader(r, "user_id")
	if err != nil {
		return nil, err
	}

	var users []core.User
	for row := 2; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		u := core.User{
			ID:            cols.get(rec, "user_id"),
			Name:          cols.get(rec, "name"),
			Major:         cols.get(rec, "major"),
			ClassYear:     cols.get(rec, "class_year"),
			ResidenceType: cols.get(rec, "residence_type"),
			Interests:     cols.get(rec, "interests"),
		}
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		users = append(users, u)
	}
	return users, nil
}

// LoadTransactions reads the transactions table. Columns: user_id,
// date, merchant, category, amount, payment_method, location. Date and
// amount parsing is fail-fast: one bad row aborts the whole load.
func LoadTransactions(path string) ([]core.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	cols, err := readHeader(r, "user_id", "date", "category", "amount")
	if err != nil {
		return nil, err
	}

	var txs []core.Transaction
	for row := 2; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		date, err := core.ParseDate(cols.get(rec, "date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		cents, err := core.ParseAmountToCents(cols.get(rec, "amount"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		tx := core.Transaction{
			UserID:        cols.get(rec, "user_id"),
			Date:          date,
			Merchant:      cols.get(rec, "merchant"),
			Category:      cols.get(rec, "category"),
			Amount:        core.Money{Cents: cents},
			PaymentMethod: cols.get(rec, "payment_method"),
			Location:      cols.get(rec, "location"),
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// columns maps header names to field positions, so column order in the
// source file does not matter.
type columns map[string]int

func readHeader(r *csv.Reader, required ...string) (columns, error) {
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(columns, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}

func (c columns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
