package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrParseDate     = errors.New("unparseable date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyUserID   = errors.New("empty user id")
	ErrEmptyCategory = errors.New("empty category")
)

type (
	// Date is a calendar date. Time-of-day is always UTC midnight; the
	// dataset has no intra-day semantics.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// User is an immutable profile row from the users table.
	User struct {
		ID            string
		Name          string
		Major         string
		ClassYear     string
		ResidenceType string
		Interests     string
	}

	// Transaction is one wallet purchase row from the transactions table.
	Transaction struct {
		UserID        string
		Date          Date
		Merchant      string
		Category      string
		Amount        Money
		PaymentMethod string
		Location      string
	}

	// Record is a Transaction joined with its owning user's profile.
	// User is nil when the transaction's user id has no profile match;
	// the left join keeps the row either way.
	Record struct {
		Transaction
		User *User
	}
)

// dateLayouts are tried in order when parsing transaction dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses an ISO-style date string and truncates it to a
// calendar date. Failure wraps ErrParseDate so the loader can abort.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrParseDate, s)
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DaysUntil returns the number of calendar days from d to other.
// Negative when other is earlier.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time) / (24 * time.Hour))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return ErrEmptyUserID
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: zero date", ErrParseDate)
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Join performs the left join of transactions onto users by user id.
// Every transaction yields exactly one Record; rows whose user id has no
// profile keep a nil User.
func Join(users []User, txs []Transaction) []Record {
	byID := make(map[string]*User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	records := make([]Record, len(txs))
	for i, tx := range txs {
		records[i] = Record{Transaction: tx, User: byID[tx.UserID]}
	}
	return records
}
