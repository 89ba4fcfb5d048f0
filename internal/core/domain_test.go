package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"2024-01-02", "2024-01-02", true},
		{" 2024-01-02 ", "2024-01-02", true},
		{"2024-01-02 13:45:00", "2024-01-02", true},
		{"2024-01-02T13:45:00Z", "2024-01-02", true},
		{"01/02/2024", "", false},
		{"not-a-date", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrParseDate) {
				t.Fatalf("%q error should wrap ErrParseDate, got %v", tc.in, err)
			}
		}
	}
}

func TestDateDaysUntil(t *testing.T) {
	a := NewDate(2024, 1, 1)
	b := NewDate(2024, 1, 2)
	if got := a.DaysUntil(b); got != 1 {
		t.Fatalf("expected 1 day, got %d", got)
	}
	if got := a.DaysUntil(a); got != 0 {
		t.Fatalf("expected 0 days, got %d", got)
	}
	if got := b.DaysUntil(a); got != -1 {
		t.Fatalf("expected -1 day, got %d", got)
	}
}

func TestJoinPreservesCardinality(t *testing.T) {
	users := []User{{ID: "u1", Name: "Ana", ResidenceType: "Dorm"}}
	txs := []Transaction{
		{UserID: "u1", Date: NewDate(2024, 1, 1), Category: "Dining", Amount: Money{Cents: 500}},
		{UserID: "ghost", Date: NewDate(2024, 1, 2), Category: "Books", Amount: Money{Cents: 300}},
	}

	records := Join(users, txs)
	if len(records) != len(txs) {
		t.Fatalf("left join must preserve row count: got %d, want %d", len(records), len(txs))
	}
	if records[0].User == nil || records[0].User.Name != "Ana" {
		t.Fatalf("matched transaction should carry its user profile")
	}
	if records[1].User != nil {
		t.Fatalf("orphaned transaction should keep a nil user, got %+v", records[1].User)
	}

	// No users at all: every row survives with nil profile.
	records = Join(nil, txs)
	if len(records) != len(txs) {
		t.Fatalf("join with empty users dropped rows: %d != %d", len(records), len(txs))
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{UserID: "u1", Date: NewDate(2024, 1, 1), Category: "Dining", Amount: Money{Cents: 100}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"missing user", func(tx *Transaction) { tx.UserID = " " }, ErrEmptyUserID},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrParseDate},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -1 }, ErrInvalidAmount},
		{"missing category", func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := valid
			tc.mut(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
