package core

import (
	"fmt"
	"math"
)

// Criteria is one filter selection over the joined record table.
// Zero-valued optional fields widen the filter: empty UserID means all
// users, empty Category means all categories. The date and amount
// bounds are inclusive on both ends.
type Criteria struct {
	UserID    string
	From      Date
	To        Date
	Category  string
	MinAmount Money
	MaxAmount Money
}

// Unbounded returns criteria matching every record.
func Unbounded() Criteria {
	return Criteria{
		From:      NewDate(1, 1, 1),
		To:        NewDate(9999, 12, 31),
		MaxAmount: Money{Cents: math.MaxInt64},
	}
}

// Matches reports whether the record passes every predicate. The
// predicates are a pure conjunction; evaluation order is irrelevant to
// the result.
func (c Criteria) Matches(r Record) bool {
	if c.UserID != "" && r.UserID != c.UserID {
		return false
	}
	if r.Date.Before(c.From) || r.Date.After(c.To) {
		return false
	}
	if r.Amount.Cents < c.MinAmount.Cents || r.Amount.Cents > c.MaxAmount.Cents {
		return false
	}
	if c.Category != "" && r.Category != c.Category {
		return false
	}
	return true
}

// Apply filters records by the criteria in one pass. An empty result is
// a valid outcome, not an error; the caller decides what an empty set
// means for its view.
func Apply(records []Record, c Criteria) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Key returns a canonical string form of the criteria, used as a cache
// key for derived results.
func (c Criteria) Key() string {
	return fmt.Sprintf("u=%s|f=%s|t=%s|c=%s|lo=%d|hi=%d",
		c.UserID, c.From, c.To, c.Category, c.MinAmount.Cents, c.MaxAmount.Cents)
}
