package http

import (
	"fmt"
	"net/http"
	"strings"

	"cashtrack/internal/core"
)

// badRequestError marks a client-side parameter problem.
type badRequestError struct {
	param string
	msg   string
}

func (e *badRequestError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.param, e.msg)
}

// parseCriteria builds filter criteria from query parameters. Missing
// parameters leave the corresponding bound wide open, so an empty query
// selects every record.
//
// Recognized parameters: user, from, to, category, min, max. Dates are
// YYYY-MM-DD, amounts are decimal dollars.
func parseCriteria(r *http.Request) (core.Criteria, error) {
	q := r.URL.Query()
	c := core.Unbounded()

	c.UserID = strings.TrimSpace(q.Get("user"))
	c.Category = strings.TrimSpace(q.Get("category"))

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Criteria{}, &badRequestError{param: "from", msg: "expected a YYYY-MM-DD date"}
		}
		c.From = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Criteria{}, &badRequestError{param: "to", msg: "expected a YYYY-MM-DD date"}
		}
		c.To = d
	}
	if c.From.After(c.To) {
		return core.Criteria{}, &badRequestError{param: "from", msg: "start date is after end date"}
	}

	if v := strings.TrimSpace(q.Get("min")); v != "" {
		cents, err := core.ParseAmountToCents(v)
		if err != nil {
			return core.Criteria{}, &badRequestError{param: "min", msg: "expected a non-negative decimal amount"}
		}
		c.MinAmount = core.Money{Cents: cents}
	}
	if v := strings.TrimSpace(q.Get("max")); v != "" {
		cents, err := core.ParseAmountToCents(v)
		if err != nil {
			return core.Criteria{}, &badRequestError{param: "max", msg: "expected a non-negative decimal amount"}
		}
		c.MaxAmount = core.Money{Cents: cents}
	}
	if c.MinAmount.Cents > c.MaxAmount.Cents {
		return core.Criteria{}, &badRequestError{param: "min", msg: "minimum amount exceeds maximum"}
	}

	return c, nil
}
