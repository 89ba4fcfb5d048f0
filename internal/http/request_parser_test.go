package http

import (
	"net/http/httptest"
	"testing"

	"cashtrack/internal/core"
)

func TestParseCriteriaDefaultsToUnbounded(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/report", nil)
	c, err := parseCriteria(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != core.Unbounded() {
		t.Fatalf("empty query must select everything: %+v", c)
	}
}

func TestParseCriteriaFull(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/report?user=u1&from=2024-01-01&to=2024-01-31&category=Dining&min=5&max=50.50", nil)
	c, err := parseCriteria(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UserID != "u1" || c.Category != "Dining" {
		t.Fatalf("scalar params: %+v", c)
	}
	if !c.From.Equal(core.NewDate(2024, 1, 1)) || !c.To.Equal(core.NewDate(2024, 1, 31)) {
		t.Fatalf("date bounds: %+v", c)
	}
	if c.MinAmount.Cents != 500 || c.MaxAmount.Cents != 5050 {
		t.Fatalf("amount bounds: %+v", c)
	}
}

func TestParseCriteriaTrimsWhitespace(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/report?user=+u1+&category=+Dining+", nil)
	c, err := parseCriteria(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UserID != "u1" || c.Category != "Dining" {
		t.Fatalf("params must be trimmed: %+v", c)
	}
}
