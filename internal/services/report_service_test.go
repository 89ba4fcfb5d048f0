package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"cashtrack/internal/core"
	"cashtrack/internal/dataset/memory"
	"cashtrack/internal/loader"
)

func testService() *ReportService {
	users := []core.User{
		{ID: "u1", Name: "Ana Diaz", Major: "CS", ClassYear: "2026", ResidenceType: "Dorm"},
		{ID: "u2", Name: "Ben Ortiz", Major: "History", ClassYear: "2025", ResidenceType: "Commuter"},
		{ID: "u3", Name: "Olivia Chen", Major: "Biology", ClassYear: "2027", ResidenceType: "Dorm"},
	}
	txs := []core.Transaction{
		{UserID: "u1", Date: core.NewDate(2024, 1, 1), Category: "Dining", Amount: core.Money{Cents: 5000}},
		{UserID: "u1", Date: core.NewDate(2024, 1, 2), Category: "Dining", Amount: core.Money{Cents: 3000}},
		{UserID: "u2", Date: core.NewDate(2024, 1, 3), Category: "Transportation", Amount: core.Money{Cents: 275}},
		// u3 has no transactions at all.
	}
	store := memory.New(&loader.Dataset{Users: users, Records: core.Join(users, txs)})
	return NewReportService(store)
}

func TestBuildReportDiningStudent(t *testing.T) {
	svc := testService()
	c := core.Unbounded()
	c.UserID = "u1"

	report, err := svc.BuildReport(context.Background(), c)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	if report.Empty != EmptyNone {
		t.Fatalf("expected non-empty state, got %q", report.Empty)
	}
	if report.Profile == nil || report.Profile.Name != "Ana Diaz" {
		t.Fatalf("profile missing: %+v", report.Profile)
	}
	if report.Summary.Total.Cents != 8000 || report.Summary.Count != 2 {
		t.Fatalf("summary wrong: %+v", report.Summary)
	}

	// Dorm resident with 100% dining share and $40 average: residence,
	// dining and large-purchase tips, in that order.
	if len(report.Advice) != 3 {
		t.Fatalf("expected 3 tips, got %v", report.Advice)
	}
	if !strings.Contains(report.Advice[0], "dorm") {
		t.Fatalf("first tip should be the dorm tip: %q", report.Advice[0])
	}
	if !strings.Contains(report.Advice[1], "Dining") {
		t.Fatalf("second tip should be the dining tip: %q", report.Advice[1])
	}
}

func TestBuildReportEmptyStudent(t *testing.T) {
	svc := testService()
	c := core.Unbounded()
	c.UserID = "u3"

	report, err := svc.BuildReport(context.Background(), c)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Empty != EmptyStudent {
		t.Fatalf("expected student-empty state, got %q", report.Empty)
	}
	if report.Summary.Count != 0 || report.Summary.Total.Cents != 0 || report.Summary.DaySpan != 0 {
		t.Fatalf("empty student summary must be all-zero: %+v", report.Summary)
	}
	if len(report.Advice) != 1 || !strings.Contains(report.Advice[0], "no transactions") {
		t.Fatalf("expected exactly the habit tip, got %v", report.Advice)
	}
	if len(report.Insights) != 0 {
		t.Fatalf("empty view has no insights: %v", report.Insights)
	}
}

func TestBuildReportEmptyUnscoped(t *testing.T) {
	svc := testService()
	c := core.Unbounded()
	c.From, c.To = core.NewDate(1999, 1, 1), core.NewDate(1999, 12, 31)

	report, err := svc.BuildReport(context.Background(), c)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Empty != EmptyUnscoped {
		t.Fatalf("expected unscoped-empty state, got %q", report.Empty)
	}
}

func TestBuildReportIdempotent(t *testing.T) {
	svc := testService()
	c := core.Unbounded()
	c.UserID = "u1"

	first, err := svc.BuildReport(context.Background(), c)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.BuildReport(context.Background(), c)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same criteria must yield identical reports")
	}
}

func TestTransactionsRequireUser(t *testing.T) {
	svc := testService()

	_, err := svc.Transactions(context.Background(), core.Unbounded())
	if !errors.Is(err, ErrUserRequired) {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}

	c := core.Unbounded()
	c.UserID = "u1"
	records, err := svc.Transactions(context.Background(), c)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Newest first.
	if records[0].Date.Before(records[1].Date) {
		t.Fatalf("transaction log must be date-descending")
	}
}

func TestListUsersSorted(t *testing.T) {
	svc := testService()
	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 3 || users[0].ID != "u1" || users[2].ID != "u3" {
		t.Fatalf("unexpected user order: %+v", users)
	}
}

func TestProfileLookup(t *testing.T) {
	svc := testService()
	u, ok, err := svc.Profile(context.Background(), "u2")
	if err != nil || !ok || u.ResidenceType != "Commuter" {
		t.Fatalf("profile u2: %+v ok=%v err=%v", u, ok, err)
	}
	if _, ok, _ := svc.Profile(context.Background(), "nope"); ok {
		t.Fatalf("unknown profile must not resolve")
	}
}
