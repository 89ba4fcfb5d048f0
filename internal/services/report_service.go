// Package services orchestrates the analytics pipeline: one report is
// one synchronous Filter -> Aggregate -> Advise pass over the loaded
// dataset. Every call works on its own filtered view, so concurrent
// requests share only the read-only tables.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"cashtrack/internal/advisor"
	"cashtrack/internal/core"
	"cashtrack/internal/dataset"
	"cashtrack/internal/log"
)

// ErrUserRequired is returned when the transaction log is requested
// without a selected user. The detailed log is private to a single
// student's view.
var ErrUserRequired = errors.New("transaction log requires a selected user")

// EmptyState classifies a zero-row filtered set. The filter itself
// treats both the same; this is the caller-side distinction the
// presentation layer needs.
type EmptyState string

const (
	// EmptyNone: the filtered set has rows.
	EmptyNone EmptyState = ""

	// EmptyStudent: a specific user is selected and has no matching
	// records. Valid informational state; the habit-forming tip fires.
	EmptyStudent EmptyState = "student"

	// EmptyUnscoped: no user selected and nothing matched the broader
	// filters. Treated as a warning state, since it usually means a
	// filter misconfiguration rather than real absence of data.
	EmptyUnscoped EmptyState = "unscoped"
)

// Report is the full recomputed result for one filter selection.
type Report struct {
	Criteria core.Criteria
	Profile  *core.User // nil for the all-students view or an unknown id
	Summary  core.Summary
	Insights []string
	Advice   []string
	Empty    EmptyState
}

// ReportService runs the pipeline against a dataset provider.
type ReportService struct {
	provider dataset.Provider
}

func NewReportService(provider dataset.Provider) *ReportService {
	return &ReportService{provider: provider}
}

// BuildReport filters, aggregates and advises for one criteria. The
// summary is computed unconditionally: an empty filtered set yields a
// defined all-zero summary, never an error.
func (s *ReportService) BuildReport(ctx context.Context, c core.Criteria) (*Report, error) {
	records, err := s.provider.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	filtered := core.Apply(records, c)
	summary := core.Summarize(filtered)

	report := &Report{
		Criteria: c,
		Summary:  summary,
	}

	// Residence drives the first advice rule: the campus-wide view is
	// "mixed" and matches neither residence tip.
	residence := "mixed"
	if c.UserID != "" {
		residence = ""
		if profile, ok, err := s.profile(ctx, c.UserID); err != nil {
			return nil, err
		} else if ok {
			report.Profile = &profile
			residence = profile.ResidenceType
		}
	}

	if len(filtered) == 0 {
		if c.UserID != "" {
			report.Empty = EmptyStudent
		} else {
			report.Empty = EmptyUnscoped
		}
	}

	report.Insights = advisor.Insights(summary)
	report.Advice = advisor.Advise(advisor.Input{
		UserSelected:  c.UserID != "",
		ResidenceType: residence,
		Summary:       summary,
	})

	fields := log.NewFields().
		WithComponent(log.ComponentReport).
		WithOperation(log.OpSummary).
		WithUser(c.UserID).
		WithSummary(summary.Count, summary.Total.Cents)
	fields[log.FieldEmptyState] = string(report.Empty)
	slog.DebugContext(ctx, "Report built", fields.ToSlice()...)
	return report, nil
}

// Transactions returns the filtered records for the private transaction
// log, newest first. A user must be selected; the all-students view has
// no detailed log.
func (s *ReportService) Transactions(ctx context.Context, c core.Criteria) ([]core.Record, error) {
	if c.UserID == "" {
		return nil, ErrUserRequired
	}
	records, err := s.provider.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	filtered := core.Apply(records, c)
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[j].Date.Before(filtered[i].Date)
	})
	return filtered, nil
}

// ListUsers returns the user table sorted by id.
func (s *ReportService) ListUsers(ctx context.Context) ([]core.User, error) {
	users, err := s.provider.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Profile looks up one user's profile.
func (s *ReportService) Profile(ctx context.Context, id string) (core.User, bool, error) {
	return s.profile(ctx, id)
}

func (s *ReportService) profile(ctx context.Context, id string) (core.User, bool, error) {
	users, err := s.provider.Users(ctx)
	if err != nil {
		return core.User{}, false, fmt.Errorf("read users: %w", err)
	}
	for _, u := range users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return core.User{}, false, nil
}
