package http

import (
	"encoding/json"
	"math"
	"net/http"

	"cashtrack/internal/core"
	"cashtrack/internal/services"
)

// Wire representations. Exact amounts travel as integer cents; derived
// averages are already dollars and stay float.
type (
	userResponse struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Major         string `json:"major,omitempty"`
		ClassYear     string `json:"class_year,omitempty"`
		ResidenceType string `json:"residence_type,omitempty"`
		Interests     string `json:"interests,omitempty"`
	}

	categoryAmountResponse struct {
		Category    string `json:"category"`
		AmountCents int64  `json:"amount_cents"`
	}

	weekdayAmountResponse struct {
		Weekday     string `json:"weekday"`
		AmountCents int64  `json:"amount_cents"`
	}

	dailyAmountResponse struct {
		Date        string `json:"date"`
		AmountCents int64  `json:"amount_cents"`
	}

	summaryResponse struct {
		TotalCents        int64                    `json:"total_cents"`
		Count             int                      `json:"count"`
		DaySpan           int                      `json:"day_span"`
		AvgPerDay         float64                  `json:"avg_per_day"`
		AvgPerTransaction float64                  `json:"avg_per_transaction"`
		ByCategory        []categoryAmountResponse `json:"by_category"`
		ByWeekday         []weekdayAmountResponse  `json:"by_weekday"`
		Daily             []dailyAmountResponse    `json:"daily"`
	}

	criteriaResponse struct {
		User     string `json:"user,omitempty"`
		From     string `json:"from,omitempty"`
		To       string `json:"to,omitempty"`
		Category string `json:"category,omitempty"`
		MinCents int64  `json:"min_cents,omitempty"`
		MaxCents int64  `json:"max_cents,omitempty"`
	}

	transactionResponse struct {
		UserID        string `json:"user_id"`
		Date          string `json:"date"`
		Merchant      string `json:"merchant,omitempty"`
		Category      string `json:"category"`
		AmountCents   int64  `json:"amount_cents"`
		PaymentMethod string `json:"payment_method,omitempty"`
		Location      string `json:"location,omitempty"`
	}

	reportResponse struct {
		Criteria   criteriaResponse `json:"criteria"`
		Profile    *userResponse    `json:"profile,omitempty"`
		Summary    summaryResponse  `json:"summary"`
		Insights   []string         `json:"insights"`
		Advice     []string         `json:"advice"`
		EmptyState string           `json:"empty_state,omitempty"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Name:          u.Name,
		Major:         u.Major,
		ClassYear:     u.ClassYear,
		ResidenceType: u.ResidenceType,
		Interests:     u.Interests,
	}
}

func toSummaryResponse(s core.Summary) summaryResponse {
	out := summaryResponse{
		TotalCents:        s.Total.Cents,
		Count:             s.Count,
		DaySpan:           s.DaySpan,
		AvgPerDay:         s.AvgPerDay,
		AvgPerTransaction: s.AvgPerTransaction,
		ByCategory:        make([]categoryAmountResponse, 0, len(s.ByCategory)),
		ByWeekday:         make([]weekdayAmountResponse, 0, len(s.ByWeekday)),
		Daily:             make([]dailyAmountResponse, 0, len(s.Daily)),
	}
	for _, c := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryAmountResponse{Category: c.Name, AmountCents: c.Amount.Cents})
	}
	for _, w := range s.ByWeekday {
		out.ByWeekday = append(out.ByWeekday, weekdayAmountResponse{Weekday: w.Day, AmountCents: w.Amount.Cents})
	}
	for _, d := range s.Daily {
		out.Daily = append(out.Daily, dailyAmountResponse{Date: d.Date.String(), AmountCents: d.Amount.Cents})
	}
	return out
}

// toCriteriaResponse echoes the effective criteria back to the client.
// Unbounded sides are omitted rather than echoed as sentinel values.
func toCriteriaResponse(c core.Criteria) criteriaResponse {
	out := criteriaResponse{
		User:     c.UserID,
		Category: c.Category,
		MinCents: c.MinAmount.Cents,
	}
	unbounded := core.Unbounded()
	if !c.From.Equal(unbounded.From) {
		out.From = c.From.String()
	}
	if !c.To.Equal(unbounded.To) {
		out.To = c.To.String()
	}
	if c.MaxAmount.Cents != math.MaxInt64 {
		out.MaxCents = c.MaxAmount.Cents
	}
	return out
}

func toTransactionResponse(r core.Record) transactionResponse {
	return transactionResponse{
		UserID:        r.UserID,
		Date:          r.Date.String(),
		Merchant:      r.Merchant,
		Category:      r.Category,
		AmountCents:   r.Amount.Cents,
		PaymentMethod: r.PaymentMethod,
		Location:      r.Location,
	}
}

func toReportResponse(rep *services.Report) reportResponse {
	out := reportResponse{
		Criteria:   toCriteriaResponse(rep.Criteria),
		Summary:    toSummaryResponse(rep.Summary),
		Insights:   rep.Insights,
		Advice:     rep.Advice,
		EmptyState: string(rep.Empty),
	}
	if out.Insights == nil {
		out.Insights = []string{}
	}
	if out.Advice == nil {
		out.Advice = []string{}
	}
	if rep.Profile != nil {
		u := toUserResponse(*rep.Profile)
		out.Profile = &u
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
