package http

import (
	"errors"
	"net/http"

	"cashtrack/internal/log"
	"cashtrack/internal/services"
)

// getReport serves a report from the edge cache or builds and caches
// one. Reports are immutable once built, so sharing the pointer across
// requests is safe.
func (s *Server) getReport(r *http.Request) (*services.Report, error) {
	c, err := parseCriteria(r)
	if err != nil {
		return nil, err
	}

	key := c.Key()
	if rep, ok := s.reportCache.Get(key); ok {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Report cache hit", log.FieldCacheKey, key)
		return rep, nil
	}

	rep, err := s.reports.BuildReport(r.Context(), c)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(key, rep)
	return rep, nil
}

// reportStatus maps the empty-state classification to an HTTP status.
// A selected student with no rows is a valid informational view; an
// unscoped empty result usually means the filters are wrong.
func reportStatus(rep *services.Report) int {
	if rep.Empty == services.EmptyUnscoped {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func (s *Server) respondReportError(w http.ResponseWriter, r *http.Request, err error) {
	var bad *badRequestError
	if errors.As(err, &bad) {
		writeError(w, http.StatusBadRequest, bad.Error())
		return
	}
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Report pipeline failed",
		log.NewFields().WithError(err).ToSlice()...)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// handleMetrics exposes process counters for operators: request and
// throttling totals plus the report cache occupancy.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.GetMetrics()
	rm := s.limiter.GetMetrics()
	writeJSON(w, http.StatusOK, struct {
		TotalRequests      int64 `json:"total_requests"`
		AvgResponseMicros  int64 `json:"avg_response_micros"`
		RateLimited        int64 `json:"rate_limited_total"`
		TrackedClients     int64 `json:"tracked_clients"`
		ReportCacheEntries int   `json:"report_cache_entries"`
	}{
		TotalRequests:      tm.TotalRequests,
		AvgResponseMicros:  tm.AverageResponseTime,
		RateLimited:        rm.LimitedRequests,
		TrackedClients:     rm.ClientCount,
		ReportCacheEntries: s.reportCache.Size(),
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.reports.ListUsers(r.Context())
	if err != nil {
		s.respondReportError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	u, ok, err := s.reports.Profile(r.Context(), id)
	if err != nil {
		s.respondReportError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "unknown user")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.getReport(r)
	if err != nil {
		s.respondReportError(w, r, err)
		return
	}
	writeJSON(w, reportStatus(rep), toReportResponse(rep))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep, err := s.getReport(r)
	if err != nil {
		s.respondReportError(w, r, err)
		return
	}
	writeJSON(w, reportStatus(rep), toSummaryResponse(rep.Summary))
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	rep, err := s.getReport(r)
	if err != nil {
		s.respondReportError(w, r, err)
		return
	}
	advice := rep.Advice
	if advice == nil {
		advice = []string{}
	}
	writeJSON(w, reportStatus(rep), struct {
		Advice     []string `json:"advice"`
		EmptyState string   `json:"empty_state,omitempty"`
	}{Advice: advice, EmptyState: string(rep.Empty)})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	rep, err := s.getReport(r)
	if err != nil {
		s.respondReportError(w, r, err)
		return
	}
	insights := rep.Insights
	if insights == nil {
		insights = []string{}
	}
	writeJSON(w, reportStatus(rep), struct {
		Insights []string `json:"insights"`
	}{Insights: insights})
}

// handleTransactions serves the private transaction log. A user must be
// selected; the campus-wide view never exposes row-level data.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r)
	if err != nil {
		s.respondReportError(w, r, err)
		return
	}

	records, err := s.reports.Transactions(r.Context(), c)
	if err != nil {
		if errors.Is(err, services.ErrUserRequired) {
			writeError(w, http.StatusBadRequest, "the transaction log requires a user parameter")
			return
		}
		s.respondReportError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toTransactionResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}
