// Package http exposes the analytics pipeline as a JSON API. Every
// read endpoint is a pure function of the query parameters, so whole
// reports are cached at this edge keyed by the normalized criteria.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"cashtrack/internal/cache"
	"cashtrack/internal/log"
	"cashtrack/internal/middleware/ratelimit"
	"cashtrack/internal/middleware/security"
	"cashtrack/internal/middleware/trace"
	"cashtrack/internal/services"
)

// Options tunes the HTTP edge. Zero values fall back to defaults.
type Options struct {
	CacheTTL           time.Duration
	CacheMaxEntries    int
	RateLimitPerMinute int
	Logger             *log.Logger
}

func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.CacheMaxEntries <= 0 {
		o.CacheMaxEntries = 100
	}
	if o.RateLimitPerMinute <= 0 {
		o.RateLimitPerMinute = 60
	}
	if o.Logger == nil {
		o.Logger = log.New(log.DefaultConfig())
	}
	return o
}

type Server struct {
	http.Server

	reports *services.ReportService
	logger  *log.Logger

	reportCache  *cache.LRUCache[*services.Report]
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, reports *services.ReportService, opts Options) *Server {
	opts = opts.withDefaults()

	s := &Server{
		reports:     reports,
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
		reportCache: cache.NewLRUCache[*services.Report](opts.CacheMaxEntries, opts.CacheTTL),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
		detector: security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	s.cacheManager = cache.NewManager()
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/advice", s.handleAdvice)
	mux.HandleFunc("GET /api/insights", s.handleInsights)
	mux.HandleFunc("GET /api/transactions", s.handleTransactions)
	mux.HandleFunc("GET /debug/metrics", s.handleMetrics)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.middleware(mux),
	}
	return s
}

// middleware composes the request chain: context logger, tracing,
// request-id logger enrichment, security headers, then rate limiting.
// Order matters: the tracer assigns the request id before the logger
// picks it up, and the limiter runs last so rejected requests still get
// traced and logged.
func (s *Server) middleware(next http.Handler) http.Handler {
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	handler := s.limiter.Middleware(s.detector.ExtractClientIP, nil)(next)
	handler = headers.Middleware(handler)
	handler = log.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(s.logger)(handler)
	return handler
}

// Shutdown stops the background cleanup routines and the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Info("Server shutting down", log.FieldOperation, log.OpShutdown)
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if _, err := s.reports.ListUsers(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Readiness probe failed", log.FieldError, err.Error())
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("dataset unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
