// Package http exposes the ledger and its analytics as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Ledger is the write and lookup side used by the CRUD handlers.
type Ledger interface {
	ListTransactions(ctx context.Context, userID string, f services.TransactionFilter) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error

	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	GetCategory(ctx context.Context, userID, id string) (core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
}

// Reports serves computed analytics.
type Reports interface {
	Report(ctx context.Context, userID string) (core.Report, error)
}

var (
	_ Ledger  = (*services.LedgerService)(nil)
	_ Reports = (*services.AnalyticsService)(nil)
)

// Options configures the server. Zero values fall back to defaults.
type Options struct {
	Addr               string
	DefaultUserID      string
	RateLimitPerMinute int
	// Pinger backs /readyz; nil means always ready
	Pinger ledger.Pinger
	// CacheSize reports memoized reports for /metrics
	CacheSize func() int
	Logger    *log.Logger
}

type appMetrics struct {
	uptime time.Time
}

type Server struct {
	http.Server
	ledger      Ledger
	reports     Reports
	pinger      ledger.Pinger
	cacheSize   func() int
	defaultUser string
	logger      *log.Logger
	now         func() time.Time

	traceMiddleware  *trace.Middleware
	securityDetector *security.Detector
	rateLimiter      *ratelimit.Limiter
	appMetrics       appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(l Ledger, reports Reports, opts Options) *Server {
	if opts.DefaultUserID == "" {
		opts.DefaultUserID = "local"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		ledger:           l,
		reports:          reports,
		pinger:           opts.Pinger,
		cacheSize:        opts.CacheSize,
		defaultUser:      opts.DefaultUserID,
		logger:           opts.Logger,
		now:              time.Now,
		traceMiddleware:  trace.NewMiddleware(),
		securityDetector: security.NewDetector(),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		appMetrics:       appMetrics{uptime: time.Now()},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/analytics", s.handleReport)
	mux.HandleFunc("GET /api/analytics/monthly", s.handleMonthly)
	mux.HandleFunc("GET /api/analytics/period", s.handlePeriod)
	mux.HandleFunc("GET /api/analytics/categories", s.handleDistribution)
	mux.HandleFunc("GET /api/analytics/totals", s.handleTotals)
	mux.HandleFunc("GET /api/analytics/daily-average", s.handleDailyAverage)
	mux.HandleFunc("GET /api/analytics/top-category", s.handleTopCategory)
	mux.HandleFunc("GET /api/analytics/budgets", s.handleBudgets)
	mux.HandleFunc("GET /api/analytics/recent", s.handleRecent)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	limit := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimit,
		http.MethodPost, http.MethodPut, http.MethodDelete)

	// Outermost first
	s.Handler = chain(mux,
		s.traceMiddleware.Middleware,
		log.Middleware(s.logger, trace.RequestID, s.securityDetector.ExtractClientIP),
		security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware,
		s.securityDetector.Middleware(s.logger.WithComponent(log.ComponentSecurity)),
		limit,
	)
	return s
}

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldComponent, log.ComponentRateLimit,
		"client_ip", s.securityDetector.ExtractClientIP(r),
		"method", r.Method,
		"path", r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, try again later"})
}

// Shutdown stops background routines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// userID resolves the acting user from X-User-ID, falling back to the default.
func (s *Server) userID(r *http.Request) string {
	if id := sanitizeInput(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	return s.defaultUser
}
