// Package http exposes the tracker's JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Jaichauhan01/expense-tracker/internal/cache"
	"github.com/Jaichauhan01/expense-tracker/internal/core"
	applog "github.com/Jaichauhan01/expense-tracker/internal/log"
	"github.com/Jaichauhan01/expense-tracker/internal/middleware/ratelimit"
	"github.com/Jaichauhan01/expense-tracker/internal/middleware/security"
	"github.com/Jaichauhan01/expense-tracker/internal/middleware/trace"
	"github.com/Jaichauhan01/expense-tracker/internal/services"
)

// Options tunes server caching and rate limiting.
type Options struct {
	CacheSize          int
	CacheTTL           time.Duration
	RateLimitPerMinute int
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		CacheSize:          128,
		CacheTTL:           5 * time.Minute,
		RateLimitPerMinute: 120,
	}
}

type Server struct {
	http.Server
	ledger  *services.LedgerService
	cursor  *core.MonthCursor
	limiter *ratelimit.Limiter
	tracer  *trace.Middleware
	logs    *applog.StructuredLogger

	// Derived-view caches, purged wholesale on every mutation
	summaryCache *cache.LRUCache[summaryResponse]
	historyCache *cache.LRUCache[[]core.PeriodBucket]
	cacheManager *cache.Manager

	now func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ledger *services.LedgerService, opts Options) *Server {
	if opts.CacheSize <= 0 || opts.CacheTTL <= 0 || opts.RateLimitPerMinute <= 0 {
		opts = DefaultOptions()
	}

	mux := http.NewServeMux()

	httpLogger := applog.Default(applog.ComponentHTTP)

	s := &Server{
		ledger:  ledger,
		cursor:  core.NewMonthCursor(nil),
		limiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		logs:    applog.NewStructuredLogger(httpLogger),

		summaryCache: cache.NewLRUCache[summaryResponse](opts.CacheSize, opts.CacheTTL),
		historyCache: cache.NewLRUCache[[]core.PeriodBucket](opts.CacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(),

		now: time.Now,
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.historyCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/transactions", s.handleTransactions)
	mux.HandleFunc("/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/summary", s.handleSummary)
	mux.HandleFunc("/netflow", s.handleNetFlow)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/history/previous", s.handleHistoryPrevious)
	mux.HandleFunc("/history/next", s.handleHistoryNext)
	mux.HandleFunc("/history/current", s.handleHistoryCurrent)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.tracer = trace.NewMiddleware(clientIP, s.logs)

	handler := headers.Middleware(
		applog.Middleware(httpLogger)(
			s.tracer.Middleware(s.withMutationRateLimit(mux))))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}

	return s
}

// withMutationRateLimit applies the per-client limiter to mutating
// requests only; reads stay unthrottled.
func (s *Server) withMutationRateLimit(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(clientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			limited.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateCaches drops every cached derived view. Called after any
// mutation since all views derive from the full transaction list.
func (s *Server) invalidateCaches() {
	s.summaryCache.Purge()
	s.historyCache.Purge()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type readyResponse struct {
	Status           string `json:"status"`
	RequestsServed   int64  `json:"requests_served"`
	RateLimitClients int    `json:"rate_limit_clients"`
}

// handleReady reports readiness plus a few process counters, enough
// for a quick curl without a separate metrics endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, readyResponse{
		Status:           "ready",
		RequestsServed:   s.tracer.TotalRequests(),
		RateLimitClients: s.limiter.ActiveClients(),
	})
}
