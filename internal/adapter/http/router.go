package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/adapter/http/handler"
	"github.com/zeroedbooks/ledger/internal/adapter/http/middleware"
	"github.com/zeroedbooks/ledger/internal/infrastructure/metrics"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// DefaultRequestTimeout bounds a request when RouterConfig.RequestTimeout is zero.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	AccountHandler     *handler.AccountHandler
	CurrencyHandler    *handler.CurrencyHandler
	HealthHandler      *handler.HealthHandler

	// TokenVerifier enables bearer authentication. When nil the owner is read
	// from the X-Owner-ID header.
	TokenVerifier middleware.TokenVerifier

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	RateLimiter *middleware.RateLimiter

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// AllowedOrigins enables CORS for browser clients. Empty disables it.
	AllowedOrigins []string

	Logger         zerolog.Logger
	RequestTimeout time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger, "/health", "/ready", "/metrics").Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(corsHandler(cfg.AllowedOrigins))
	}
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/currencies", cfg.CurrencyHandler.List)
		r.Get("/currencies/{code}", cfg.CurrencyHandler.Get)

		r.Group(func(r chi.Router) {
			if cfg.TokenVerifier != nil {
				r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
			} else {
				r.Use(middleware.HeaderOwner)
			}

			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}

			if cfg.IdempotencyStore != nil {
				idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				if cfg.Metrics != nil {
					idempotency.OnReplay(cfg.Metrics.IdempotentReplays.Inc)
				}
				r.Use(idempotency.Wrap)
			}

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Put("/{id}", cfg.TransactionHandler.Update)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", cfg.AccountHandler.Suggestions)
				r.Get("/{account}/balance", cfg.AccountHandler.Balance)
				r.Get("/{account}/trend", cfg.AccountHandler.Trend)
			})
		})
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.OwnerHeader, middleware.IdempotencyKeyHeader},
		ExposedHeaders: []string{"Location", "Retry-After", middleware.IdempotencyReplayHeader},
		MaxAge:         300,
	})
}
