package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gosend/internal/adapter/http/handler"
	"github.com/iho/gosend/internal/adapter/http/middleware"
	"github.com/iho/gosend/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SessionHandler   *handler.SessionHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Logger           zerolog.Logger
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", cfg.SessionHandler.Open)
			r.Get("/{id}", cfg.SessionHandler.Get)
			r.Put("/{id}/draft", cfg.SessionHandler.UpdateDraft)
			r.Post("/{id}/continue", cfg.SessionHandler.Continue)
			r.Post("/{id}/edit", cfg.SessionHandler.Edit)
			r.Post("/{id}/save", cfg.SessionHandler.Save)
			r.Post("/{id}/confirm", cfg.SessionHandler.Confirm)
			r.Post("/{id}/verify", cfg.SessionHandler.Verify)
			r.Post("/{id}/retry", cfg.SessionHandler.Retry)
			r.Post("/{id}/cancel-step-up", cfg.SessionHandler.CancelStepUp)
			r.Delete("/{id}", cfg.SessionHandler.Abandon)
		})
	})

	return r
}
