package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/gobudget/internal/adapter/http/handler"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FrameHandler       *handler.FrameHandler
	CategoryHandler    *handler.CategoryHandler
	TransactionHandler *handler.TransactionHandler
	DebtHandler        *handler.DebtHandler
	AuthHandler        *handler.AuthHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	JWTManager         *auth.JWTManager
	AuthRequired       bool
	RateLimiter        *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.AuthHandler != nil {
		r.Post("/auth/login", cfg.AuthHandler.Login)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			if cfg.AuthRequired {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			} else {
				r.Use(middleware.OptionalAuth(cfg.JWTManager))
			}
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Group ledgers
		r.Route("/groups/{gid}", func(r chi.Router) {
			r.Get("/frames", cfg.FrameHandler.Get)

			r.Route("/frames/{index}", func(r chi.Router) {
				r.Put("/income", cfg.FrameHandler.SetIncome)
				r.Get("/insights", cfg.FrameHandler.GetInsights)
				r.Post("/categories", cfg.CategoryHandler.Create)
				r.Post("/transactions", cfg.TransactionHandler.Add)
				r.Get("/transactions", cfg.TransactionHandler.List)
			})

			r.Route("/categories/{id}", func(r chi.Router) {
				r.Patch("/budget", cfg.CategoryHandler.UpdateBudget)
				r.Post("/cover", cfg.CategoryHandler.Cover)
				r.Get("/history", cfg.CategoryHandler.GetHistory)
				r.Delete("/", cfg.CategoryHandler.Delete)
			})

			r.Route("/transactions/{id}", func(r chi.Router) {
				r.Get("/", cfg.TransactionHandler.Get)
				r.Patch("/", cfg.TransactionHandler.Update)
				r.Patch("/split", cfg.TransactionHandler.UpdateSplit)
				r.Delete("/", cfg.TransactionHandler.Delete)
			})
		})

		// Friend debts
		r.Route("/users/{uid}/debts", func(r chi.Router) {
			r.Get("/", cfg.DebtHandler.List)
			r.Get("/{other}", cfg.DebtHandler.Get)
		})

		r.Route("/debts", func(r chi.Router) {
			r.Post("/payments", cfg.DebtHandler.AddPayment)
			r.Post("/charges", cfg.DebtHandler.AddCharge)
		})
	})

	return r
}
