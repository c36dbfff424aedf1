package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vheb/stocksim/internal/adapter/http/handler"
	"github.com/vheb/stocksim/internal/adapter/http/middleware"
	"github.com/vheb/stocksim/internal/infrastructure/auth"
	"github.com/vheb/stocksim/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	TradeHandler     *handler.TradeHandler
	PortfolioHandler *handler.PortfolioHandler
	QuoteHandler     *handler.QuoteHandler
	UserHandler      *handler.UserHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/", cfg.PortfolioHandler.Get)
				r.Get("/finances", cfg.PortfolioHandler.Finances)
				r.Get("/transactions", cfg.PortfolioHandler.Transactions)
			})

			r.Route("/trades", func(r chi.Router) {
				if cfg.IdempotencyStore != nil {
					r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
				}
				r.Post("/buy", cfg.TradeHandler.Buy)
				r.Post("/sell", cfg.TradeHandler.Sell)
			})

			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", cfg.QuoteHandler.List)
				r.Get("/{symbol}", cfg.QuoteHandler.Get)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", cfg.UserHandler.Me)
				r.Put("/me", cfg.UserHandler.UpdateMe)
				r.Put("/me/password", cfg.UserHandler.ChangePassword)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", cfg.UserHandler.List)
					r.Delete("/{id}", cfg.UserHandler.Delete)
				})
			})
		})
	})

	return r
}
