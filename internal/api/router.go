package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/stock-portfolio-tracker/internal/api/middleware"
	"github.com/ndewijer/stock-portfolio-tracker/internal/config"
	"github.com/ndewijer/stock-portfolio-tracker/internal/service"
)

// Services groups the services the HTTP layer delegates to.
type Services struct {
	System    *service.SystemService
	User      *service.UserService
	Portfolio *service.PortfolioService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// A request may wait on the upstream price API; bound it a little above the client timeout.
	r.Use(middleware.Timeout(cfg.StockAPI.Timeout + 2*time.Second))

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(services.System)
	userHandler := handlers.NewUserHandler(services.User)
	portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio)
	stockHandler := handlers.NewStockHandler(services.Portfolio)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Get("/cache", systemHandler.CacheStats)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.CreateUser)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/{uuid}", userHandler.GetUser)
		})

		r.Route("/portfolios", func(r chi.Router) {
			r.Post("/", portfolioHandler.CreatePortfolio)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/user/{uuid}", portfolioHandler.UserPortfolios)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.GetPortfolio)
				r.Get("/summary", portfolioHandler.PortfolioSummary)

				r.Route("/holdings/{holdingId}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDParams("holdingId"))
					r.Put("/", portfolioHandler.UpdateHolding)
					r.Delete("/", portfolioHandler.DeleteHolding)
				})
			})
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Post("/", stockHandler.AddStock)
			r.Get("/price/{ticker}", stockHandler.CurrentPrice)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Put("/", stockHandler.UpdateStock)
				r.Delete("/", stockHandler.DeleteStock)
			})
		})
	})

	return r
}
