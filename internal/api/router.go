// Package api wires the HTTP surface: routing, middleware ordering, and
// handler construction.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nkoopman/dividend-tracker-backend/internal/api/handlers"
	custommiddleware "github.com/nkoopman/dividend-tracker-backend/internal/api/middleware"
	"github.com/nkoopman/dividend-tracker-backend/internal/auth"
	"github.com/nkoopman/dividend-tracker-backend/internal/config"
	"github.com/nkoopman/dividend-tracker-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	holdingService *service.HoldingService,
	quoteService *service.QuoteService,
	dividendService *service.DividendService,
	profileService *service.ProfileService,
	verifier *auth.Verifier,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService, holdingService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.With(custommiddleware.APIKeyMiddleware).Post("/refresh", systemHandler.RefreshAll)
		})

		// Public market data lookups, no owner scope
		marketHandler := handlers.NewMarketHandler(quoteService, dividendService, profileService)
		r.Get("/stockTicker", marketHandler.StockTicker)
		r.Get("/dividends", marketHandler.Dividends)
		r.Get("/dividendSummary", marketHandler.DividendSummary)

		// Owner-scoped portfolio, bearer credential required
		r.Route("/portfolio", func(r chi.Router) {
			r.Use(custommiddleware.NewAuth(verifier))

			holdingHandler := handlers.NewHoldingHandler(holdingService)
			r.Get("/", holdingHandler.GetHoldings)
			r.Post("/", holdingHandler.CreateHolding)
			r.Post("/refresh", holdingHandler.RefreshAllHoldings)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Put("/", holdingHandler.UpdateHolding)
				r.Delete("/", holdingHandler.DeleteHolding)
				r.Post("/refresh", holdingHandler.RefreshHolding)
			})
		})
	})

	return r
}
