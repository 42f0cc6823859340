package routes

import (
	"github.com/go-chi/chi/v5"

	"infinite-experiment/skywatch/internal/api"
	"infinite-experiment/skywatch/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, jobsHandler *api.JobsHandler, limiter *middleware.RateLimiter) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)

		v1.Get("/dashboard", handlers.GetDashboard())
		v1.Get("/airlines", handlers.ListAirlines())

		v1.Route("/routes", func(rt chi.Router) {
			rt.Get("/", handlers.ListRoutes())
			rt.Get("/regions", handlers.ListRegions())
		})

		v1.Route("/prices", func(p chi.Router) {
			p.Get("/latest", handlers.GetLatestPrices())
			p.Get("/history/{route_id}", handlers.GetPriceHistory())
			p.Get("/history/{route_id}/export", handlers.ExportPriceHistory())
			p.Get("/compare/{route_id}", handlers.ComparePrices())
			p.Post("/search", handlers.SearchPrices())
		})

		v1.Route("/alerts", func(a chi.Router) {
			a.Get("/", handlers.ListAlerts())
			a.Post("/", handlers.CreateAlert())
		})

		v1.Post("/jobs/fetch-now", jobsHandler.TriggerFetch())
	})
}
