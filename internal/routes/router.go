package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"infinite-experiment/skywatch/internal/api"
	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/middleware"
)

const (
	rateLimitRPS   = 10
	rateLimitBurst = 20
)

// RegisterRoutes builds the HTTP handler tree from already-wired dependencies
func RegisterRoutes(deps *api.Dependencies, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.Logging)
	r.Use(middleware.InFlightMiddleware(deps.Metrics))
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	handlers := api.NewHandlers(deps)
	jobsHandler := api.NewJobsHandler(deps.Jobs.PriceFetch)

	r.Get("/healthCheck", handlers.HealthCheckHandler(upSince))
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	RegisterAPIRoutes(r, handlers, jobsHandler, middleware.NewRateLimiter(rateLimitRPS, rateLimitBurst))

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
