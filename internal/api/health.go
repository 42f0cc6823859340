package api

import (
	"context"
	"net/http"
	"time"

	"infinite-experiment/skywatch/internal/models/entities"
)

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Verifies the server is running and the database answers.
// @Tags Misc
// @Success 200 {object} entities.HealthCheckResponse
// @Failure 503 {object} entities.HealthCheckResponse
// @Router /healthCheck [get]
func (h *Handlers) HealthCheckHandler(upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]entities.ServiceStatus)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := entities.ServiceStatus{Status: "ok", Details: "Database connected"}
		start := time.Now()
		if err := h.deps.DB.PingContext(ctx); err != nil {
			dbStatus.Status = "down"
			dbStatus.Details = err.Error()
		}
		dbStatus.LatencyMS = time.Since(start).Milliseconds()
		services["database"] = dbStatus

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services:     services,
			Status:       overallStatus,
			LiveProvider: h.deps.LiveProvider,
			EmailEnabled: h.deps.Services.Notifier.Enabled(),
			UpSince:      upSince.UTC(),
			Uptime:       time.Since(upSince).Round(time.Second).String(),
		}

		statusCode := http.StatusOK
		if overallStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		respondWithSuccess(w, statusCode, &resp)
	}
}
