package api

import (
	"net/http"

	"infinite-experiment/skywatch/internal/models/dtos"
)

// CreateAlert handles POST /api/v1/alerts
//
// @Summary Create a price alert
// @Description Watches a route (optionally one airline) and emails once when the latest fare reaches the target.
// @Tags Alerts
// @Accept json
// @Produce json
// @Param body body dtos.CreateAlertRequest true "Alert"
// @Success 201 {object} responses.APIResponse[dtos.AlertView]
// @Failure 400 {object} responses.APIResponse[any]
// @Failure 404 {object} responses.APIResponse[any]
// @Router /api/v1/alerts [post]
func (h *Handlers) CreateAlert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateAlertRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondWithAppError(w, r, err)
			return
		}

		view, err := h.deps.Services.Alerts.CreateAlert(r.Context(), req)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, view)
	}
}

// ListAlerts handles GET /api/v1/alerts
func (h *Handlers) ListAlerts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alerts, err := h.deps.Services.Alerts.ListActive(r.Context())
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &alerts)
	}
}
