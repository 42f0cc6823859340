package api

import (
	"net/http"
	"strconv"

	"infinite-experiment/skywatch/internal/db/repositories"
	"infinite-experiment/skywatch/internal/models/dtos"
	"infinite-experiment/skywatch/internal/services"
)

// GetLatestPrices handles GET /api/v1/prices/latest
//
// @Summary Latest prices
// @Description Newest snapshot per route and airline, cheapest first.
// @Tags Prices
// @Produce json
// @Param route_id query int false "Route ID"
// @Param airline query string false "Airline IATA code"
// @Success 200 {object} responses.APIResponse[[]dtos.LatestPrice]
// @Router /api/v1/prices/latest [get]
func (h *Handlers) GetLatestPrices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID, err := intQuery(r, "route_id", 0)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}

		rows, err := h.deps.Services.Prices.Latest(r.Context(), repositories.LatestFilter{
			RouteID:     int64(routeID),
			AirlineCode: r.URL.Query().Get("airline"),
		})
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		if rows == nil {
			rows = []dtos.LatestPrice{}
		}

		respondWithSuccess(w, http.StatusOK, &rows)
	}
}

// GetPriceHistory handles GET /api/v1/prices/history/{route_id}
//
// @Summary Price history
// @Tags Prices
// @Produce json
// @Param route_id path int true "Route ID"
// @Param airline query string false "Airline IATA code"
// @Param days query int false "Lookback window in days" default(30)
// @Success 200 {object} responses.APIResponse[dtos.HistoryResponse]
// @Failure 404 {object} responses.APIResponse[any]
// @Router /api/v1/prices/history/{route_id} [get]
func (h *Handlers) GetPriceHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID, days, err := historyParams(r)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}

		history, err := h.deps.Services.Prices.History(r.Context(), routeID, r.URL.Query().Get("airline"), days)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, history)
	}
}

// ExportPriceHistory handles GET /api/v1/prices/history/{route_id}/export
func (h *Handlers) ExportPriceHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID, days, err := historyParams(r)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}

		data, filename, err := h.deps.Services.Prices.ExportHistoryCSV(r.Context(), routeID, r.URL.Query().Get("airline"), days)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// ComparePrices handles GET /api/v1/prices/compare/{route_id}
func (h *Handlers) ComparePrices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID, err := routeIDParam(r)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}

		cmp, err := h.deps.Services.Prices.Compare(r.Context(), routeID)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, cmp)
	}
}

// SearchPrices handles POST /api/v1/prices/search
//
// @Summary Ad-hoc price search
// @Description Queries the live provider (or synthetic model) without storing results.
// @Tags Prices
// @Accept json
// @Produce json
// @Param body body dtos.SearchRequest true "Search"
// @Success 200 {object} responses.APIResponse[dtos.SearchResponse]
// @Failure 400 {object} responses.APIResponse[any]
// @Router /api/v1/prices/search [post]
func (h *Handlers) SearchPrices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.SearchRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondWithAppError(w, r, err)
			return
		}

		resp, err := h.deps.Services.Prices.Search(r.Context(), req)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *Handlers) GetDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.deps.Services.Prices.Dashboard(r.Context())
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, stats)
	}
}

func historyParams(r *http.Request) (int64, int, error) {
	routeID, err := routeIDParam(r)
	if err != nil {
		return 0, 0, err
	}
	days, err := intQuery(r, "days", services.DefaultHistoryDays)
	if err != nil {
		return 0, 0, err
	}
	return routeID, days, nil
}
