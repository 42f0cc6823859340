package api

import "net/http"

// ListAirlines handles GET /api/v1/airlines
func (h *Handlers) ListAirlines() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		airlines, err := h.deps.Services.Prices.Airlines(r.Context())
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &airlines)
	}
}

// ListRoutes handles GET /api/v1/routes?region=
func (h *Handlers) ListRoutes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routes, err := h.deps.Services.Prices.Routes(r.Context(), r.URL.Query().Get("region"))
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &routes)
	}
}

// ListRegions handles GET /api/v1/routes/regions
func (h *Handlers) ListRegions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regions, err := h.deps.Services.Prices.Regions(r.Context())
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &regions)
	}
}
