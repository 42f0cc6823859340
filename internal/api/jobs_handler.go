package api

import (
	"context"
	"net/http"
	"time"

	"infinite-experiment/skywatch/internal/apperrors"
	reqctx "infinite-experiment/skywatch/internal/context"
	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/models/dtos"
)

// CycleRunner runs one full fetch cycle
type CycleRunner interface {
	RunCycle(ctx context.Context) (dtos.CycleResult, error)
}

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	fetchJob CycleRunner
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(fetchJob CycleRunner) *JobsHandler {
	return &JobsHandler{
		fetchJob: fetchJob,
	}
}

// TriggerFetch runs one fetch cycle synchronously and returns its counters
//
// @Summary Trigger price fetch
// @Description Runs a full fetch cycle now. May overlap with the scheduled cycle.
// @Tags jobs
// @Produce json
// @Success 200 {object} responses.APIResponse[dtos.CycleResult]
// @Failure 500 {object} responses.APIResponse[any]
// @Router /api/v1/jobs/fetch-now [post]
func (h *JobsHandler) TriggerFetch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := reqctx.GetRequestID(r.Context())
		logging.Info("Price fetch manually triggered", "request_id", requestID)

		// a live cycle can outlast the server's write timeout
		if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
			logging.Debug("Could not lift write deadline", "request_id", requestID, "error", err)
		}

		// a client disconnect must not abort a half-written cycle
		ctx := context.WithoutCancel(r.Context())

		result, err := h.fetchJob.RunCycle(ctx)
		if err != nil {
			respondWithAppError(w, r, apperrors.Wrap(apperrors.ErrInternal, err))
			return
		}

		respondWithSuccess(w, http.StatusOK, &result)
	}
}
