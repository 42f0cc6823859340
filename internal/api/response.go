package api

import (
	"encoding/json"
	"net/http"
	"time"

	"infinite-experiment/skywatch/internal/apperrors"
	"infinite-experiment/skywatch/internal/constants"
	reqctx "infinite-experiment/skywatch/internal/context"
	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/models/dtos/responses"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    string(constants.APIStatusOk),
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, code, message string) {
	resp := responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		Timestamp: time.Now().UTC(),
		Code:      code,
		Error:     message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithAppError maps any error onto its AppError status; internals are only logged
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.From(err)

	if appErr.StatusCode >= http.StatusInternalServerError {
		logging.Error("Request failed",
			"request_id", reqctx.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"code", appErr.Code,
			"error", err,
		)
	}

	respondWithError(w, appErr.StatusCode, appErr.Code, appErr.Message)
}
