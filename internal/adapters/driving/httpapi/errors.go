package httpapi

import (
	"errors"
	"net/http"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/logger"
)

// Error codes returned to clients.
const (
	codeInvalidRequest     = "INVALID_REQUEST"
	codeNotFound           = "NOT_FOUND"
	codeServiceUnavailable = "SERVICE_UNAVAILABLE"
	codeInternalError      = "INTERNAL_ERROR"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error domain.ErrorDetail `json:"error"`
}

// writeError maps a pipeline error to a status code and JSON envelope.
// Internal failures are logged but never echoed to the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: domain.ErrorDetail{
			Code:    codeInvalidRequest,
			Message: err.Error(),
		}})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrorDetail{
			Code:    codeNotFound,
			Message: err.Error(),
		}})
	case domain.IsUnavailable(err),
		errors.Is(err, domain.ErrRetrievalFailed),
		errors.Is(err, domain.ErrGenerationFailed):
		logger.Error("upstream failure: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: domain.ErrorDetail{
			Code:    codeServiceUnavailable,
			Message: "AI service temporarily unavailable",
		}})
	default:
		logger.Error("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: domain.ErrorDetail{
			Code:    codeInternalError,
			Message: "internal server error",
		}})
	}
}
