package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/logger"
)

type errorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code"`
	ConflictStart string `json:"conflict_start,omitempty"`
	ConflictEnd   string `json:"conflict_end,omitempty"`
	Retryable     bool   `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: http.StatusText(status)})
}

// writeError maps the domain error taxonomy onto HTTP statuses. The
// presentation layer owns user-facing wording; we just carry the facts.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var conflictErr *domain.BookingConflictError
	var permissionErr *domain.PermissionDeniedError
	var transitionErr *domain.InvalidTransitionError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Code: "validation_error"})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:         conflictErr.Error(),
			Code:          "booking_conflict",
			ConflictStart: conflictErr.Start.Format("2006-01-02"),
			ConflictEnd:   conflictErr.End.Format("2006-01-02"),
		})
	case errors.As(err, &permissionErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: permissionErr.Error(), Code: "permission_denied"})
	case errors.As(err, &transitionErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: transitionErr.Error(), Code: "invalid_transition"})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		// The caller should re-fetch and retry once, not loop.
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "concurrency_conflict", Retryable: true})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	default:
		logger.Error("Unhandled error in HTTP layer", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal"})
	}
}
