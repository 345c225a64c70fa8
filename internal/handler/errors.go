package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/joyroute/backend/internal/domain"
)

// errorResponse is the JSON error body for every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON encodes v as the response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck — the client is gone if this fails; nothing to do.
	json.NewEncoder(w).Encode(v)
}

// respondError maps a service error onto an HTTP status and JSON body using
// the domain sentinel errors. Unrecognized errors become a 500 with a
// generic message so internal detail never leaks to the client.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", "resource already exists")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, domain.ErrOptimizer):
		writeError(w, http.StatusBadGateway, "optimizer_error", "route optimizer unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// badRequest rejects a request before it reaches the service layer
// (missing or malformed body, unparseable path parameter).
func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// decodeJSON decodes the request body into v. A body exceeding the
// server-wide size limit is a 413; anything else undecodable is a 422.
// Returns false after writing the error response.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
		return false
	}
	badRequest(w, "invalid request body")
	return false
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	sentinel := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, sentinel); i >= 0 {
		return msg[i+len(sentinel):]
	}
	return msg
}
