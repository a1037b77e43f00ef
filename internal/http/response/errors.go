package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stayloop/hotel-bookings/internal/domain"
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

// ErrorResponse is the JSON error body shared by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInternalError = "INTERNAL_ERROR"
	CodeExpiredToken  = "EXPIRED_TOKEN"
	CodeInvalidToken  = "INVALID_TOKEN"
)

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

// FromError classifies a service-layer error onto the HTTP taxonomy.
// Unrecognized errors are logged server-side and degrade to a generic
// 500 so store internals never leak to clients.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidation(err):
		BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, domain.ErrEmailExists),
		errors.Is(err, domain.ErrRoomNumberExists),
		errors.Is(err, domain.ErrRoomUnavailable),
		errors.Is(err, domain.ErrRoomHasBookings):
		Conflict(w, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		Forbidden(w, "please confirm your email to login")
	case errors.Is(err, domain.ErrAlreadyConfirmed),
		errors.Is(err, domain.ErrInvalidResetToken):
		BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrInvalidCode):
		NotFound(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "unhandled error", "error", err, "path", r.URL.Path)
		InternalError(w, "server error")
	}
}
