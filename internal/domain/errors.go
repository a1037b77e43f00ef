package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across repositories and services. Handlers map
// these onto HTTP status codes; anything unrecognized degrades to 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrRoomNotFound       = fmt.Errorf("room %w", ErrNotFound)
	ErrBookingNotFound    = fmt.Errorf("booking %w", ErrNotFound)
	ErrEmailExists        = errors.New("email already exists")
	ErrRoomNumberExists   = errors.New("room number already exists")
	ErrRoomUnavailable    = errors.New("room is not available for the selected dates")
	ErrRoomHasBookings    = errors.New("room has active bookings")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrAlreadyConfirmed   = errors.New("email already confirmed")
	ErrInvalidCode        = errors.New("invalid confirmation code")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// ValidationError marks boundary failures so handlers can answer 400
// without string matching.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a boundary validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
