package domain

import (
	"time"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func IsValidBookingStatus(s string) bool {
	return s == string(BookingConfirmed) || s == string(BookingCancelled)
}

type Booking struct {
	ID           int64         `json:"booking_id"`
	UserID       int64         `json:"user_id"`
	RoomID       int64         `json:"room_id"`
	CheckInDate  time.Time     `json:"check_in_date"`
	CheckOutDate time.Time     `json:"check_out_date"`
	TotalPrice   float64       `json:"total_price"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// DateLayout is the wire format for check-in/check-out dates.
const DateLayout = "2006-01-02"

// BookingRequest covers create and full-replacement update. Dates come
// in as ISO calendar dates; Validate parses them once and the getters
// expose the parsed values.
type BookingRequest struct {
	UserID       int64   `json:"user_id" validate:"required,gt=0"`
	RoomID       int64   `json:"room_id" validate:"required,gt=0"`
	CheckInDate  string  `json:"check_in_date" validate:"required"`
	CheckOutDate string  `json:"check_out_date" validate:"required"`
	TotalPrice   float64 `json:"total_price" validate:"required,gt=0"`
	Status       string  `json:"status" validate:"omitempty,oneof=confirmed cancelled"`

	checkIn  time.Time
	checkOut time.Time
}

func (r *BookingRequest) Normalize() {
	if r.Status == "" {
		r.Status = string(BookingConfirmed)
	}
}

func (r *BookingRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}

	var err error
	r.checkIn, err = ParseDate(r.CheckInDate)
	if err != nil {
		return NewValidationError("check_in_date", "must be a valid date")
	}
	r.checkOut, err = ParseDate(r.CheckOutDate)
	if err != nil {
		return NewValidationError("check_out_date", "must be a valid date")
	}
	if !r.checkIn.Before(r.checkOut) {
		return NewValidationError("check_in_date", "check-in date must be before check-out date")
	}
	return nil
}

// CheckIn returns the parsed check-in date. Valid only after Validate.
func (r *BookingRequest) CheckIn() time.Time { return r.checkIn }

// CheckOut returns the parsed check-out date. Valid only after Validate.
func (r *BookingRequest) CheckOut() time.Time { return r.checkOut }

// ParseDate accepts a calendar date, falling back to RFC 3339 for
// clients that send full timestamps.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Overlaps reports whether two half-open date ranges share an instant.
// Back-to-back stays (one checks out the day the next checks in) do not
// conflict.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}
