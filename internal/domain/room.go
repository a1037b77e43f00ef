package domain

import (
	"strings"
	"time"
)

type Room struct {
	ID          int64     `json:"room_id"`
	RoomNumber  string    `json:"room_number"`
	Type        string    `json:"type"`
	Price       float64   `json:"price"`
	IsAvailable bool      `json:"is_available"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoomRequest covers both create and full-replacement update.
type RoomRequest struct {
	RoomNumber  string  `json:"room_number" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	IsAvailable *bool   `json:"is_available" validate:"required"`
	Description *string `json:"description"`
}

func (r *RoomRequest) Normalize() {
	r.RoomNumber = strings.TrimSpace(r.RoomNumber)
	r.Type = strings.TrimSpace(r.Type)
}

func (r *RoomRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}
