package handlers

import (
	"net/http"

	"github.com/stayloop/hotel-bookings/internal/domain"
	mw "github.com/stayloop/hotel-bookings/internal/http/middleware"
	"github.com/stayloop/hotel-bookings/internal/http/response"
	"github.com/stayloop/hotel-bookings/internal/service"
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

type BookingsHandler struct {
	bookingService service.BookingService
}

func NewBookingsHandler(bookingService service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookingService: bookingService}
}

// Create handles POST /api/bookings. Customers may only book for
// themselves; admins may book on behalf of any user.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req domain.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if claims.Role != domain.RoleAdmin && req.UserID != claims.UserID {
		response.Forbidden(w, "cannot book on behalf of another user")
		return
	}

	booking, err := h.bookingService.CreateBooking(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "booking created",
		"booking_id", booking.ID, "room_id", booking.RoomID, "user_id", booking.UserID)
	response.WriteJSON(w, http.StatusCreated, booking)
}

// List handles GET /api/bookings (admin only)
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	bookings, err := h.bookingService.ListBookings(r.Context(), limit, offset)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// Get handles GET /api/bookings/{booking_id}. Customers may only read
// their own bookings.
func (h *BookingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, ok := pathID(w, r, "booking_id")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	if claims.Role != domain.RoleAdmin && booking.UserID != claims.UserID {
		response.Forbidden(w, "insufficient permissions")
		return
	}

	response.WriteJSON(w, http.StatusOK, booking)
}

// ListByUser handles GET /api/bookings/user/{user_id} (owner or admin).
// A user with no bookings gets an empty list, not a 404.
func (h *BookingsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	if claims.Role != domain.RoleAdmin && userID != claims.UserID {
		response.Forbidden(w, "insufficient permissions")
		return
	}

	bookings, err := h.bookingService.ListBookingsByUser(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// ListByRoom handles GET /api/bookings/room/{room_id} (admin only).
func (h *BookingsHandler) ListByRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "room_id")
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListBookingsByRoom(r.Context(), roomID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// Update handles PUT /api/bookings/{booking_id} (owner or admin).
// Cancellation goes through here as a status change to "cancelled".
func (h *BookingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, ok := pathID(w, r, "booking_id")
	if !ok {
		return
	}

	existing, err := h.bookingService.GetBooking(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if claims.Role != domain.RoleAdmin && existing.UserID != claims.UserID {
		response.Forbidden(w, "insufficient permissions")
		return
	}

	var req domain.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if claims.Role != domain.RoleAdmin && req.UserID != claims.UserID {
		response.Forbidden(w, "cannot reassign booking to another user")
		return
	}

	booking, err := h.bookingService.UpdateBooking(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "booking updated", "booking_id", booking.ID, "status", booking.Status)
	response.WriteJSON(w, http.StatusOK, booking)
}

// Delete handles DELETE /api/bookings/{booking_id} (admin only;
// customers cancel via PUT with status "cancelled").
func (h *BookingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "booking_id")
	if !ok {
		return
	}

	if err := h.bookingService.DeleteBooking(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "booking deleted", "booking_id", id)
	w.WriteHeader(http.StatusNoContent)
}
