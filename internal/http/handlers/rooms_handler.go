package handlers

import (
	"net/http"

	"github.com/stayloop/hotel-bookings/internal/domain"
	"github.com/stayloop/hotel-bookings/internal/http/response"
	"github.com/stayloop/hotel-bookings/internal/service"
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

type RoomsHandler struct {
	roomService service.RoomService
}

func NewRoomsHandler(roomService service.RoomService) *RoomsHandler {
	return &RoomsHandler{roomService: roomService}
}

// List handles GET /api/rooms
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomService.ListRooms(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// Get handles GET /api/rooms/{room_id}
func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "room_id")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, room)
}

// Create handles POST /api/rooms (admin only)
func (h *RoomsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.RoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := h.roomService.CreateRoom(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "room created", "room_id", room.ID, "room_number", room.RoomNumber)
	response.WriteJSON(w, http.StatusCreated, room)
}

// Update handles PUT /api/rooms/{room_id} (admin only)
func (h *RoomsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "room_id")
	if !ok {
		return
	}

	var req domain.RoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := h.roomService.UpdateRoom(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated", "room_id", room.ID)
	response.WriteJSON(w, http.StatusOK, room)
}

// Delete handles DELETE /api/rooms/{room_id} (admin only). Rooms with
// bookings on record cannot be removed.
func (h *RoomsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "room_id")
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted", "room_id", id)
	w.WriteHeader(http.StatusNoContent)
}
