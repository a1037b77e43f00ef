package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stayloop/hotel-bookings/internal/domain"
	mw "github.com/stayloop/hotel-bookings/internal/http/middleware"
	"github.com/stayloop/hotel-bookings/internal/http/response"
	"github.com/stayloop/hotel-bookings/internal/service"
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

// UsersHandler serves the admin-only user management endpoints.
type UsersHandler struct {
	authService service.AuthService
}

func NewUsersHandler(authService service.AuthService) *UsersHandler {
	return &UsersHandler{authService: authService}
}

// List handles GET /api/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	users, err := h.authService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	infos := make([]*domain.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].ToUserInfo())
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": infos,
		"count": len(infos),
	})
}

// Get handles GET /api/users/{user_id}. Customers may read their own
// record; everyone else's requires admin.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	if claims.Role != domain.RoleAdmin && id != claims.UserID {
		response.Forbidden(w, "insufficient permissions")
		return
	}

	user, err := h.authService.GetUser(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, user.ToUserInfo())
}

// GetByEmail handles GET /api/users/email/{email}
func (h *UsersHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "email")))
	if email == "" {
		response.BadRequest(w, "invalid email")
		return
	}

	user, err := h.authService.GetUserByEmail(r.Context(), email)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, user.ToUserInfo())
}

// Update handles PUT /api/users/{user_id}
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	var req domain.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateUser(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "user updated", "user_id", user.ID)
	response.WriteJSON(w, http.StatusOK, user.ToUserInfo())
}

// Delete handles DELETE /api/users/{user_id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	if err := h.authService.DeleteUser(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "user deleted", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}
