package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayloop/hotel-bookings/internal/domain"
	mw "github.com/stayloop/hotel-bookings/internal/http/middleware"
	"github.com/stayloop/hotel-bookings/internal/http/response"
	"github.com/stayloop/hotel-bookings/internal/service"
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "user registered", "user_id", user.ID, "email", user.Email)
	response.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "registration successful, check your email for the confirmation code",
		"user":    user.ToUserInfo(),
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "user logged in", "user_id", resp.User.ID)
	response.WriteJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout. Requires auth; the presented token
// is revoked until it would have expired anyway.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	if err := h.authService.Logout(r.Context(), claims); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ConfirmEmail handles POST /api/auth/confirm-email
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.ConfirmEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.ConfirmEmail(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "email confirmed", "user_id", user.ID)
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "email confirmed",
		"user":    user.ToUserInfo(),
	})
}

// ResendEmail handles POST /api/auth/resend-email
func (h *AuthHandler) ResendEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.authService.ResendConfirmation(r.Context(), req.Email); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "confirmation code sent"})
}

// RequestPasswordReset handles POST /api/auth/reset-password
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req domain.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "password reset link sent"})
}

// ResetPassword handles POST /api/auth/reset-password/{token}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.BadRequest(w, "missing reset token")
		return
	}

	var req domain.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), token, req.Password); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
