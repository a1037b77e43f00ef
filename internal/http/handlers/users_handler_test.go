package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/stayloop/hotel-bookings/internal/domain"
	mw "github.com/stayloop/hotel-bookings/internal/http/middleware"
)

func usersRouter(svc *stubAuthService, tokens *memoryTokenStore) http.Handler {
	h := NewUsersHandler(svc)
	adminOnly := mw.RequireRole(domain.RoleAdmin)
	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		r.Use(requireAuthMW(tokens))
		r.With(adminOnly).Get("/", h.List)
		r.Get("/{user_id}", h.Get)
		r.With(adminOnly).Get("/email/{email}", h.GetByEmail)
		r.With(adminOnly).Put("/{user_id}", h.Update)
		r.With(adminOnly).Delete("/{user_id}", h.Delete)
	})
	return r
}

func userStub() *stubAuthService {
	return &stubAuthService{
		getUser: func(id int64) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Dana", Email: "dana@example.com", Role: domain.RoleCustomer}, nil
		},
	}
}

func TestGetOwnUser(t *testing.T) {
	router := usersRouter(userStub(), newMemoryTokenStore())

	// customerBearer carries user id 2.
	req := httptest.NewRequest(http.MethodGet, "/api/users/2", nil)
	req.Header.Set("Authorization", customerBearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dana@example.com"`)
}

func TestGetOtherUserForbidden(t *testing.T) {
	router := usersRouter(userStub(), newMemoryTokenStore())

	req := httptest.NewRequest(http.MethodGet, "/api/users/7", nil)
	req.Header.Set("Authorization", customerBearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetAnyUserAsAdmin(t *testing.T) {
	router := usersRouter(userStub(), newMemoryTokenStore())

	req := httptest.NewRequest(http.MethodGet, "/api/users/7", nil)
	req.Header.Set("Authorization", adminBearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListUsersAdminOnly(t *testing.T) {
	router := usersRouter(userStub(), newMemoryTokenStore())

	req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	req.Header.Set("Authorization", customerBearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
