package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayloop/hotel-bookings/internal/domain"
	mw "github.com/stayloop/hotel-bookings/internal/http/middleware"
	"github.com/stayloop/hotel-bookings/internal/platform/auth"
)

// stubRoomService returns canned data and records delete calls.
type stubRoomService struct {
	rooms   []domain.Room
	deleted []int64
}

func (s *stubRoomService) ListRooms(_ context.Context) ([]domain.Room, error) {
	return s.rooms, nil
}

func (s *stubRoomService) GetRoom(_ context.Context, id int64) (*domain.Room, error) {
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			return &s.rooms[i], nil
		}
	}
	return nil, domain.ErrRoomNotFound
}

func (s *stubRoomService) CreateRoom(_ context.Context, req *domain.RoomRequest) (*domain.Room, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	for _, room := range s.rooms {
		if room.RoomNumber == req.RoomNumber {
			return nil, domain.ErrRoomNumberExists
		}
	}
	room := domain.Room{ID: int64(len(s.rooms) + 1), RoomNumber: req.RoomNumber, Type: req.Type, Price: req.Price}
	s.rooms = append(s.rooms, room)
	return &room, nil
}

func (s *stubRoomService) UpdateRoom(_ context.Context, id int64, req *domain.RoomRequest) (*domain.Room, error) {
	return s.GetRoom(context.Background(), id)
}

func (s *stubRoomService) DeleteRoom(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func roomsRouter(svc *stubRoomService, tokens *memoryTokenStore) http.Handler {
	h := NewRoomsHandler(svc)
	r := chi.NewRouter()
	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{room_id}", h.Get)
		r.Group(func(r chi.Router) {
			r.Use(requireAuthMW(tokens), mw.RequireRole(domain.RoleAdmin))
			r.Post("/", h.Create)
			r.Put("/{room_id}", h.Update)
			r.Delete("/{room_id}", h.Delete)
		})
	})
	return r
}

func TestListRoomsIsPublic(t *testing.T) {
	svc := &stubRoomService{rooms: []domain.Room{{ID: 1, RoomNumber: "101"}}}
	router := roomsRouter(svc, newMemoryTokenStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"101"`)
}

func TestDeleteRoomRequiresAdmin(t *testing.T) {
	svc := &stubRoomService{rooms: []domain.Room{{ID: 1, RoomNumber: "101"}}}
	router := roomsRouter(svc, newMemoryTokenStore())

	req := httptest.NewRequest(http.MethodDelete, "/api/rooms/1", nil)
	req.Header.Set("Authorization", customerBearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, svc.deleted, "service must not be reached")
}

func TestDeleteRoomAsAdmin(t *testing.T) {
	svc := &stubRoomService{rooms: []domain.Room{{ID: 1, RoomNumber: "101"}}}
	router := roomsRouter(svc, newMemoryTokenStore())

	req := httptest.NewRequest(http.MethodDelete, "/api/rooms/1", nil)
	req.Header.Set("Authorization", adminBearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{1}, svc.deleted)
}

func TestCreateRoomUnauthenticated(t *testing.T) {
	router := roomsRouter(&stubRoomService{}, newMemoryTokenStore())

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/", strings.NewReader(`{"room_number":"101"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredTokenIsDistinguished(t *testing.T) {
	router := roomsRouter(&stubRoomService{}, newMemoryTokenStore())

	expired, err := auth.NewAccessToken(1, "a@example.com", domain.RoleAdmin, testSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/rooms/1", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}

func TestRevokedTokenRejected(t *testing.T) {
	tokens := newMemoryTokenStore()
	router := roomsRouter(&stubRoomService{}, tokens)

	token, err := auth.NewAccessToken(1, "a@example.com", domain.RoleAdmin, testSecret, 15*time.Minute)
	require.NoError(t, err)
	claims, err := auth.Parse(token, testSecret)
	require.NoError(t, err)
	require.NoError(t, tokens.Revoke(context.Background(), claims.ID, time.Minute))

	req := httptest.NewRequest(http.MethodDelete, "/api/rooms/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token revoked")
}

func TestCreateRoomDuplicateNumberConflict(t *testing.T) {
	svc := &stubRoomService{}
	router := roomsRouter(svc, newMemoryTokenStore())

	body := `{"room_number":"101","type":"double","price":120,"is_available":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/", strings.NewReader(body))
	req.Header.Set("Authorization", adminBearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	dup := `{"room_number":"101","type":"suite","price":300,"is_available":true}`
	req = httptest.NewRequest(http.MethodPost, "/api/rooms/", strings.NewReader(dup))
	req.Header.Set("Authorization", adminBearer(t))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "room number already exists")

	// The original room is untouched.
	require.Len(t, svc.rooms, 1)
	assert.Equal(t, "double", svc.rooms[0].Type)
	assert.Equal(t, float64(120), svc.rooms[0].Price)
}

func TestCreateRoomRejectsBadPrice(t *testing.T) {
	router := roomsRouter(&stubRoomService{}, newMemoryTokenStore())

	body := `{"room_number":"101","type":"double","price":-10,"is_available":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/", strings.NewReader(body))
	req.Header.Set("Authorization", adminBearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
