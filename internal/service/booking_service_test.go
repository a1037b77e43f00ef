package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayloop/hotel-bookings/internal/domain"
	"github.com/stayloop/hotel-bookings/pkg/events"
)

// fakeBookingRepo keeps bookings in memory and applies the same
// half-open overlap rule as the SQL predicate.
type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
	nextID   int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[int64]*domain.Booking{}, nextID: 1}
}

func (f *fakeBookingRepo) conflicts(roomID int64, in, out time.Time, excludeID int64) bool {
	for _, b := range f.bookings {
		if b.ID == excludeID || b.RoomID != roomID || b.Status != domain.BookingConfirmed {
			continue
		}
		if domain.Overlaps(b.CheckInDate, b.CheckOutDate, in, out) {
			return true
		}
	}
	return false
}

func (f *fakeBookingRepo) IsAvailable(_ context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	return !f.conflicts(roomID, checkIn, checkOut, 0), nil
}

func (f *fakeBookingRepo) CreateIfAvailable(_ context.Context, req *domain.BookingRequest) (*domain.Booking, error) {
	if f.conflicts(req.RoomID, req.CheckIn(), req.CheckOut(), 0) {
		return nil, domain.ErrRoomUnavailable
	}
	b := &domain.Booking{
		ID:           f.nextID,
		UserID:       req.UserID,
		RoomID:       req.RoomID,
		CheckInDate:  req.CheckIn(),
		CheckOutDate: req.CheckOut(),
		TotalPrice:   req.TotalPrice,
		Status:       domain.BookingStatus(req.Status),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.bookings[b.ID] = b
	f.nextID++
	return b, nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id int64) (*domain.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) List(_ context.Context, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByUserID(_ context.Context, userID int64) ([]domain.Booking, error) {
	out := []domain.Booking{}
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByRoomID(_ context.Context, roomID int64) ([]domain.Booking, error) {
	out := []domain.Booking{}
	for _, b := range f.bookings {
		if b.RoomID == roomID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateIfAvailable(_ context.Context, id int64, req *domain.BookingRequest) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	if req.Status == string(domain.BookingConfirmed) &&
		f.conflicts(req.RoomID, req.CheckIn(), req.CheckOut(), id) {
		return nil, domain.ErrRoomUnavailable
	}
	b.UserID = req.UserID
	b.RoomID = req.RoomID
	b.CheckInDate = req.CheckIn()
	b.CheckOutDate = req.CheckOut()
	b.TotalPrice = req.TotalPrice
	b.Status = domain.BookingStatus(req.Status)
	b.UpdatedAt = time.Now()
	return b, nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) CountByRoomID(_ context.Context, roomID int64) (int64, error) {
	var n int64
	for _, b := range f.bookings {
		if b.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

// fakeRoomRepo holds a fixed set of rooms.
type fakeRoomRepo struct {
	rooms map[int64]*domain.Room
}

func (f *fakeRoomRepo) List(_ context.Context) ([]domain.Room, error) {
	var out []domain.Room
	for _, r := range f.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoomRepo) FindByID(_ context.Context, id int64) (*domain.Room, error) {
	return f.rooms[id], nil
}

func (f *fakeRoomRepo) Create(_ context.Context, req *domain.RoomRequest) (*domain.Room, error) {
	panic("not used")
}

func (f *fakeRoomRepo) Update(_ context.Context, id int64, req *domain.RoomRequest) (*domain.Room, error) {
	panic("not used")
}

func (f *fakeRoomRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rooms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rooms, id)
	return nil
}

type bookingFixture struct {
	svc   BookingService
	repo  *fakeBookingRepo
	rooms *fakeRoomRepo
	users *fakeUserRepo
	bus   *fakePublisher
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	repo := newFakeBookingRepo()
	rooms := &fakeRoomRepo{rooms: map[int64]*domain.Room{
		1: {ID: 1, RoomNumber: "101", Type: "double", Price: 120, IsAvailable: true},
	}}
	users := newFakeUserRepo()
	_, err := users.Create(context.Background(), &domain.CreateUserRequest{
		Name: "Dana", Email: "dana@example.com", Role: domain.RoleCustomer,
	}, "hash", "123456")
	require.NoError(t, err)

	bus := &fakePublisher{}
	return &bookingFixture{
		svc:   NewBookingService(repo, rooms, users, bus),
		repo:  repo,
		rooms: rooms,
		users: users,
		bus:   bus,
	}
}

func bookingReq(in, out string) *domain.BookingRequest {
	return &domain.BookingRequest{
		UserID:       1,
		RoomID:       1,
		CheckInDate:  in,
		CheckOutDate: out,
		TotalPrice:   480,
	}
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t)

	booking, err := f.svc.CreateBooking(context.Background(), bookingReq("2026-09-01", "2026-09-05"))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, booking.Status)
	assert.Contains(t, f.bus.published, events.BookingCreated)
}

func TestCreateBookingOverlapRejected(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), bookingReq("2026-09-01", "2026-09-05"))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(context.Background(), bookingReq("2026-09-03", "2026-09-08"))
	assert.ErrorIs(t, err, domain.ErrRoomUnavailable)
}

func TestCreateBookingBackToBackAllowed(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), bookingReq("2026-09-01", "2026-09-05"))
	require.NoError(t, err)

	// Checking in the day the previous guest checks out is fine.
	_, err = f.svc.CreateBooking(context.Background(), bookingReq("2026-09-05", "2026-09-08"))
	assert.NoError(t, err)
}

func TestCreateBookingCancelledDoesNotBlock(t *testing.T) {
	f := newBookingFixture(t)

	req := bookingReq("2026-09-01", "2026-09-05")
	booking, err := f.svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	cancel := bookingReq("2026-09-01", "2026-09-05")
	cancel.Status = string(domain.BookingCancelled)
	_, err = f.svc.UpdateBooking(context.Background(), booking.ID, cancel)
	require.NoError(t, err)
	assert.Contains(t, f.bus.published, events.BookingCancelled)

	_, err = f.svc.CreateBooking(context.Background(), bookingReq("2026-09-02", "2026-09-04"))
	assert.NoError(t, err)
}

func TestCreateBookingUnknownUser(t *testing.T) {
	f := newBookingFixture(t)

	req := bookingReq("2026-09-01", "2026-09-05")
	req.UserID = 99
	_, err := f.svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateBookingUnknownRoom(t *testing.T) {
	f := newBookingFixture(t)

	req := bookingReq("2026-09-01", "2026-09-05")
	req.RoomID = 99
	_, err := f.svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestCreateBookingInvalidInput(t *testing.T) {
	f := newBookingFixture(t)

	req := bookingReq("2026-09-05", "2026-09-01")
	_, err := f.svc.CreateBooking(context.Background(), req)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, f.repo.bookings)
}

func TestUpdateBookingReschedule(t *testing.T) {
	f := newBookingFixture(t)

	booking, err := f.svc.CreateBooking(context.Background(), bookingReq("2026-09-01", "2026-09-05"))
	require.NoError(t, err)

	updated, err := f.svc.UpdateBooking(context.Background(), booking.ID, bookingReq("2026-09-10", "2026-09-12"))
	require.NoError(t, err)
	assert.Equal(t, "2026-09-10", updated.CheckInDate.Format(domain.DateLayout))
	assert.Contains(t, f.bus.published, events.BookingUpdated)
}

func TestUpdateBookingRescheduleIntoConflict(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), bookingReq("2026-09-01", "2026-09-05"))
	require.NoError(t, err)
	second, err := f.svc.CreateBooking(context.Background(), bookingReq("2026-09-10", "2026-09-12"))
	require.NoError(t, err)

	_, err = f.svc.UpdateBooking(context.Background(), second.ID, bookingReq("2026-09-02", "2026-09-04"))
	assert.ErrorIs(t, err, domain.ErrRoomUnavailable)
}

func TestUpdateBookingMissing(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.UpdateBooking(context.Background(), 42, bookingReq("2026-09-01", "2026-09-05"))
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestIsAvailableValidation(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.IsAvailable(context.Background(), 0, "2026-09-01", "2026-09-05")
	assert.True(t, domain.IsValidation(err))

	_, err = f.svc.IsAvailable(context.Background(), 1, "soon", "2026-09-05")
	assert.True(t, domain.IsValidation(err))

	available, err := f.svc.IsAvailable(context.Background(), 1, "2026-09-01", "2026-09-05")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestDeleteBookingMissing(t *testing.T) {
	f := newBookingFixture(t)

	err := f.svc.DeleteBooking(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestListBookingsByUserEmpty(t *testing.T) {
	f := newBookingFixture(t)

	bookings, err := f.svc.ListBookingsByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NotNil(t, bookings)
}
