package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayloop/hotel-bookings/internal/domain"
)

func TestDeleteRoom(t *testing.T) {
	f := newBookingFixture(t)
	svc := NewRoomService(f.rooms, f.repo)

	require.NoError(t, svc.DeleteRoom(context.Background(), 1))
	_, err := svc.GetRoom(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestDeleteRoomWithBookings(t *testing.T) {
	f := newBookingFixture(t)
	svc := NewRoomService(f.rooms, f.repo)

	_, err := f.svc.CreateBooking(context.Background(), bookingReq("2026-09-01", "2026-09-05"))
	require.NoError(t, err)

	err = svc.DeleteRoom(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrRoomHasBookings)

	// The room is untouched.
	room, err := svc.GetRoom(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "101", room.RoomNumber)
}

func TestDeleteRoomMissing(t *testing.T) {
	f := newBookingFixture(t)
	svc := NewRoomService(f.rooms, f.repo)

	err := svc.DeleteRoom(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestUpdateRoomValidation(t *testing.T) {
	f := newBookingFixture(t)
	svc := NewRoomService(f.rooms, f.repo)

	avail := true
	req := &domain.RoomRequest{RoomNumber: "101", Type: "double", Price: -5, IsAvailable: &avail}
	_, err := svc.UpdateRoom(context.Background(), 1, req)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}
