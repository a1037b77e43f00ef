package service

import (
	"context"
	"fmt"

	"github.com/stayloop/hotel-bookings/internal/domain"
)

type RoomService interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	CreateRoom(ctx context.Context, req *domain.RoomRequest) (*domain.Room, error)
	UpdateRoom(ctx context.Context, id int64, req *domain.RoomRequest) (*domain.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

// RoomRepository is the persistence surface the room service depends on.
type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	FindByID(ctx context.Context, id int64) (*domain.Room, error)
	Create(ctx context.Context, req *domain.RoomRequest) (*domain.Room, error)
	Update(ctx context.Context, id int64, req *domain.RoomRequest) (*domain.Room, error)
	Delete(ctx context.Context, id int64) error
}

type roomService struct {
	roomRepo    RoomRepository
	bookingRepo BookingRepository
}

func NewRoomService(roomRepo RoomRepository, bookingRepo BookingRepository) RoomService {
	return &roomService{roomRepo: roomRepo, bookingRepo: bookingRepo}
}

func (s *roomService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *roomService) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *roomService) CreateRoom(ctx context.Context, req *domain.RoomRequest) (*domain.Room, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.roomRepo.Create(ctx, req)
}

func (s *roomService) UpdateRoom(ctx context.Context, id int64, req *domain.RoomRequest) (*domain.Room, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	room, err := s.roomRepo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// DeleteRoom refuses to remove a room that bookings still reference;
// historical rows would otherwise dangle.
func (s *roomService) DeleteRoom(ctx context.Context, id int64) error {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return domain.ErrRoomNotFound
	}

	n, err := s.bookingRepo.CountByRoomID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}
	if n > 0 {
		return domain.ErrRoomHasBookings
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrRoomNotFound
		}
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}
