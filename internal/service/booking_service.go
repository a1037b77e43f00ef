package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stayloop/hotel-bookings/internal/domain"
	"github.com/stayloop/hotel-bookings/pkg/events"
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

type BookingService interface {
	IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut string) (bool, error)
	CreateBooking(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListBookingsByRoom(ctx context.Context, roomID int64) ([]domain.Booking, error)
	UpdateBooking(ctx context.Context, id int64, req *domain.BookingRequest) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

// BookingRepository is the persistence surface the booking service
// depends on. CreateIfAvailable and UpdateIfAvailable carry the
// availability guard inside a single transaction.
type BookingRepository interface {
	IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
	CreateIfAvailable(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error)
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	ListByUserID(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListByRoomID(ctx context.Context, roomID int64) ([]domain.Booking, error)
	UpdateIfAvailable(ctx context.Context, id int64, req *domain.BookingRequest) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	CountByRoomID(ctx context.Context, roomID int64) (int64, error)
}

type bookingService struct {
	bookingRepo BookingRepository
	roomRepo    RoomRepository
	userRepo    UserRepository
	eventBus    events.Publisher
}

func NewBookingService(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	userRepo UserRepository,
	eventBus events.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		eventBus:    eventBus,
	}
}

// IsAvailable fails fast on a bad room id or unparseable dates before
// touching the store.
func (s *bookingService) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut string) (bool, error) {
	if roomID <= 0 {
		return false, domain.NewValidationError("room_id", "must be a positive integer")
	}
	in, err := domain.ParseDate(checkIn)
	if err != nil {
		return false, domain.NewValidationError("check_in_date", "must be a valid date")
	}
	out, err := domain.ParseDate(checkOut)
	if err != nil {
		return false, domain.NewValidationError("check_out_date", "must be a valid date")
	}

	return s.bookingRepo.IsAvailable(ctx, roomID, in, out)
}

func (s *bookingService) CreateBooking(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	room, err := s.roomRepo.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to check room: %w", err)
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}

	// The repository re-checks availability inside the insert
	// transaction; the room lock closes the window between the check
	// and the write.
	booking, err := s.bookingRepo.CreateIfAvailable(ctx, req)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrRoomNotFound
	}

	if err := s.eventBus.Publish(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		RoomID:       booking.RoomID,
		CheckInDate:  booking.CheckInDate,
		CheckOutDate: booking.CheckOutDate,
		TotalPrice:   booking.TotalPrice,
		CreatedAt:    booking.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListBookingsByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListBookingsByRoom(ctx context.Context, roomID int64) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListByRoomID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, id int64, req *domain.BookingRequest) (*domain.Booking, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrBookingNotFound
	}

	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	room, err := s.roomRepo.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to check room: %w", err)
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}

	updated, err := s.bookingRepo.UpdateIfAvailable(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrBookingNotFound
	}

	subject := events.BookingUpdated
	var payload any = events.BookingUpdatedEvent{
		BookingID: updated.ID,
		UserID:    updated.UserID,
		UpdatedAt: updated.UpdatedAt,
	}
	if existing.Status == domain.BookingConfirmed && updated.Status == domain.BookingCancelled {
		subject = events.BookingCancelled
		payload = events.BookingCancelledEvent{
			BookingID:   updated.ID,
			UserID:      updated.UserID,
			CancelledAt: updated.UpdatedAt,
		}
	}
	if err := s.eventBus.Publish(ctx, subject, payload); err != nil {
		logger.ErrorContext(ctx, "failed to publish booking event", "error", err, "booking_id", updated.ID)
	}

	return updated, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, id int64) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}
