package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayloop/hotel-bookings/internal/domain"
)

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

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, user_id, room_id, check_in_date, check_out_date,
total_price, status, created_at, updated_at`

// overlapPredicate matches active bookings whose half-open date range
// shares at least one night with [$2, $3). Adjacent stays do not match.
const overlapPredicate = `room_id = $1
	  AND status = 'confirmed'
	  AND check_in_date < $3
	  AND check_out_date > $2`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.CheckInDate, &b.CheckOutDate,
		&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	const q = `SELECT count(*) FROM bookings WHERE ` + overlapPredicate

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	if err := r.pool.QueryRow(ctx, q, roomID, checkIn, checkOut).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// CreateIfAvailable runs the availability check and the insert inside
// one transaction that holds the room row lock, so two concurrent
// requests for the same room serialize and the loser sees the winner's
// booking. Returns domain.ErrRoomUnavailable on an overlap and nil, nil
// when the room does not exist.
func (r *bookingRepository) CreateIfAvailable(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var roomID int64
	err = tx.QueryRow(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, req.RoomID).Scan(&roomID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var overlapping int64
	err = tx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE `+overlapPredicate,
		req.RoomID, req.CheckIn(), req.CheckOut()).Scan(&overlapping)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, domain.ErrRoomUnavailable
	}

	const q = `
		INSERT INTO bookings (user_id, room_id, check_in_date, check_out_date, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + bookingCols

	b, err := scanBooking(tx.QueryRow(ctx, q,
		req.UserID, req.RoomID, req.CheckIn(), req.CheckOut(), req.TotalPrice, req.Status))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *bookingRepository) List(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + bookingCols + ` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryBookings(ctx, q, limit, offset)
}

func (r *bookingRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE user_id = $1 ORDER BY check_in_date DESC`
	return r.queryBookings(ctx, q, userID)
}

func (r *bookingRepository) ListByRoomID(ctx context.Context, roomID int64) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE room_id = $1 ORDER BY check_in_date DESC`
	return r.queryBookings(ctx, q, roomID)
}

func (r *bookingRepository) queryBookings(ctx context.Context, q string, args ...any) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

// UpdateIfAvailable replaces all booking fields, re-checking the new
// date range against every other active booking for the room under the
// same room lock used at create time. Returns nil, nil when the booking
// does not exist.
func (r *bookingRepository) UpdateIfAvailable(ctx context.Context, id int64, req *domain.BookingRequest) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var roomID int64
	err = tx.QueryRow(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, req.RoomID).Scan(&roomID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// A cancelled booking never conflicts, so only confirmed targets
	// need the overlap re-check.
	if req.Status == string(domain.BookingConfirmed) {
		var overlapping int64
		err = tx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE `+overlapPredicate+` AND id <> $4`,
			req.RoomID, req.CheckIn(), req.CheckOut(), id).Scan(&overlapping)
		if err != nil {
			return nil, err
		}
		if overlapping > 0 {
			return nil, domain.ErrRoomUnavailable
		}
	}

	const q = `
		UPDATE bookings
		SET user_id = $2, room_id = $3, check_in_date = $4, check_out_date = $5,
		    total_price = $6, status = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + bookingCols

	b, err := scanBooking(tx.QueryRow(ctx, q,
		id, req.UserID, req.RoomID, req.CheckIn(), req.CheckOut(), req.TotalPrice, req.Status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM bookings WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) CountByRoomID(ctx context.Context, roomID int64) (int64, error) {
	const q = `SELECT count(*) FROM bookings WHERE room_id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.pool.QueryRow(ctx, q, roomID).Scan(&n)
	return n, err
}
