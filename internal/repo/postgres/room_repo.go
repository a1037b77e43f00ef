package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayloop/hotel-bookings/internal/domain"
)

type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	FindByID(ctx context.Context, id int64) (*domain.Room, error)
	Create(ctx context.Context, req *domain.RoomRequest) (*domain.Room, error)
	Update(ctx context.Context, id int64, req *domain.RoomRequest) (*domain.Room, error)
	Delete(ctx context.Context, id int64) error
}

type roomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) RoomRepository {
	return &roomRepository{pool: pool}
}

const roomCols = `id, room_number, type, price, is_available, description, created_at, updated_at`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var rm domain.Room
	err := row.Scan(
		&rm.ID, &rm.RoomNumber, &rm.Type, &rm.Price, &rm.IsAvailable,
		&rm.Description, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *roomRepository) List(ctx context.Context) ([]domain.Room, error) {
	const q = `SELECT ` + roomCols + ` FROM rooms ORDER BY room_number`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *rm)
	}

	return rooms, rows.Err()
}

func (r *roomRepository) FindByID(ctx context.Context, id int64) (*domain.Room, error) {
	const q = `SELECT ` + roomCols + ` FROM rooms WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rm, err := scanRoom(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rm, err
}

func (r *roomRepository) Create(ctx context.Context, req *domain.RoomRequest) (*domain.Room, error) {
	const q = `
		INSERT INTO rooms (room_number, type, price, is_available, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + roomCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rm, err := scanRoom(r.pool.QueryRow(ctx, q, req.RoomNumber, req.Type, req.Price, req.IsAvailable, req.Description))
	if isUniqueViolation(err) {
		return nil, domain.ErrRoomNumberExists
	}
	return rm, err
}

func (r *roomRepository) Update(ctx context.Context, id int64, req *domain.RoomRequest) (*domain.Room, error) {
	const q = `
		UPDATE rooms
		SET room_number = $2, type = $3, price = $4, is_available = $5, description = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + roomCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rm, err := scanRoom(r.pool.QueryRow(ctx, q, id, req.RoomNumber, req.Type, req.Price, req.IsAvailable, req.Description))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, domain.ErrRoomNumberExists
	}
	return rm, err
}

func (r *roomRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM rooms WHERE id = $1`
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
