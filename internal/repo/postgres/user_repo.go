package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayloop/hotel-bookings/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash, confirmationCode string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Update(ctx context.Context, id int64, req *domain.UpdateUserRequest, passwordHash *string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error

	ConfirmEmail(ctx context.Context, email, code string) (*domain.User, error)
	SetConfirmationCode(ctx context.Context, id int64, code string) error
	SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error
	ResetPassword(ctx context.Context, token, passwordHash string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, name, email, password_hash, role, is_confirmed,
confirmation_code, reset_password_token, reset_password_expires,
created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsConfirmed,
		&u.ConfirmationCode, &u.ResetPasswordToken, &u.ResetPasswordExpires,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// uniqueViolation is the Postgres error code raised by duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *userRepository) Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash, confirmationCode string) (*domain.User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, role, confirmation_code, is_confirmed)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, req.Name, req.Email, passwordHash, req.Role, confirmationCode))
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailExists
	}
	return u, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `
		SELECT ` + userCols + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, id int64, req *domain.UpdateUserRequest, passwordHash *string) (*domain.User, error) {
	const q = `
		UPDATE users
		SET
			name = $2,
			email = $3,
			password_hash = COALESCE($4, password_hash),
			role = $5,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, id, req.Name, req.Email, passwordHash, req.Role))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailExists
	}
	return u, err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = $1`
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

// ConfirmEmail flips the account to confirmed when the code matches the
// one stored for that address. The lookup is scoped by email so one
// user's code can never confirm another account. Confirmed accounts
// have no stored code and can never match again.
func (r *userRepository) ConfirmEmail(ctx context.Context, email, code string) (*domain.User, error) {
	const q = `
		UPDATE users
		SET is_confirmed = true, confirmation_code = NULL, updated_at = now()
		WHERE email = $1 AND confirmation_code = $2 AND is_confirmed = false
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, email, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) SetConfirmationCode(ctx context.Context, id int64, code string) error {
	const q = `UPDATE users SET confirmation_code = $2, updated_at = now() WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, code)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	const q = `
		UPDATE users
		SET reset_password_token = $2, reset_password_expires = $3, updated_at = now()
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, token, expires)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ResetPassword consumes the token: the match and the expiry check and
// the clearing of both reset columns happen in one statement, so a
// token can never be used twice.
func (r *userRepository) ResetPassword(ctx context.Context, token, passwordHash string) (*domain.User, error) {
	const q = `
		UPDATE users
		SET password_hash = $2, reset_password_token = NULL, reset_password_expires = NULL, updated_at = now()
		WHERE reset_password_token = $1 AND reset_password_expires > now()
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, token, passwordHash))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}
