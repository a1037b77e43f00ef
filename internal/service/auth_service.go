package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/stayloop/hotel-bookings/internal/domain"
	"github.com/stayloop/hotel-bookings/internal/platform/auth"
	"github.com/stayloop/hotel-bookings/internal/platform/mailer"
	redistore "github.com/stayloop/hotel-bookings/internal/repo/redis"
	"github.com/stayloop/hotel-bookings/pkg/config"
	"github.com/stayloop/hotel-bookings/pkg/events"
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	ConfirmEmail(ctx context.Context, req *domain.ConfirmEmailRequest) (*domain.User, error)
	ResendConfirmation(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type authService struct {
	userRepo   UserRepository
	tokenStore redistore.TokenStore
	mailer     mailer.Service
	eventBus   events.Publisher
	config     *config.Config
}

// UserRepository is the slice of the postgres repository the auth
// service needs; declared here so tests can substitute it.
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

func NewAuthService(
	userRepo UserRepository,
	tokenStore redistore.TokenStore,
	mailSvc mailer.Service,
	eventBus events.Publisher,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		mailer:     mailSvc,
		eventBus:   eventBus,
		config:     cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := generateConfirmationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation code: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req, passwordHash, code)
	if err != nil {
		return nil, err
	}

	// Mail delivery is best effort: log the failure and hand the payload
	// to the notification queue instead of rolling back the account.
	if err := s.mailer.SendConfirmationEmail(user.Email, user.Name, code); err != nil {
		logger.ErrorContext(ctx, "failed to send confirmation email", "error", err, "user_id", user.ID)
		s.queueNotification(ctx, "confirmation", user.Email, map[string]string{"code": code, "name": user.Name})
	}

	if err := s.eventBus.Publish(ctx, events.UserRegistered, events.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsConfirmed {
		return nil, domain.ErrEmailNotConfirmed
	}

	token, err := auth.NewAccessToken(user.ID, user.Email, user.Role, s.config.Auth.JWTSecret, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.Auth.AccessTokenTTL.Seconds()),
		User:      user.ToUserInfo(),
	}, nil
}

// Logout denylists the presented token until its natural expiry.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenStore.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *authService) ConfirmEmail(ctx context.Context, req *domain.ConfirmEmailRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.ConfirmEmail(ctx, req.Email, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm email: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCode
	}

	return user, nil
}

func (s *authService) ResendConfirmation(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.IsConfirmed {
		return domain.ErrAlreadyConfirmed
	}

	// The stored code is overwritten, so the previous one can no longer
	// confirm the account.
	code, err := generateConfirmationCode()
	if err != nil {
		return fmt.Errorf("failed to generate confirmation code: %w", err)
	}
	if err := s.userRepo.SetConfirmationCode(ctx, user.ID, code); err != nil {
		return fmt.Errorf("failed to store confirmation code: %w", err)
	}

	if err := s.mailer.SendConfirmationEmail(user.Email, user.Name, code); err != nil {
		logger.ErrorContext(ctx, "failed to send confirmation email", "error", err, "user_id", user.ID)
		s.queueNotification(ctx, "confirmation", user.Email, map[string]string{"code": code, "name": user.Name})
	}

	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	expires := time.Now().Add(s.config.Auth.ResetTokenTTL)

	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.config.App.FrontendURL, token)
	if err := s.mailer.SendPasswordResetEmail(user.Email, resetURL); err != nil {
		logger.ErrorContext(ctx, "failed to send password reset email", "error", err, "user_id", user.ID)
		s.queueNotification(ctx, "password_reset", user.Email, map[string]string{"reset_url": resetURL})
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	req := domain.ResetPasswordRequest{Password: newPassword}
	if err := req.Validate(); err != nil {
		return err
	}

	passwordHash, err := argon2id.CreateHash(newPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.ResetPassword(ctx, token, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if user == nil {
		return domain.ErrInvalidResetToken
	}

	return nil
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *authService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *authService) UpdateUser(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var passwordHash *string
	if req.Password != "" {
		hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = &hash
	}

	user, err := s.userRepo.Update(ctx, id, req, passwordHash)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *authService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *authService) queueNotification(ctx context.Context, kind, recipient string, data map[string]string) {
	err := s.eventBus.Publish(ctx, events.NotifySend, events.NotificationEvent{
		Type:      kind,
		Recipient: recipient,
		Data:      data,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to queue notification", "error", err, "type", kind)
	}
}

// generateConfirmationCode draws a uniform 6-digit code from
// [100000, 999999].
func generateConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// generateResetToken returns 20 random bytes hex-encoded.
func generateResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
