package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the shared request-schema validator. Cross-field rules the
// tags cannot express live in the Validate methods below.
var validate = validator.New(validator.WithRequiredStructEnabled())

type User struct {
	ID                   int64      `json:"user_id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Role                 string     `json:"role"`
	IsConfirmed          bool       `json:"is_confirmed"`
	ConfirmationCode     *string    `json:"-"`
	ResetPasswordToken   *string    `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

var validRoles = map[string]bool{
	RoleAdmin:    true,
	RoleCustomer: true,
}

func IsValidRole(role string) bool {
	return validRoles[role]
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin customer"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = RoleCustomer
	}
}

func (r *CreateUserRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

// UpdateUserRequest is a full replacement; password is optional and
// re-hashed when present.
type UpdateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin customer"`
}

func (r *UpdateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *UpdateUserRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

type ConfirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func (r *ConfirmEmailRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Code = strings.TrimSpace(r.Code)
}

func (r *ConfirmEmailRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *EmailRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *EmailRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

func (r *ResetPasswordRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	User      *UserInfo `json:"user"`
}

// UserInfo is the externally visible projection of a user; credential
// and lifecycle columns never leave the service.
type UserInfo struct {
	ID          int64  `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsConfirmed bool   `json:"is_confirmed"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		IsConfirmed: u.IsConfirmed,
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return NewValidationError(strings.ToLower(fe.Field()), "failed "+fe.Tag()+" validation")
	}
	return NewValidationError("", err.Error())
}
