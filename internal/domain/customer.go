package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid username or password"}
	ErrSessionNotFound    = &Error{Code: ENOTFOUND, Message: "Session not found"}
	ErrSessionExpired     = &Error{Code: EUNAUTHORIZED, Message: "Session expired"}
	ErrCustomerNotFound   = &Error{Code: ENOTFOUND, Message: "Customer not found"}
)

// Customer is a registered shopper.
type Customer struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Address      string
	CreatedAt    time.Time
}

// ContextUser returns the minimal form stored in a request context.
func (c *Customer) ContextUser() *User {
	return &User{ID: c.ID, Username: c.Username, Email: c.Email}
}

// RegisterParams is the registration form.
type RegisterParams struct {
	Username        string `form:"username" validate:"required,min=3,max=150,alphanum"`
	Email           string `form:"email" validate:"required,email,max=255"`
	Password        string `form:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string `form:"first_name" validate:"max=150"`
	LastName        string `form:"last_name" validate:"max=150"`
	Phone           string `form:"phone" validate:"max=20"`
	Address         string `form:"address" validate:"max=255"`
}

// Session is a login session keyed by an opaque token.
type Session struct {
	Token      string
	CustomerID uuid.UUID
	ExpiresAt  time.Time
}

// UserService handles registration, login and sessions.
type UserService interface {
	Register(ctx context.Context, params RegisterParams) (*Customer, error)
	Authenticate(ctx context.Context, username, password string) (*Customer, error)
	CreateSession(ctx context.Context, customerID uuid.UUID) (*Session, error)
	GetCustomerBySessionToken(ctx context.Context, token string) (*Customer, error)
	DeleteSession(ctx context.Context, token string) error
}
