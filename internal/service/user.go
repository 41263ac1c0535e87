package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/stshop/internal/auth"
	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/telemetry"
)

// UserService registers customers and manages their login sessions.
type UserService struct {
	q          repository.Querier
	hasher     *auth.Hasher
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

var _ domain.UserService = (*UserService)(nil)

func NewUserService(q repository.Querier, hasher *auth.Hasher, sessionTTL time.Duration, logger *slog.Logger) *UserService {
	return &UserService{
		q:          q,
		hasher:     hasher,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Register validates the form, rejects taken usernames and emails as field
// errors and stores the customer with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.Customer, error) {
	const op = "user.register"

	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.FirstName = strings.TrimSpace(params.FirstName)
	params.LastName = strings.TrimSpace(params.LastName)
	params.Phone = strings.TrimSpace(params.Phone)
	params.Address = strings.TrimSpace(params.Address)

	if err := validateStruct(op, params); err != nil {
		return nil, err
	}

	taken := &domain.ValidationError{Op: op}
	if _, err := s.q.GetCustomerByUsername(ctx, params.Username); err == nil {
		taken.Add("username", "This username is already taken")
	} else if !repository.IsNoRows(err) {
		return nil, domain.Internal(err, op, "failed to check username")
	}
	if _, err := s.q.GetCustomerByEmail(ctx, params.Email); err == nil {
		taken.Add("email", "This email is already registered")
	} else if !repository.IsNoRows(err) {
		return nil, domain.Internal(err, op, "failed to check email")
	}
	if err := taken.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	row, err := s.q.CreateCustomer(ctx, repository.CreateCustomerParams{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        optionalText(params.Phone),
		Address:      optionalText(params.Address),
	})
	if err != nil {
		// Lost a race with a concurrent registration.
		switch {
		case repository.IsUniqueViolation(err, repository.ConstraintCustomersUsername):
			return nil, domain.NewValidationError(op, "username", "This username is already taken")
		case repository.IsUniqueViolation(err, repository.ConstraintCustomersEmail):
			return nil, domain.NewValidationError(op, "email", "This email is already registered")
		}
		return nil, domain.Internal(err, op, "failed to create customer")
	}

	if telemetry.Business != nil {
		telemetry.Business.Signups.Inc()
	}
	s.logger.Info("customer registered", "customer_id", row.ID, "username", row.Username)

	return toDomainCustomer(row), nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords produce the same error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.Customer, error) {
	const op = "user.authenticate"

	row, err := s.q.GetCustomerByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, s.loginFailed(op)
		}
		return nil, domain.Internal(err, op, "failed to get customer")
	}

	if err := s.hasher.Verify(password, row.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, s.loginFailed(op)
		}
		return nil, domain.Internal(err, op, "failed to verify password")
	}

	if telemetry.Business != nil {
		telemetry.Business.Logins.Inc()
	}
	return toDomainCustomer(row), nil
}

func (s *UserService) loginFailed(op string) error {
	if telemetry.Business != nil {
		telemetry.Business.LoginFailed.Inc()
	}
	return domain.ErrInvalidCredentials.WithOp(op)
}

func (s *UserService) CreateSession(ctx context.Context, customerID uuid.UUID) (*domain.Session, error) {
	const op = "user.create_session"

	token, err := auth.GenerateToken()
	if err != nil {
		return nil, domain.Internal(err, op, "failed to generate session token")
	}

	row, err := s.q.CreateSession(ctx, repository.CreateSessionParams{
		Token:      token,
		CustomerID: customerID,
		ExpiresAt:  s.now().Add(s.sessionTTL),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create session")
	}

	return &domain.Session{Token: row.Token, CustomerID: row.CustomerID, ExpiresAt: row.ExpiresAt}, nil
}

// GetCustomerBySessionToken resolves a session cookie. Expired sessions are
// deleted on sight.
func (s *UserService) GetCustomerBySessionToken(ctx context.Context, token string) (*domain.Customer, error) {
	const op = "user.session"

	session, err := s.q.GetSessionByToken(ctx, token)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrSessionNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to get session")
	}

	if !s.now().Before(session.ExpiresAt) {
		if err := s.q.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", "error", err)
		}
		return nil, domain.ErrSessionExpired.WithOp(op)
	}

	row, err := s.q.GetCustomerByID(ctx, session.CustomerID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrCustomerNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to get customer")
	}
	return toDomainCustomer(row), nil
}

func (s *UserService) DeleteSession(ctx context.Context, token string) error {
	if err := s.q.DeleteSession(ctx, token); err != nil {
		return domain.Internal(err, "user.delete_session", "failed to delete session")
	}
	return nil
}
