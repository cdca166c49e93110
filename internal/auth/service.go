// Package auth implements the credential store and token issuer: user
// registration, login, and token validation.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/pkg/ctxlog"
	"github.com/minimart-io/minimart/internal/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator issues and verifies signed access tokens.
type Authenticator interface {
	IssueToken(username string, role domain.Role) (string, error)
	VerifyToken(token string) (subject string, role domain.Role, err error)
}

// Service implements authentication business logic.
type Service struct {
	repo Repository
	auth Authenticator
}

// NewService creates a new auth service.
func NewService(repo Repository, auth Authenticator) *Service {
	return &Service{
		repo: repo,
		auth: auth,
	}
}

// RegisterInput holds data for registering a user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// LoginInput holds credentials for a login attempt.
type LoginInput struct {
	Username string
	Password string
}

// AuthResult is returned by successful register and login flows.
type AuthResult struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Register creates an enabled user record and issues a token for it.
// Role defaults to USER when unset.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	role := domain.Role(input.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", input.Role)
	}

	if _, err := s.repo.GetUserByUsername(ctx, input.Username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.repo.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Enabled:      true,
	}

	// The repository maps unique violations back to the sentinel errors, so
	// two concurrent registrations for the same username end with exactly
	// one success.
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.auth.IssueToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssued.WithLabelValues("register").Inc()

	ctxlog.FromContext(ctx).Info("user registered",
		"username", user.Username,
		"role", user.Role,
	)

	return &AuthResult{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// Login verifies the submitted credentials and issues a fresh token.
// Every failure path returns ErrInvalidCredentials; the real reason is only
// visible in logs.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	logger := ctxlog.FromContext(ctx)

	user, err := s.repo.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			metrics.LoginFailures.Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.Enabled {
		metrics.LoginFailures.Inc()
		logger.Warn("login attempt for disabled account", "username", user.Username)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		metrics.LoginFailures.Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssued.WithLabelValues("login").Inc()

	return &AuthResult{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// ValidateToken verifies an access token and returns its identity claims.
func (s *Service) ValidateToken(ctx context.Context, token string) (string, domain.Role, error) {
	return s.auth.VerifyToken(token)
}

// GetUserByUsername returns the user record for the given username.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

// SetUserEnabled enables or disables an account. Disabled accounts cannot
// log in; tokens already issued stay valid until their own expiry.
func (s *Service) SetUserEnabled(ctx context.Context, username string, enabled bool) error {
	if err := s.repo.SetUserEnabled(ctx, username, enabled); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("user status changed",
		"username", username,
		"enabled", enabled,
	)
	return nil
}
