package auth

import (
	"context"

	"github.com/minimart-io/minimart/internal/domain"
)

// Repository defines the interface for user record persistence.
type Repository interface {
	// CreateUser persists a new user. Implementations must enforce username
	// and email uniqueness atomically and return ErrUsernameExists or
	// ErrEmailExists when a concurrent or prior registration got there first.
	CreateUser(ctx context.Context, user *domain.User) error

	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetUserEnabled flips the enabled flag; returns ErrUserNotFound if the
	// username does not exist.
	SetUserEnabled(ctx context.Context, username string, enabled bool) error
}
