package ports

import (
	"context"

	"github.com/devforge/auth-service/internal/core/domain"
)

// UserRepository defines the persistence contract of the credential store.
// Create must enforce username uniqueness atomically at the storage layer
// (unique constraint / check-and-insert under one critical section): two
// concurrent registrations of the same username yield exactly one success
// and one domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
