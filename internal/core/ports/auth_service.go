package ports

import (
	"context"

	"github.com/devforge/auth-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	CurrentUser(ctx context.Context, identity domain.Identity) (*domain.User, error)
}
