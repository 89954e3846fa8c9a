package ports

import (
	"context"

	"github.com/postboard/feed-api/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, email, name, password string) (*domain.User, error)
	// Login returns a signed bearer token and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
