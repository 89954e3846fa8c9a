package ports

import (
	"context"

	"github.com/postboard/feed-api/internal/core/domain"
)

// AuthRepository defines the interface for user persistence. The backing
// store is assumed to enforce uniqueness on email.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Save persists mutations to an existing user (the owned-post list).
	Save(ctx context.Context, user *domain.User) error
}
