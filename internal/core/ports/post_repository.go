package ports

import (
	"context"

	"github.com/postboard/feed-api/internal/core/domain"
)

// ListPostsFilter carries pagination parameters for listing the feed.
type ListPostsFilter struct {
	Page  int // 1-based
	Limit int // max rows per page (capped at 100 by the service)
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns a page of posts, newest first, and the total count.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
}
