package ports

import (
	"context"
	"io"

	"github.com/postboard/feed-api/internal/core/domain"
)

// ImageUpload is an uploaded file as received by the transport layer.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// CreatePostInput carries all data needed to create a post. Image is required.
type CreatePostInput struct {
	Title     string
	Content   string
	Image     ImageUpload
	CreatorID string
}

// CreatePostResult is the created post plus the creator's display name, which
// the feed response echoes back to the client.
type CreatePostResult struct {
	Post        *domain.Post
	CreatorName string
}

// UpdatePostInput carries a post mutation. Exactly one of Image (a new upload,
// replacing the stored file) or ImageURL (keep an existing file) must be set.
type UpdatePostInput struct {
	PostID   string
	Title    string
	Content  string
	Image    *ImageUpload
	ImageURL string
	CallerID string
}

// ListPostsResult is one page of the feed.
type ListPostsResult struct {
	Posts []*domain.Post
	Total int64
	Page  int
	Limit int
}

// PostService defines use-case operations for the feed. Mutating operations
// enforce that the caller is the post's creator.
type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*CreatePostResult, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter ListPostsFilter) (*ListPostsResult, error)
	Update(ctx context.Context, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, postID, callerID string) error
}
