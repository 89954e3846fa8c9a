package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/postboard/feed-api/internal/core/domain"
	"github.com/postboard/feed-api/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Cleaner removes orphaned image files off the request path.
type Cleaner interface {
	Enqueue(urlPath string)
}

// PostService implements the feed use cases. Update and Delete enforce that
// the caller is the post's creator before touching anything.
type PostService struct {
	posts   ports.PostRepository
	users   ports.AuthRepository
	images  ports.ImageStore
	cleaner Cleaner
	log     zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.AuthRepository, images ports.ImageStore, cleaner Cleaner, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, images: images, cleaner: cleaner, log: log}
}

// Create stores the uploaded image, persists the post, and appends the post
// to the creator's owned list.
func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*ports.CreatePostResult, error) {
	imageURL, err := s.images.Save(ctx, input.Image.Filename, input.Image.Content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     input.Title,
		Content:   input.Content,
		ImageURL:  imageURL,
		CreatorID: input.CreatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		s.cleaner.Enqueue(imageURL)
		return nil, err
	}

	user, err := s.users.FindByID(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}
	user.PostIDs = append(user.PostIDs, created.ID)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("post_id", created.ID).Str("creator_id", input.CreatorID).Msg("post created")

	return &ports.CreatePostResult{Post: created, CreatorName: user.Name}, nil
}

// Get retrieves a single post by id.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, id)
}

// List returns one page of the feed, newest first.
func (s *PostService) List(ctx context.Context, filter ports.ListPostsFilter) (*ports.ListPostsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListPostsResult{
		Posts: posts,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Update mutates a post owned by the caller. A new upload replaces the stored
// image and schedules the old file for cleanup; passing the existing image URL
// keeps it; providing neither is a validation failure.
func (s *PostService) Update(ctx context.Context, input ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(input.CallerID) {
		return nil, domain.ErrForbidden
	}

	switch {
	case input.Image != nil:
		imageURL, err := s.images.Save(ctx, input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, err
		}
		if post.ImageURL != "" && post.ImageURL != imageURL {
			s.cleaner.Enqueue(post.ImageURL)
		}
		post.ImageURL = imageURL
	case input.ImageURL != "":
		// Client kept the stored image.
	default:
		return nil, domain.ErrNoImage
	}

	post.Title = input.Title
	post.Content = input.Content
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID).Msg("post updated")
	return post, nil
}

// Delete removes a post owned by the caller, detaches it from the creator's
// owned list, and schedules its image for cleanup.
func (s *PostService) Delete(ctx context.Context, postID, callerID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if !post.OwnedBy(callerID) {
		return domain.ErrForbidden
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return err
	}
	user.RemovePost(postID)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	if post.ImageURL != "" {
		s.cleaner.Enqueue(post.ImageURL)
	}

	s.log.Info().Str("post_id", postID).Str("caller_id", callerID).Msg("post deleted")
	return nil
}
