package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/postboard/feed-api/internal/api/middleware"
	"github.com/postboard/feed-api/internal/core/domain"
	"github.com/postboard/feed-api/internal/core/ports"
)

type stubPostService struct {
	createFn func(ctx context.Context, input ports.CreatePostInput) (*ports.CreatePostResult, error)
	getFn    func(ctx context.Context, id string) (*domain.Post, error)
	listFn   func(ctx context.Context, filter ports.ListPostsFilter) (*ports.ListPostsResult, error)
	updateFn func(ctx context.Context, input ports.UpdatePostInput) (*domain.Post, error)
	deleteFn func(ctx context.Context, postID, callerID string) error
}

func (s *stubPostService) Create(ctx context.Context, input ports.CreatePostInput) (*ports.CreatePostResult, error) {
	return s.createFn(ctx, input)
}

func (s *stubPostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.getFn(ctx, id)
}

func (s *stubPostService) List(ctx context.Context, filter ports.ListPostsFilter) (*ports.ListPostsResult, error) {
	return s.listFn(ctx, filter)
}

func (s *stubPostService) Update(ctx context.Context, input ports.UpdatePostInput) (*domain.Post, error) {
	return s.updateFn(ctx, input)
}

func (s *stubPostService) Delete(ctx context.Context, postID, callerID string) error {
	return s.deleteFn(ctx, postID, callerID)
}

func authedContext(t *testing.T, req *http.Request, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("identity", middleware.Identity{UserID: userID, Email: userID + "@example.com"})
	}
	return c, rec
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(fileContent); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestFeedHandler_List(t *testing.T) {
	stub := &stubPostService{
		listFn: func(ctx context.Context, filter ports.ListPostsFilter) (*ports.ListPostsResult, error) {
			if filter.Page != 2 || filter.Limit != 5 {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return &ports.ListPostsResult{
				Posts: []*domain.Post{{ID: "post_1", Title: "Hello"}},
				Total: 11,
				Page:  2,
				Limit: 5,
			}, nil
		},
	}
	h := NewFeedHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/feed/posts?page=2&limit=5", nil)
	c, rec := authedContext(t, req, "user_1")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["totalItems"] != float64(11) {
		t.Fatalf("expected totalItems 11, got %v", resp["totalItems"])
	}
}

func TestFeedHandler_List_Unauthenticated(t *testing.T) {
	h := NewFeedHandler(&stubPostService{})

	req := httptest.NewRequest(http.MethodGet, "/feed/posts", nil)
	c, _ := authedContext(t, req, "")

	err := h.List(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestFeedHandler_Get_NotFound(t *testing.T) {
	stub := &stubPostService{
		getFn: func(ctx context.Context, id string) (*domain.Post, error) {
			return nil, domain.ErrPostNotFound
		},
	}
	h := NewFeedHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/feed/post/missing", nil)
	c, _ := authedContext(t, req, "user_1")
	c.SetParamNames("postId")
	c.SetParamValues("missing")

	if err := h.Get(c); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound passthrough, got %v", err)
	}
}

func TestFeedHandler_Create(t *testing.T) {
	stub := &stubPostService{
		createFn: func(ctx context.Context, input ports.CreatePostInput) (*ports.CreatePostResult, error) {
			if input.Title != "First post" || input.Content != "Hello feed" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.CreatorID != "user_1" {
				t.Fatalf("expected caller identity as creator, got %s", input.CreatorID)
			}
			content, err := io.ReadAll(input.Image.Content)
			if err != nil || len(content) == 0 {
				t.Fatalf("expected image content, got %v", err)
			}
			return &ports.CreatePostResult{
				Post:        &domain.Post{ID: "post_1", Title: input.Title, CreatorID: input.CreatorID},
				CreatorName: "Alice",
			}, nil
		},
	}
	h := NewFeedHandler(stub)

	body, contentType := multipartBody(t,
		map[string]string{"title": "First post", "content": "Hello feed"},
		"image", "cat.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/feed/post", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := authedContext(t, req, "user_1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	creator, ok := resp["creator"].(map[string]any)
	if !ok || creator["name"] != "Alice" {
		t.Fatalf("expected creator in response, got %+v", resp)
	}
}

func TestFeedHandler_Create_MissingImage(t *testing.T) {
	h := NewFeedHandler(&stubPostService{
		createFn: func(ctx context.Context, input ports.CreatePostInput) (*ports.CreatePostResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	body, contentType := multipartBody(t,
		map[string]string{"title": "First post", "content": "Hello feed"},
		"", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/feed/post", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := authedContext(t, req, "user_1")

	if err := h.Create(c); !errors.Is(err, domain.ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestFeedHandler_Create_ShortTitle(t *testing.T) {
	h := NewFeedHandler(&stubPostService{
		createFn: func(ctx context.Context, input ports.CreatePostInput) (*ports.CreatePostResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	body, contentType := multipartBody(t,
		map[string]string{"title": "Hey", "content": "Hello feed"},
		"image", "cat.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/feed/post", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := authedContext(t, req, "user_1")

	err := h.Create(c)
	var ve *domain.ValidationError
	if err == nil || !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestFeedHandler_Update_KeepImage(t *testing.T) {
	stub := &stubPostService{
		updateFn: func(ctx context.Context, input ports.UpdatePostInput) (*domain.Post, error) {
			if input.Image != nil {
				t.Fatalf("expected no new upload")
			}
			if input.ImageURL != "/images/old.png" {
				t.Fatalf("expected existing image url, got %q", input.ImageURL)
			}
			if input.CallerID != "user_1" {
				t.Fatalf("unexpected caller: %s", input.CallerID)
			}
			return &domain.Post{ID: input.PostID, Title: input.Title, Content: input.Content, ImageURL: input.ImageURL}, nil
		},
	}
	h := NewFeedHandler(stub)

	body, contentType := multipartBody(t,
		map[string]string{"title": "New title", "content": "New body", "image": "/images/old.png"},
		"", "", nil)
	req := httptest.NewRequest(http.MethodPut, "/feed/post/post_1", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := authedContext(t, req, "user_1")
	c.SetParamNames("postId")
	c.SetParamValues("post_1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestFeedHandler_Delete_NotOwner(t *testing.T) {
	stub := &stubPostService{
		deleteFn: func(ctx context.Context, postID, callerID string) error {
			return domain.ErrForbidden
		},
	}
	h := NewFeedHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/feed/post/post_1", nil)
	c, _ := authedContext(t, req, "user_2")
	c.SetParamNames("postId")
	c.SetParamValues("post_1")

	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden passthrough, got %v", err)
	}
}

func TestFeedHandler_Delete(t *testing.T) {
	called := false
	stub := &stubPostService{
		deleteFn: func(ctx context.Context, postID, callerID string) error {
			called = true
			if postID != "post_1" || callerID != "user_1" {
				t.Fatalf("unexpected args: %s %s", postID, callerID)
			}
			return nil
		},
	}
	h := NewFeedHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/feed/post/post_1", nil)
	c, rec := authedContext(t, req, "user_1")
	c.SetParamNames("postId")
	c.SetParamValues("post_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("service not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
