package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/postboard/feed-api/internal/api/metrics"
	"github.com/postboard/feed-api/internal/core/domain"
	"github.com/postboard/feed-api/internal/core/ports"
)

// FeedHandler handles HTTP requests for the post feed. Every route assumes
// the Auth middleware ran.
type FeedHandler struct {
	service ports.PostService
}

func NewFeedHandler(service ports.PostService) *FeedHandler {
	return &FeedHandler{service: service}
}

// List handles GET /feed/posts.
//
// @Summary      List posts (paginated, newest first)
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Posts per page (max 100)"
// @Success      200    {object}  listPostsResponse
// @Failure      401    {object}  errorResponse
// @Router       /feed/posts [get]
func (h *FeedHandler) List(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListPostsFilter{Page: page, Limit: limit})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listPostsResponse{
		Message:    "Fetched posts successfully.",
		Posts:      result.Posts,
		TotalItems: result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
	})
}

// Get handles GET /feed/post/:postId.
//
// @Summary      Get a single post
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string  true  "Post id"
// @Success      200     {object}  postResponse
// @Failure      404     {object}  errorResponse
// @Router       /feed/post/{postId} [get]
func (h *FeedHandler) Get(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	post, err := h.service.Get(c.Request().Context(), c.Param("postId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postResponse{Message: "Post fetched.", Post: post})
}

// Create handles POST /feed/post. The body is multipart form data: title and
// content text fields plus a required image file part.
//
// @Summary      Create a post
// @Tags         feed
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title    formData  string  true  "Post title"
// @Param        content  formData  string  true  "Post content"
// @Param        image    formData  file    true  "Image (png or jpeg)"
// @Success      201      {object}  createPostResponse
// @Failure      401      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /feed/post [post]
func (h *FeedHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var form postForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return domain.ErrNoImage
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	result, err := h.service.Create(c.Request().Context(), ports.CreatePostInput{
		Title:     form.Title,
		Content:   form.Content,
		Image:     ports.ImageUpload{Filename: fileHeader.Filename, Content: file},
		CreatorID: identity.UserID,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, createPostResponse{
		Message: "Post created successfully!",
		Post:    result.Post,
		Creator: creatorResponse{ID: identity.UserID, Name: result.CreatorName},
	})
}

// Update handles PUT /feed/post/:postId. Only the post's creator may update;
// a new image file replaces the stored one, or the existing URL is resent in
// the image text field to keep it.
//
// @Summary      Update a post
// @Tags         feed
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        postId   path      string  true   "Post id"
// @Param        title    formData  string  true   "Post title"
// @Param        content  formData  string  true   "Post content"
// @Param        image    formData  string  false  "Existing image URL"
// @Success      200      {object}  postResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /feed/post/{postId} [put]
func (h *FeedHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var form postForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	input := ports.UpdatePostInput{
		PostID:   c.Param("postId"),
		Title:    form.Title,
		Content:  form.Content,
		ImageURL: form.Image,
		CallerID: identity.UserID,
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return err
		}
		defer file.Close()
		input.Image = &ports.ImageUpload{Filename: fileHeader.Filename, Content: file}
	}

	post, err := h.service.Update(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postResponse{Message: "Post updated!", Post: post})
}

// Delete handles DELETE /feed/post/:postId. Only the post's creator may delete.
//
// @Summary      Delete a post
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string  true  "Post id"
// @Success      200     {object}  messageResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /feed/post/{postId} [delete]
func (h *FeedHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("postId"), identity.UserID); err != nil {
		return err
	}

	metrics.PostsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Deleted post."})
}
