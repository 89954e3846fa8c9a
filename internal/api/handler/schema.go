package handler

import "github.com/postboard/feed-api/internal/core/domain"

// errorResponse documents the standard error envelope for swagger; the actual
// rendering happens in the HTTP error handler.
type errorResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Auth ---

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required,min=5"`
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// --- Feed ---

// postForm covers the text fields of the multipart create/update requests;
// the image arrives as a file part and is validated by the image store.
type postForm struct {
	Title   string `form:"title"   validate:"required,min=5"`
	Content string `form:"content" validate:"required,min=5"`
	// Existing image URL, sent on update when no new file is picked.
	Image string `form:"image"`
}

type creatorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createPostResponse struct {
	Message string          `json:"message"`
	Post    *domain.Post    `json:"post"`
	Creator creatorResponse `json:"creator"`
}

type postResponse struct {
	Message string       `json:"message"`
	Post    *domain.Post `json:"post"`
}

type listPostsResponse struct {
	Message    string         `json:"message"`
	Posts      []*domain.Post `json:"posts"`
	TotalItems int64          `json:"totalItems"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

type messageResponse struct {
	Message string `json:"message"`
}
