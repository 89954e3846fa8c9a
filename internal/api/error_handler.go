package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/postboard/feed-api/internal/core/domain"
	"github.com/postboard/feed-api/internal/core/token"
)

// errorResponse is the canonical error envelope for all API errors. Data
// carries field-level detail for validation failures and is omitted otherwise.
type errorResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "...", "data": ...}.
//
// This is the only place status codes are attached; services return typed
// errors and nothing below this boundary writes a response.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Validation failures carry their field list to the client.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{
			Message: "validation failed",
			Data:    ve.Fields,
		}
	}

	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors → deterministic HTTP codes. Credential and token
	// failures share one opaque message so the response shape leaks nothing.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, token.ErrTokenExpired):
		return http.StatusUnauthorized, errorResponse{Message: "invalid credentials"}
	case errors.Is(err, domain.ErrTooManyLogins):
		return http.StatusTooManyRequests, errorResponse{Message: "too many login attempts"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Message: "not the owner"}
	case errors.Is(err, domain.ErrPostNotFound):
		return http.StatusNotFound, errorResponse{Message: "post not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Message: "user not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Message: "user already exists"}
	case errors.Is(err, domain.ErrNoImage):
		return http.StatusUnprocessableEntity, errorResponse{Message: "no image provided"}
	case errors.Is(err, domain.ErrUnsupportedImage):
		return http.StatusUnprocessableEntity, errorResponse{Message: "unsupported image type"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Message: "internal server error"}
}
