package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/postboard/feed-api/internal/core/domain"
	"github.com/postboard/feed-api/internal/core/token"
)

func renderError(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"invalid token", token.ErrInvalidToken, http.StatusUnauthorized, "invalid credentials"},
		{"expired token", token.ErrTokenExpired, http.StatusUnauthorized, "invalid credentials"},
		{"throttled login", domain.ErrTooManyLogins, http.StatusTooManyRequests, "too many login attempts"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "not the owner"},
		{"post not found", domain.ErrPostNotFound, http.StatusNotFound, "post not found"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"no image", domain.ErrNoImage, http.StatusUnprocessableEntity, "no image provided"},
		{"unsupported image", domain.ErrUnsupportedImage, http.StatusUnprocessableEntity, "unsupported image type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := renderError(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if body["message"] != tc.message {
				t.Fatalf("expected message %q, got %v", tc.message, body["message"])
			}
		})
	}
}

func TestErrorHandler_ValidationError(t *testing.T) {
	code, body := renderError(t, &domain.ValidationError{
		Fields: []domain.FieldError{
			{Field: "email", Message: "email must be a valid address"},
		},
	})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	fields, ok := body["data"].([]any)
	if !ok || len(fields) != 1 {
		t.Fatalf("expected field list in data, got %v", body["data"])
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("load post"), domain.ErrPostNotFound)
	code, _ := renderError(t, wrapped)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrapped sentinel, got %d", code)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	code, body := renderError(t, errors.New("mongo: socket closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body["message"] != "internal server error" {
		t.Fatalf("internal detail leaked: %v", body["message"])
	}
}
