package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/postboard/feed-api/internal/api/metrics"
	"github.com/postboard/feed-api/internal/core/token"
)

// identityKey is the echo context key the authenticated identity is stored
// under. Handlers read it through IdentityFrom only.
const identityKey = "identity"

// Identity is the request-scoped authenticated caller. It is set once by the
// Auth middleware and never mutated afterwards.
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Auth extracts the bearer token from the Authorization header, verifies it,
// and attaches the caller's Identity to the request context. Every failure
// mode (missing header, wrong scheme, malformed token, bad signature, expiry)
// is a 401; verification can never produce a 500.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthRejectedTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthRejectedTotal.WithLabelValues("bad_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, token.ErrTokenExpired) {
					reason = "expired_token"
				}
				metrics.AuthRejectedTotal.WithLabelValues(reason).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(identityKey, Identity{UserID: claims.UserID, Email: claims.Email})
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Auth, reporting false when the
// middleware did not run.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}
