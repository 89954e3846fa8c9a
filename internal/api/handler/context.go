package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postboard/feed-api/internal/api/middleware"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call. A missing identity on a protected route
// means the route was registered without the middleware; reject with 401
// rather than proceeding unauthenticated.
func ctxIdentity(c echo.Context) (middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.UserID == "" {
		return middleware.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return id, nil
}
