package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devforge/auth-service/internal/api/middleware"
	"github.com/devforge/auth-service/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a handler behind the middleware must
// never run without one, and a token whose subject is empty is structurally
// valid but operationally unusable.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, _ := c.Get(middleware.CtxIdentity).(domain.Identity)
	if identity.Username == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
