package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devforge/auth-service/internal/core/domain"
	"github.com/devforge/auth-service/internal/core/ports"
)

// Context keys populated for authorized requests.
const (
	CtxIdentity = "identity"
	CtxUsername = "username"
	CtxUserID   = "user_id"
)

// Auth extracts the bearer token, verifies it, and injects the resulting
// identity into the request context. Any failure short-circuits with 401 and
// a WWW-Authenticate: Bearer challenge; the internal cause (expiry, tamper,
// malformed) is logged, never sent to the caller.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return unauthorized(c, "invalid authorization header")
			}

			identity, err := verifier.Verify(parts[1])
			if err != nil {
				log.Debug().Err(err).
					Str("path", c.Path()).
					Msg("bearer token rejected")
				return unauthorized(c, domain.ErrInvalidToken.Error())
			}

			c.Set(CtxIdentity, identity)
			c.Set(CtxUsername, identity.Username)
			c.Set(CtxUserID, identity.UserID)

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
