package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sokosmart/backend/internal/models"
	"github.com/sokosmart/backend/internal/tokens"
)

const (
	ContextAccountID = "account_id"
	ContextRole      = "role"
)

type Middleware struct {
	JWTSecret []byte
}

func New(secret []byte) *Middleware {
	return &Middleware{JWTSecret: secret}
}

// RequireAuth verifies the bearer token and puts the account id and role on
// the context. Every failure cause gets the same 401 so callers cannot probe
// which check failed.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		claims, err := tokens.AccessClaimsFromToken(strings.TrimPrefix(header, "Bearer "), m.JWTSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(ContextAccountID, claims.Subject)
		c.Set(ContextRole, claims.Role)

		return next(c)
	}
}

func (m *Middleware) RequireFarmer(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(models.RoleFarmer, next)
}

func (m *Middleware) RequireBuyer(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(models.RoleBuyer, next)
}

// requireRole trusts only the role recovered from the verified token, never
// anything the client sent in the request body.
func (m *Middleware) requireRole(role string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		v, ok := c.Get(ContextRole).(string)
		if !ok || v == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if v != role {
			return echo.NewHTTPError(http.StatusForbidden, "wrong role for this resource")
		}
		return next(c)
	}
}
