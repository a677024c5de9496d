package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	mwauth "github.com/sokosmart/backend/internal/middleware/auth"
	"github.com/sokosmart/backend/internal/service"
)

// identity reads the account id the auth middleware stored on the context.
func identity(c echo.Context) (uuid.UUID, error) {
	v, ok := c.Get(mwauth.ContextAccountID).(string)
	if !ok || v == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	return id, nil
}

// httpError maps the service error taxonomy onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, trimSentinel(err, service.ErrValidation))
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, trimSentinel(err, service.ErrNotFound))
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, trimSentinel(err, service.ErrForbidden))
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, trimSentinel(err, service.ErrConflict))
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// trimSentinel drops the "validation: " style prefix from wrapped messages.
func trimSentinel(err error, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
