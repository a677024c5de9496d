package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokosmart/backend/internal/events"
	"github.com/sokosmart/backend/internal/logging"
	"github.com/sokosmart/backend/internal/service"
	"github.com/sokosmart/backend/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *events.Producer
}

func (h *AuthHTTP) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicAccountEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	account, err := h.Svc.Register(ctx, req)
	if err != nil {
		he := httpError(err)
		l.Warn("register_error", "status", he.Code, "error", err)
		return he
	}

	h.publish(c, account.ID.String(), map[string]any{
		"type":       "account_registered",
		"account_id": account.ID,
		"role":       account.Role,
	})

	l.Info("register_success", "account_id", account.ID, "role", account.Role)
	return c.JSON(http.StatusCreated, account)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		he := httpError(err)
		l.Warn("login_error", "status", he.Code, "error", err)
		return he
	}

	l.Info("login_success", "role", result.Role)
	return c.JSON(http.StatusOK, transport.LoginResponse{Token: result.Token, Role: result.Role})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	accountID, err := identity(c)
	if err != nil {
		return err
	}

	account, err := h.Svc.Me(ctx, accountID)
	if err != nil {
		he := httpError(err)
		l.Warn("me_error", "status", he.Code, "error", err)
		return he
	}

	return c.JSON(http.StatusOK, account)
}

func (h *AuthHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_me")

	accountID, err := identity(c)
	if err != nil {
		return err
	}

	var req transport.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_me_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	account, err := h.Svc.UpdateMe(ctx, accountID, req)
	if err != nil {
		he := httpError(err)
		l.Warn("update_me_error", "status", he.Code, "error", err)
		return he
	}

	l.Info("update_me_success", "account_id", account.ID)
	return c.JSON(http.StatusOK, account)
}

func (h *AuthHTTP) DeleteMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.delete_me")

	accountID, err := identity(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteMe(ctx, accountID); err != nil {
		he := httpError(err)
		l.Warn("delete_me_error", "status", he.Code, "error", err)
		return he
	}

	l.Info("delete_me_success", "account_id", accountID)
	return c.NoContent(http.StatusNoContent)
}
