package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/service"
	"github.com/kakamalem/marketplace/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setAuthCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(&http.Cookie{
		Name:     "accessToken",
		Value:    res.AccessToken,
		Path:     "/",
		Expires:  res.AccessExp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    res.RefreshToken,
		Path:     "/",
		Expires:  res.RefreshExp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookies(c echo.Context) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
		})
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
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		l.Warn("register_error", "error", err)
		return serviceError(err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		l.Warn("login_error", "error", err)
		return serviceError(err)
	}

	setAuthCookies(c, res)
	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, res.User)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie("refreshToken")
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		clearAuthCookies(c)
		return serviceError(err)
	}

	setAuthCookies(c, res)
	return c.JSON(http.StatusOK, res.User)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie("refreshToken"); err == nil {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			logging.FromContext(ctx).Warn("logout_revoke_failed", "error", err)
		}
	}
	clearAuthCookies(c)
	return c.NoContent(http.StatusNoContent)
}
