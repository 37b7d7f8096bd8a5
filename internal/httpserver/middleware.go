package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/service"
	"github.com/kakamalem/marketplace/internal/tokens"
)

const (
	ctxUserID = "user_id"
	ctxRoles  = "roles"
)

type AuthMiddleware struct {
	JWTSecret []byte
}

func (m *AuthMiddleware) claimsFromCookie(c echo.Context) (*tokens.AccessClaims, error) {
	cookie, err := c.Cookie("accessToken")
	if err != nil || cookie.Value == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	claims, err := tokens.AccessClaimsFromToken(cookie.Value, m.JWTSecret)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
	return claims, nil
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(ctxUserID, claims.Subject)
	c.Set(ctxRoles, claims.Roles)
}

// RequireAuth rejects unauthenticated requests.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.claimsFromCookie(c)
		if err != nil {
			return err
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// OptionalAuth attaches the user when a valid token is present and lets the
// request through either way. Checkout uses it: guests submit orders too.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, err := m.claimsFromCookie(c); err == nil {
			setUserContext(c, claims)
		}
		return next(c)
	}
}

func (m *AuthMiddleware) requireRole(role string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.claimsFromCookie(c)
		if err != nil {
			return err
		}
		if !claims.HasRole(role) && !claims.HasRole(models.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, role+" access required")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// RequireSeller admits sellers and admins.
func (m *AuthMiddleware) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(models.RoleSeller, next)
}

// RequireAdmin admits admins only.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.claimsFromCookie(c)
		if err != nil {
			return err
		}
		if !claims.HasRole(models.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// userID reads the authenticated user from context, nil for guests.
func userID(c echo.Context) *uuid.UUID {
	v, ok := c.Get(ctxUserID).(string)
	if !ok || v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func roles(c echo.Context) []string {
	v, ok := c.Get(ctxRoles).([]string)
	if !ok {
		return nil
	}
	return v
}

func actor(c echo.Context) service.Actor {
	return service.Actor{
		UserID:     userID(c),
		Roles:      roles(c),
		GuestEmail: c.QueryParam("email"),
	}
}
