package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/service"
)

// serviceError maps the service layer's sentinel errors onto HTTP status
// codes, keeping the human-readable detail for the client.
func serviceError(err error) *echo.HTTPError {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		code = http.StatusConflict
	}
	if code == http.StatusInternalServerError {
		return echo.NewHTTPError(code, "internal error")
	}
	return echo.NewHTTPError(code, err.Error())
}
