package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/service"
	"github.com/kakamalem/marketplace/internal/transport"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func (h *AddressHTTP) ListAddresses(c echo.Context) error {
	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	addresses, err := h.Svc.List(c.Request().Context(), *uid)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, addresses)
}

func (h *AddressHTTP) CreateAddress(c echo.Context) error {
	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var req transport.CreateAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	address, err := h.Svc.Create(c.Request().Context(), *uid, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, address)
}
