package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/service"
	"github.com/kakamalem/marketplace/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	items, err := h.Svc.Items(c.Request().Context(), *uid)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.Svc.Add(ctx, *uid, req)
	if err != nil {
		l.Warn("add_item_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Svc.SetQuantity(ctx, *uid, uint(itemID), req.Quantity); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	if err := h.Svc.Remove(ctx, *uid, uint(itemID)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
