package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/service"
	"github.com/kakamalem/marketplace/internal/transport"
	"github.com/kakamalem/marketplace/internal/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.Svc.CreateOrder(ctx, req, userID(c))
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return serviceError(err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.CreateOrderResponse{Order: *order})
}

func (h *OrderHTTP) getOrder(c echo.Context, handlerName string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handlerName)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	order, err := h.Svc.GetOrder(ctx, id, actor(c))
	if err != nil {
		l.Warn("get_order_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// GetOrder serves the account order page.
func (h *OrderHTTP) GetOrder(c echo.Context) error {
	return h.getOrder(c, "order.get_order")
}

// OrderConfirmation serves the post-checkout confirmation page. Guests pass
// their email as a query parameter to prove ownership.
func (h *OrderHTTP) OrderConfirmation(c echo.Context) error {
	return h.getOrder(c, "order.order_confirmation")
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.OrdersForBuyer(ctx, *uid, limit, offset)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status, actor(c))
	if err != nil {
		l.Warn("update_status_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdatePaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_payment_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.Svc.UpdatePaymentStatus(ctx, id, req.PaymentStatus, actor(c))
	if err != nil {
		l.Warn("update_payment_status_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, order)
}
