package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/service"
)

type DashboardHTTP struct {
	Svc *service.DashboardService
}

func (h *DashboardHTTP) Overview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.overview")

	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	overview, err := h.Svc.GetOverview(ctx, *uid)
	if err != nil {
		l.Error("overview_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, overview)
}

func (h *DashboardHTTP) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.orders")

	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	orders, err := h.Svc.ListOrders(ctx, *uid)
	if err != nil {
		l.Error("orders_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *DashboardHTTP) Analytics(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.analytics")

	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	analytics, err := h.Svc.GetAnalytics(ctx, *uid)
	if err != nil {
		l.Error("analytics_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, analytics)
}
