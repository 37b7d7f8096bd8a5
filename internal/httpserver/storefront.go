package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/service"
	"github.com/kakamalem/marketplace/internal/transport"
)

type StorefrontHTTP struct {
	Svc *service.StorefrontService
}

func (h *StorefrontHTTP) CreateStorefront(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.create_storefront")

	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var req transport.CreateStorefrontRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_storefront_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	storefront, err := h.Svc.Create(ctx, req, *uid)
	if err != nil {
		l.Warn("create_storefront_error", "error", err)
		return serviceError(err)
	}

	l.Info("create_storefront_success", "storefront_id", storefront.ID)
	return c.JSON(http.StatusCreated, storefront)
}

func (h *StorefrontHTTP) GetStorefront(c echo.Context) error {
	storefront, err := h.Svc.BySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, storefront)
}

func (h *StorefrontHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.update_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.UpdateStorefrontStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	storefront, err := h.Svc.UpdateStatus(ctx, id, req.Status, actor(c))
	if err != nil {
		l.Warn("update_status_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, storefront)
}

// RecordView tracks a storefront page view. A "new_visitor" flag set by the
// client distinguishes first visits; the counters are best-effort analytics.
func (h *StorefrontHTTP) RecordView(c echo.Context) error {
	ctx := c.Request().Context()

	newVisitor := c.QueryParam("new_visitor") == "true"
	if err := h.Svc.RecordView(ctx, c.Param("slug"), newVisitor); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
