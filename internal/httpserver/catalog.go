package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/service"
	"github.com/kakamalem/marketplace/internal/transport"
	"github.com/kakamalem/marketplace/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		l.Warn("get_product_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListProducts(ctx, limit, offset)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	uid := userID(c)
	if uid == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.Svc.CreateProduct(ctx, req, *uid)
	if err != nil {
		l.Warn("create_product_error", "error", err)
		return serviceError(err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.PatchProduct(ctx, id, req, actor(c))
	if err != nil {
		l.Warn("patch_product_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	if err := h.Svc.DeleteProduct(ctx, id, actor(c)); err != nil {
		l.Warn("delete_product_error", "error", err)
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	categories, err := h.Svc.ListCategories(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

// ReorderProducts persists a drag-and-drop batch. The response carries one
// row per entry so the client can revert just the failed rows.
func (h *CatalogHTTP) ReorderProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.reorder_products")

	var req transport.ReorderProductsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("reorder_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rows, ok := h.Svc.ReorderProducts(ctx, req.Products)
	return reorderResponse(c, l, rows, ok)
}

func (h *CatalogHTTP) ReorderCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.reorder_categories")

	var req transport.ReorderCategoriesRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("reorder_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rows, ok := h.Svc.ReorderCategories(ctx, req.Categories)
	return reorderResponse(c, l, rows, ok)
}

func reorderResponse(c echo.Context, l *slog.Logger, rows []transport.ReorderRow, ok bool) error {
	resp := transport.ReorderResponse{Success: ok, Rows: rows}
	if !ok {
		resp.Message = "some rows failed to update"
		l.Warn("reorder_partial_failure", "rows", len(rows))
		return c.JSON(http.StatusOK, resp)
	}
	resp.Message = "order updated"
	return c.JSON(http.StatusOK, resp)
}
