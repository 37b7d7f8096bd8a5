package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/service"
	"github.com/kakamalem/marketplace/internal/util"
)

type SearchHTTP struct {
	Svc *service.SearchService
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.products")

	query := c.QueryParam("q")
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, products, err := h.Svc.SearchProducts(ctx, query, from, limit)
	if err != nil {
		l.Error("search_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search unavailable")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": products,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}
