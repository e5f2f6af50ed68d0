package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/labstack/echo/v4"

	"github.com/shopfront-demo/shopfront/internal/catalog"
	"github.com/shopfront-demo/shopfront/internal/logging"
	"github.com/shopfront-demo/shopfront/internal/service/search"
)

// SearchHandler serves the optional Elasticsearch-backed product search.
// The route is only registered when a cluster is configured.
type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.products")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), catalog.DefaultPageSize)
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = catalog.DefaultPageSize
	}

	total, products, err := search.Search(ctx, h.ES, h.Index, q, (page-1)*limit, limit)
	if err != nil {
		l.Error("search_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
