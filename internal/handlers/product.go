package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront-demo/shopfront/internal/catalog"
	"github.com/shopfront-demo/shopfront/internal/logging"
	"github.com/shopfront-demo/shopfront/internal/models"
	"github.com/shopfront-demo/shopfront/internal/mykafka"
	"github.com/shopfront-demo/shopfront/internal/store"
)

type ProductHandler struct {
	Store    *store.Store
	Producer *mykafka.Producer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]interface{}) {
	publishEvent(c, h.Producer, "product_events", event)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	query := catalog.Query{
		Search:    c.QueryParam("search"),
		Category:  c.QueryParam("category"),
		MinPrice:  parseFloatParam(c.QueryParam("minPrice")),
		MaxPrice:  parseFloatParam(c.QueryParam("maxPrice")),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		Page:      parseIntDefault(c.QueryParam("page"), 1),
		Limit:     parseIntDefault(c.QueryParam("limit"), catalog.DefaultPageSize),
	}

	products, err := h.Store.Products(ctx)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, catalog.Run(products, query))
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_categories")

	categories, err := h.Store.Categories(ctx)
	if err != nil {
		l.Error("get_categories_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	product, err := h.Store.ProductByRef(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req struct {
		Slug        string  `json:"slug"`
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
		Stock       int     `json:"stock"`
		Rating      float64 `json:"rating"`
		Featured    bool    `json:"featured"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and category are required")
	}

	// Numeric ranges are intentionally not validated here; the demo keeps
	// the source behavior of trusting admin input.
	product := models.Product{
		Slug:        req.Slug,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
		Rating:      req.Rating,
		Featured:    req.Featured,
	}
	if err := h.Store.CreateProduct(ctx, &product); err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}

	h.publish(c, map[string]interface{}{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	l.Info("create_product_success", "productID", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	var patch store.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Store.PatchProduct(ctx, c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("update_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	h.publish(c, map[string]interface{}{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	l.Info("update_product_success", "productID", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	ref := c.Param("id")
	if err := h.Store.DeleteProduct(ctx, ref); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("delete_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}

	h.publish(c, map[string]interface{}{
		"type":      "product_deleted",
		"productID": ref,
	})

	l.Info("delete_product_success", "productID", ref)
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}
