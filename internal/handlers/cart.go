package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopfront-demo/shopfront/internal/logging"
	authmw "github.com/shopfront-demo/shopfront/internal/middleware/auth"
	"github.com/shopfront-demo/shopfront/internal/models"
	"github.com/shopfront-demo/shopfront/internal/mykafka"
	"github.com/shopfront-demo/shopfront/internal/store"
)

type CartHandler struct {
	Store    *store.Store
	Producer *mykafka.Producer
}

func (h *CartHandler) publish(c echo.Context, event map[string]interface{}) {
	publishEvent(c, h.Producer, "cart_events", event)
}

type cartLine struct {
	Product  models.Product `json:"product"`
	Quantity uint           `json:"quantity"`
	AddedAt  time.Time      `json:"addedAt"`
}

type cartResponse struct {
	Items      []cartLine `json:"items"`
	TotalItems uint       `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// cartView joins cart lines with their products. Lines whose product was
// deleted since are dropped from the view.
func (h *CartHandler) cartView(ctx context.Context, userID uint) (*cartResponse, error) {
	items, err := h.Store.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := cartResponse{Items: make([]cartLine, 0, len(items))}
	for _, item := range items {
		product, err := h.Store.ProductByRef(ctx, itoa(item.ProductID))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		resp.Items = append(resp.Items, cartLine{
			Product:  *product,
			Quantity: item.Quantity,
			AddedAt:  item.AddedAt,
		})
		resp.TotalItems += item.Quantity
		resp.TotalPrice += float64(item.Quantity) * product.Price
	}
	return &resp, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	resp, err := h.cartView(ctx, userID)
	if err != nil {
		l.Error("get_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID ProductRef `json:"productId"`
		Quantity  uint       `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Store.ProductByRef(ctx, string(req.ProductID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to cart")
	}

	if err := h.Store.AddCartItem(ctx, userID, product.ID, req.Quantity); err != nil {
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to cart")
	}

	h.publish(c, map[string]interface{}{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": product.ID,
		"quantity":  req.Quantity,
	})

	resp, err := h.cartView(ctx, userID)
	if err != nil {
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_cart")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID ProductRef `json:"productId"`
		Quantity  int        `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Store.ProductByRef(ctx, string(req.ProductID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart item not found")
		}
		l.Error("update_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	if err := h.Store.SetCartItemQuantity(ctx, userID, product.ID, req.Quantity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart item not found")
		}
		l.Error("update_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	h.publish(c, map[string]interface{}{
		"type":      "cart_item_updated",
		"userID":    userID,
		"productID": product.ID,
		"quantity":  req.Quantity,
	})

	resp, err := h.cartView(ctx, userID)
	if err != nil {
		l.Error("update_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	product, err := h.Store.ProductByRef(ctx, c.Param("productId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart item not found")
		}
		l.Error("remove_from_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	if err := h.Store.RemoveCartItem(ctx, userID, product.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart item not found")
		}
		l.Error("remove_from_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	h.publish(c, map[string]interface{}{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": product.ID,
	})

	resp, err := h.cartView(ctx, userID)
	if err != nil {
		l.Error("remove_from_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	if err := h.Store.ClearCart(ctx, userID); err != nil {
		l.Error("clear_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear cart")
	}

	h.publish(c, map[string]interface{}{
		"type":   "cart_cleared",
		"userID": userID,
	})

	return c.JSON(http.StatusOK, cartResponse{Items: []cartLine{}})
}
