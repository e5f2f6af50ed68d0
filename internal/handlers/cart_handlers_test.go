package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopfront-demo/shopfront/internal/models"
)

func TestAddToCartAccumulates(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]interface{}{
		"productId": "product1",
		"quantity":  2,
	})
	asUser(c, user)
	require.NoError(t, env.C.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]interface{}{
		"productId": "product1",
		"quantity":  3,
	})
	asUser(c2, user)
	require.NoError(t, env.C.AddToCart(c2))

	cart := decodeJSON[cartResponse](t, rec2)
	require.Len(t, cart.Items, 1)
	require.Equal(t, uint(5), cart.Items[0].Quantity)
	require.Equal(t, "product1", cart.Items[0].Product.Slug)
	require.Equal(t, uint(5), cart.TotalItems)
}

func TestAddToCartAcceptsNumericProductID(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]interface{}{
		"productId": 2,
		"quantity":  1,
	})
	asUser(c, user)
	require.NoError(t, env.C.AddToCart(c))

	cart := decodeJSON[cartResponse](t, rec)
	require.Len(t, cart.Items, 1)
	require.Equal(t, uint(2), cart.Items[0].Product.ID)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	_, c := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]interface{}{
		"productId": "no-such-product",
		"quantity":  1,
	})
	asUser(c, user)
	requireHTTPError(t, env.C.AddToCart(c), http.StatusNotFound, "Product not found")
}

func TestGetCartPopulatesProducts(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	_, add := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]interface{}{
		"productId": "product4",
		"quantity":  2,
	})
	asUser(add, user)
	require.NoError(t, env.C.AddToCart(add))

	rec, c := env.doJSONRequest(http.MethodGet, "/cart", nil)
	asUser(c, user)
	require.NoError(t, env.C.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeJSON[cartResponse](t, rec)
	require.Len(t, cart.Items, 1)
	require.NotEmpty(t, cart.Items[0].Product.Name)
	require.False(t, cart.Items[0].AddedAt.IsZero())
	require.InDelta(t, 2*cart.Items[0].Product.Price, cart.TotalPrice, 0.001)
}

func TestGetCartEmptyForNewUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("fresh@example.com", models.RoleCustomer)

	rec, c := env.doJSONRequest(http.MethodGet, "/cart", nil)
	asUser(c, user)
	require.NoError(t, env.C.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeJSON[cartResponse](t, rec)
	require.Empty(t, cart.Items)
	require.Zero(t, cart.TotalItems)
}

func TestUpdateCartToZeroRemovesItem(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	_, add := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]interface{}{
		"productId": "product2",
		"quantity":  3,
	})
	asUser(add, user)
	require.NoError(t, env.C.AddToCart(add))

	rec, c := env.doJSONRequest(http.MethodPut, "/cart/update", map[string]interface{}{
		"productId": "product2",
		"quantity":  0,
	})
	asUser(c, user)
	require.NoError(t, env.C.UpdateCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeJSON[cartResponse](t, rec)
	for _, line := range cart.Items {
		require.NotEqual(t, "product2", line.Product.Slug)
	}

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/cart", nil)
	asUser(c2, user)
	require.NoError(t, env.C.GetCart(c2))
	after := decodeJSON[cartResponse](t, rec2)
	require.Empty(t, after.Items)
}

func TestUpdateCartReplacesQuantity(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	_, add := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]interface{}{
		"productId": "product5",
		"quantity":  4,
	})
	asUser(add, user)
	require.NoError(t, env.C.AddToCart(add))

	rec, c := env.doJSONRequest(http.MethodPut, "/cart/update", map[string]interface{}{
		"productId": "product5",
		"quantity":  1,
	})
	asUser(c, user)
	require.NoError(t, env.C.UpdateCart(c))

	cart := decodeJSON[cartResponse](t, rec)
	require.Len(t, cart.Items, 1)
	require.Equal(t, uint(1), cart.Items[0].Quantity)
}

func TestUpdateCartMissingItem(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	_, c := env.doJSONRequest(http.MethodPut, "/cart/update", map[string]interface{}{
		"productId": "product1",
		"quantity":  2,
	})
	asUser(c, user)
	requireHTTPError(t, env.C.UpdateCart(c), http.StatusNotFound, "Cart item not found")
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	_, add := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]interface{}{
		"productId": "product6",
		"quantity":  1,
	})
	asUser(add, user)
	require.NoError(t, env.C.AddToCart(add))

	rec, c := env.doJSONRequest(http.MethodDelete, "/cart/remove/product6", nil)
	c.SetParamNames("productId")
	c.SetParamValues("product6")
	asUser(c, user)
	require.NoError(t, env.C.RemoveFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeJSON[cartResponse](t, rec)
	require.Empty(t, cart.Items)
}

func TestRemoveFromCartMissingItem(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	_, c := env.doJSONRequest(http.MethodDelete, "/cart/remove/product6", nil)
	c.SetParamNames("productId")
	c.SetParamValues("product6")
	asUser(c, user)
	requireHTTPError(t, env.C.RemoveFromCart(c), http.StatusNotFound, "Cart item not found")
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	user := env.createUser("cart@example.com", models.RoleCustomer)

	for _, slug := range []string{"product1", "product2", "product3"} {
		_, add := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]interface{}{
			"productId": slug,
			"quantity":  1,
		})
		asUser(add, user)
		require.NoError(t, env.C.AddToCart(add))
	}

	rec, c := env.doJSONRequest(http.MethodDelete, "/cart/clear", nil)
	asUser(c, user)
	require.NoError(t, env.C.ClearCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeJSON[cartResponse](t, rec)
	require.Empty(t, cart.Items)

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/cart", nil)
	asUser(c2, user)
	require.NoError(t, env.C.GetCart(c2))
	after := decodeJSON[cartResponse](t, rec2)
	require.Empty(t, after.Items)
}
