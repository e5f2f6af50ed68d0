package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/shopfront-demo/shopfront/internal/handlers"
	authmw "github.com/shopfront-demo/shopfront/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	SearchHandler  *handlers.SearchHandler
	Gate           *authmw.Gate
}

// Register wires the public route table. Paths are part of the API
// contract and must not drift.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/me", d.AuthHandler.Me, d.Gate.RequireLogin)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/categories", d.ProductHandler.GetCategories)
	if d.SearchHandler != nil {
		products.GET("/search", d.SearchHandler.Search)
	}
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, d.Gate.AdminOnly)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.Gate.AdminOnly)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Gate.AdminOnly)

	cart := e.Group("/cart", d.Gate.RequireLogin)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.PUT("/update", d.CartHandler.UpdateCart)
	cart.DELETE("/remove/:productId", d.CartHandler.RemoveFromCart)
	cart.DELETE("/clear", d.CartHandler.ClearCart)
}
