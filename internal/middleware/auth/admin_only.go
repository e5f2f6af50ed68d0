package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront-demo/shopfront/internal/models"
)

func (g *Gate) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return g.RequireLogin(func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}
