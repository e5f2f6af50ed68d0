package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func setUserContext(c echo.Context, userID uint, role string) {
	c.Set("userID", userID)
	c.Set("role", role)
}

// UserID reads the authenticated user id set by RequireLogin.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}
