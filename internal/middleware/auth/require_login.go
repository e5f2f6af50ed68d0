package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopfront-demo/shopfront/internal/service/token"
)

// Gate resolves bearer tokens on every guarded request and rejects when
// resolution fails.
type Gate struct {
	Tokens *token.TokenService
}

func (g *Gate) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c)
		if err != nil {
			return err
		}
		userID, role, err := g.Tokens.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		setUserContext(c, userID, role)
		return next(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
	}
	return strings.TrimPrefix(header, prefix), nil
}
