package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the final catch-all: every failure, including panics
// surfaced by the recover middleware and unmatched routes, ends up here
// and always produces a JSON response. Unexpected errors are logged
// server-side and reported to the client as a generic message.
func ErrorHandler(l *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
			if code == http.StatusNotFound && he.Message == "Not Found" {
				message = "Route not found"
			}
		}

		if code >= 500 {
			l.Error("request failed", "status", code, "path", c.Request().URL.Path, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, echo.Map{"error": message})
	}
}
