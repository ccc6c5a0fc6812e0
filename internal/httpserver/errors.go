package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// serverError logs the cause and hides it from the client.
func serverError(l *slog.Logger, op string, err error) error {
	l.Error(op+"_failed", "status", http.StatusInternalServerError, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Server error. Try again later.")
}

func invalidBody(l *slog.Logger, op string, err error) error {
	l.Warn(op+"_failed", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}

func fail(l *slog.Logger, op string, code int, message string) error {
	l.Warn(op+"_failed", "status", code, "reason", message)
	return echo.NewHTTPError(code, message)
}
