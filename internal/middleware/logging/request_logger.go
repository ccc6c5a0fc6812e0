package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/middleware/auth"
)

// RequestLogger puts a request-scoped logger into the request context and
// writes one line per request. Errors are rendered here so the logged status
// is the one the client sees.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			l := base.With(
				"method", r.Method,
				"path", c.Path(),
				"url", r.URL.Path,
				"remote_ip", c.RealIP(),
				"user_agent", r.UserAgent(),
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
			}
			c.SetRequest(r.WithContext(logging.IntoContext(r.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}

			attrs := []any{
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if uid := auth.UserID(c); uid != "" {
				attrs = append(attrs, "user_id", uid)
			}

			status := c.Response().Status
			switch {
			case err != nil && status >= 500:
				l.Error("request completed", append(attrs, "error", err.Error())...)
			case status >= 500:
				l.Error("request completed", attrs...)
			case status >= 400:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

// requestID prefers the id set by middleware.RequestID on the response.
func requestID(c echo.Context) string {
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
