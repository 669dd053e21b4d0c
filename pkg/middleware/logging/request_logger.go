// Package loggingmw attaches a request scoped logger and writes one access
// line per request.
package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/green_homes/internal/logging"
)

func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			l := base.With(
				"method", req.Method,
				"route", c.Path(),
				"path", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			if rid != "" {
				l = l.With("request_id", rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the error response so the logged status is final.
				c.Error(err)
			}
			status := c.Response().Status
			attrs := []any{"status", status, "duration_ms", time.Since(start).Milliseconds()}

			switch {
			case status >= 500:
				l.Error("http_request", append(attrs, "error", err)...)
			case status >= 400:
				l.Warn("http_request", attrs...)
			default:
				l.Info("http_request", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}
