package middleware

import (
	"log/slog"
	"time"

	deliverycontext "coderr/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// AccessLog writes one line per request through the request-scoped logger.
// Handler errors are resolved with c.Error before logging so the recorded
// status is the one the client received. User agent and query string are
// only logged in debug mode.
func AccessLog(logger *slog.Logger, debug bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.URL.Path),
				slog.Int("status", res.Status),
				slog.Duration("latency", time.Since(start)),
				slog.String("remote_ip", c.RealIP()),
				slog.Int64("bytes_out", res.Size),
			}
			if debug {
				attrs = append(attrs, slog.String("user_agent", req.UserAgent()))
				if req.URL.RawQuery != "" {
					attrs = append(attrs, slog.String("query", req.URL.RawQuery))
				}
			}
			if caller, ok := deliverycontext.GetCaller(c); ok {
				attrs = append(attrs, slog.Int64("user_id", caller.UserID))
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			deliverycontext.GetLoggerOrDefault(req.Context(), logger).
				LogAttrs(req.Context(), statusLevel(res.Status), "HTTP Request", attrs...)

			return nil
		}
	}
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
