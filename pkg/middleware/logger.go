package middleware

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/reed/pkg/context"
)

// Logger writes one line per request. Server errors log at error level, client errors at warn.
// Health and metrics probes are skipped.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			if isProbe(c.Path()) {
				return nil
			}

			req := c.Request()
			res := c.Response()
			ctx := req.Context()

			fields := context.Fields(ctx)
			fields["method"] = req.Method
			fields["route"] = c.Path()
			fields["uri"] = req.RequestURI
			fields["status"] = res.Status
			fields["remote_ip"] = c.RealIP()
			fields["duration_ms"] = time.Since(start).Milliseconds()
			fields["response_size"] = res.Size

			entry := logger.WithContext(ctx).WithFields(fields)
			switch {
			case res.Status >= http.StatusInternalServerError:
				entry.Error("Request failed")
			case res.Status >= http.StatusBadRequest:
				entry.Warn("Request rejected")
			default:
				entry.Info("Request")
			}

			return nil
		}
	}
}

func isProbe(route string) bool {
	switch route {
	case "/metrics", "/health", "/health/live", "/health/ready":
		return true
	}
	return false
}
