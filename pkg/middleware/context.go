package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/reed/pkg/context"
	"github.com/Ramsey-B/reed/pkg/tracing"
)

const (
	// HeaderUserID identifies the reviewer making the request
	HeaderUserID = "X-User-ID"
	// HeaderTraceID echoes the trace id so a failed review can be found in the collector
	HeaderTraceID = "X-Trace-ID"
)

// Context copies request metadata onto the request context. It runs after the otel middleware
// so the trace id is already known.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			res.Header().Set(echo.HeaderXRequestID, requestID)

			ctx := context.SetRequestID(req.Context(), requestID)
			ctx = context.SetMethod(ctx, req.Method)
			ctx = context.SetRoute(ctx, c.Path())
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			if userID := req.Header.Get(HeaderUserID); userID != "" {
				ctx = context.SetUserID(ctx, userID)
			}

			if traceID := tracing.GetTraceID(ctx); traceID != "" {
				res.Header().Set(HeaderTraceID, traceID)
			}

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
