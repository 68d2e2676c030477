package observability

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

var untracedPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// EchoMiddleware traces every request except the probes.
func EchoMiddleware(service string) echo.MiddlewareFunc {
	if strings.TrimSpace(service) == "" {
		service = "snapledger"
	}
	return otelecho.Middleware(service, otelecho.WithSkipper(func(c echo.Context) bool {
		return untracedPaths[c.Request().URL.Path]
	}))
}

// RequestMetadataMiddleware puts the request id and matched route on the
// request context for log records and the active span. It must run after
// the RequestID middleware.
func RequestMetadataMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route := c.Path()
			if route == "" {
				route = req.URL.Path
			}
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			c.SetRequest(req.WithContext(WithRequestMetadata(req.Context(), requestID, route)))
			return next(c)
		}
	}
}
