package middleware

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/priceserver/internal/logging"
	"winsbygroup.com/priceserver/internal/version"
)

const VersionHeader = "X-App-Version"

// Context keys
type versionKey struct{}

// Version adds the app version to the request context and response headers.
func Version() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(VersionHeader, version.Version)
			ctx := context.WithValue(c.Request().Context(), versionKey{}, version.Version)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetVersion retrieves the version from context.
func GetVersion(ctx context.Context) string {
	if v, ok := ctx.Value(versionKey{}).(string); ok {
		return v
	}
	return version.Version
}

// RequestLogger stores a logger tagged with the request id in the request
// context. It must run after echo's RequestID middleware.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				l = base.With("request_id", id)
			}
			ctx := logging.WithLogger(c.Request().Context(), l)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
