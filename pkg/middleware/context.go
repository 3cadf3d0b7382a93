// Package middleware provides the HTTP middleware chain: request context,
// logging, error mapping, authentication and role gating.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hideyanjp01-maker/workbench/pkg/wbcontext"
)

const (
	// HeaderUserID carries the caller's user ID when auth is disabled.
	HeaderUserID = "X-User-ID"
	// HeaderRole carries the caller's workspace role when auth is disabled.
	HeaderRole = "X-Role"
)

func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = wbcontext.SetRequestID(ctx, requestID)
			ctx = wbcontext.SetMethod(ctx, req.Method)
			ctx = wbcontext.SetRoute(ctx, req.URL.Path)
			ctx = wbcontext.SetRemoteIP(ctx, c.RealIP())
			ctx = wbcontext.SetReferer(ctx, req.Referer())

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
