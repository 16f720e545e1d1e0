package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/insurancereminder/policy-engine/internal/infrastructure/session"
)

// RequireAuth rejects guest callers. It must run after Session.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := session.FromContext(c.Request().Context())
			if !sess.Authenticated {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			return next(c)
		}
	}
}
