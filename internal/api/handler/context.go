package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/insurancereminder/policy-engine/internal/core/ports"
	"github.com/insurancereminder/policy-engine/internal/infrastructure/session"
)

// ctxSession extracts the session injected by the Session middleware. The
// middleware always stores one, so an unresolved session means the route is
// wired without it.
func ctxSession(c echo.Context) ports.Session {
	return session.FromContext(c.Request().Context())
}

// requireUser returns the authenticated user id or a 401 for guests. Used by
// account routes that act on the caller's own record.
func requireUser(c echo.Context) (string, error) {
	sess := ctxSession(c)
	if !sess.Authenticated || sess.UserID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return sess.UserID, nil
}
