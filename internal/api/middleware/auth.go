package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/insurancereminder/policy-engine/internal/core/ports"
	"github.com/insurancereminder/policy-engine/internal/infrastructure/session"
)

// Session resolves the caller's session from the Authorization header and
// stores it in the request context. Requests without a header proceed as
// guests; a present but invalid token is rejected rather than downgraded.
func Session(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.SetRequest(c.Request().WithContext(
					session.NewContext(c.Request().Context(), ports.Guest())))
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, _ := claims["user_id"].(string)
			email, _ := claims["email"].(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
			}

			sess := ports.Session{Authenticated: true, UserID: userID, Email: email}
			c.SetRequest(c.Request().WithContext(
				session.NewContext(c.Request().Context(), sess)))
			return next(c)
		}
	}
}
