package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/folioworks/account-service/internal/core/ports"
)

const sessionCookieName = "access_token"

// Session validates the bearer session cookie and injects the user id into
// context. The codec only verifies the signature, so the expiry claim is
// enforced here.
func Session(codec ports.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookieName)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session cookie")
			}

			parts := strings.SplitN(cookie.Value, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session cookie")
			}

			claims, err := codec.Decode(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			expiry, _ := claims["expiry"].(string)
			expiresAt, err := time.Parse(time.RFC3339, expiry)
			if err != nil || !expiresAt.After(time.Now()) {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			c.Set("user_id", userID)

			return next(c)
		}
	}
}
