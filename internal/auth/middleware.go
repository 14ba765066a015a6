package auth

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// identityKey is the echo context key the middleware stores identities under.
const identityKey = "auth.identity"

// Middleware authenticates requests with a Verifier and stores the verified
// identity in the request context. Requests without a valid bearer token get
// a 401 and never reach the handler.
func Middleware(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := FromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			identity, err := v.Verify(token)
			if err != nil {
				log.Warn("Unauthorized request",
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"remote_addr", c.RealIP())
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
			}
			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the verified identity the middleware attached, or nil
// when the request was not authenticated.
func IdentityFrom(c echo.Context) *Identity {
	if id, ok := c.Get(identityKey).(*Identity); ok {
		return id
	}
	return nil
}
