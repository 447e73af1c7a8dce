package apimiddleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tallyhq/tally/pkg/identity"
)

// DefaultCallerHeader is where the gateway in front of tallyd places the
// authenticated caller's email. tallyd never re-validates credentials; it
// only normalizes the identity key once so every controller compares on the
// same form.
const DefaultCallerHeader = "X-Authenticated-Email"

const CallerKey = "Caller"

type CallerConfig struct {
	Skipper middleware.Skipper
	Header  string
}

func CallerAuth(config CallerConfig) echo.MiddlewareFunc {
	if config.Header == "" {
		config.Header = DefaultCallerHeader
	}

	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			raw := c.Request().Header.Get(config.Header)
			if raw == "" {
				return echo.ErrUnauthorized
			}

			email, ok := identity.Normalize(raw)
			if !ok {
				return echo.NewHTTPError(http.StatusBadRequest, "malformed caller email")
			}

			c.Set(CallerKey, email)
			return next(c)
		}
	}
}

// GetCaller returns the normalized caller email placed in the context by
// CallerAuth.
func GetCaller(c echo.Context) string {
	email, _ := c.Get(CallerKey).(string)
	return email
}
