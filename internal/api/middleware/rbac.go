package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/core/domain"
)

// Authorization checks run after Auth and answer 403 with the same body the
// error handler uses for domain.ErrForbidden.

func forbid(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{"error": domain.ErrForbidden.Error()})
}

// RBAC lets the request through only when the token's role is one of roles.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role, _ := c.Get(KeyRole).(string); !slices.Contains(roles, role) {
				return forbid(c)
			}
			return next(c)
		}
	}
}

// Owner requires the named path segment to be the authenticated user's id.
// Admin routes carry the admin's own id, so Owner runs before RBAC there too.
func Owner(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sub, _ := c.Get(KeyUserID).(string); sub == "" || c.Param(param) != sub {
				return forbid(c)
			}
			return next(c)
		}
	}
}
