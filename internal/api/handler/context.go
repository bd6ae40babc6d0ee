package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/api/middleware"
	"github.com/gooddeal/storefront/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware. An
// empty subject means the route was mounted without Auth.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(middleware.KeyUserID).(string)
	role, _ = c.Get(middleware.KeyRole).(string)
	if userID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get(middleware.KeyRole).(string)
	return role == domain.RoleAdmin
}

// bind decodes the request and runs the registered validator on it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
