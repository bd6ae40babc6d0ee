package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/core/domain"
)

type MenuHandler struct{}

func NewMenuHandler() *MenuHandler { return &MenuHandler{} }

type menuResponse struct {
	Success string            `json:"success"`
	Items   []domain.MenuItem `json:"items"`
}

// Get returns the account sidebar for the caller's role, marking the entry
// that matches path.
//
// @Summary      Account navigation
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "User id"
// @Param        path    query     string  false  "Current page path"
// @Success      200     {object}  menuResponse
// @Router       /api/menu/{userId} [get]
func (h *MenuHandler) Get(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuResponse{
		Success: "Load menu successfully",
		Items:   domain.NavigationFor(role, c.QueryParam("path")),
	})
}
