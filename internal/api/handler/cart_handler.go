package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/money"
)

type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Count     int    `json:"count" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	Count int `json:"count" validate:"required,gt=0"`
}

type cartItemResponse struct {
	Success  string           `json:"success"`
	CartItem *domain.CartItem `json:"cartItem"`
}

type updatedCartItemResponse struct {
	Success string           `json:"success"`
	Item    *domain.CartItem `json:"item"`
}

// cartItemsResponse also carries the totals the checkout page shows.
type cartItemsResponse struct {
	Success string            `json:"success"`
	Items   []domain.CartItem `json:"items"`
	Totals  money.Totals      `json:"totals"`
}

// List pages through the user's carts.
//
// @Summary      List carts
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path   string  true   "User id"
// @Param        limit   query  int     false  "Page size"
// @Param        page    query  int     false  "Page number"
// @Success      200     {object}  map[string]any
// @Router       /api/carts/{userId} [get]
func (h *CartHandler) List(c echo.Context) error {
	res, err := h.service.Carts(c.Request().Context(), c.Param("userId"), parseFilter(c, newestFirst))
	if err != nil {
		return err
	}
	return writeList(c, "carts", "Load list carts successfully", res)
}

// Items lists a cart's lines with their products populated.
//
// @Summary      List cart items
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        cartId  path      string  true  "Cart id"
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  cartItemsResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/cart/items/{cartId}/{userId} [get]
func (h *CartHandler) Items(c echo.Context) error {
	items, err := h.service.Items(c.Request().Context(), c.Param("cartId"), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartItemsResponse{
		Success: "Load list cart items successfully",
		Items:   items,
		Totals:  domain.CartTotals(items),
	})
}

// Add puts a product into the user's open cart.
//
// @Summary      Add to cart
// @Tags         carts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string            true  "User id"
// @Param        body    body      addToCartRequest  true  "Product and count"
// @Success      201     {object}  cartItemResponse
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /api/cart/add/{userId} [post]
func (h *CartHandler) Add(c echo.Context) error {
	var req addToCartRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.service.Add(c.Request().Context(), c.Param("userId"), req.ProductID, req.Count)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cartItemResponse{Success: "Add to cart successfully", CartItem: item})
}

// Update changes the count of a cart line.
//
// @Summary      Update cart item
// @Tags         carts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        cartItemId  path      string                 true  "Cart item id"
// @Param        userId      path      string                 true  "User id"
// @Param        body        body      updateCartItemRequest  true  "New count"
// @Success      200         {object}  updatedCartItemResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/cart/update/{cartItemId}/{userId} [put]
func (h *CartHandler) Update(c echo.Context) error {
	var req updateCartItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.service.UpdateItem(c.Request().Context(), c.Param("userId"), c.Param("cartItemId"), req.Count)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedCartItemResponse{Success: "Update cart item successfully", Item: item})
}

// Remove deletes a cart line. Removing the last line deletes the cart.
//
// @Summary      Remove cart item
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        cartItemId  path      string  true  "Cart item id"
// @Param        userId      path      string  true  "User id"
// @Success      200         {object}  successResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/cart/remove/{cartItemId}/{userId} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	if err := h.service.RemoveItem(c.Request().Context(), c.Param("userId"), c.Param("cartItemId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Remove cart item successfully"})
}

// Count returns the number of lines in the user's open cart.
//
// @Summary      Count cart items
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  countResponse
// @Router       /api/cart/count/{userId} [get]
func (h *CartHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Success: "Count cart items successfully", Count: int64(n)})
}
