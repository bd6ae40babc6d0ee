package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/api/metrics"
	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

// OrderHandler handles checkout and the order lifecycle.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// --- Request / Response types ---

type checkoutRequest struct {
	Firstname string `json:"firstname" validate:"required,person_name"`
	Lastname  string `json:"lastname" validate:"required,person_name"`
	Phone     string `json:"phone" validate:"required,vn_phone"`
	Address   string `json:"address" validate:"required,address"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=0 1 2 3 4"`
}

type orderResponse struct {
	Success string        `json:"success"`
	Order   *domain.Order `json:"order"`
}

type orderItemsResponse struct {
	Success string             `json:"success"`
	Items   []domain.OrderItem `json:"items"`
}

// Create places an order from the user's cart.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        cartId  path      string           true  "Cart id"
// @Param        userId  path      string           true  "Buyer id"
// @Param        body    body      checkoutRequest  true  "Delivery details"
// @Success      201     {object}  orderResponse
// @Failure      400     {object}  errorResponse
// @Failure      409     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /api/order/create/{cartId}/{userId} [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req checkoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.service.Create(c.Request().Context(), ports.CheckoutInput{
		CartID:    c.Param("cartId"),
		UserID:    c.Param("userId"),
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if errors.Is(err, domain.ErrDuplicateSubmit) {
		metrics.CheckoutDedupTotal.WithLabelValues("hit").Inc()
		return err
	}
	metrics.CheckoutDedupTotal.WithLabelValues("miss").Inc()
	if err != nil {
		return err
	}
	metrics.OrdersPlacedTotal.Inc()

	return c.JSON(http.StatusCreated, orderResponse{Success: "Order placed", Order: order})
}

// GetByUser returns one of the user's orders.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Order id"
// @Param        userId   path      string  true  "Buyer id"
// @Success      200      {object}  orderResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/order/by/user/{orderId}/{userId} [get]
func (h *OrderHandler) GetByUser(c echo.Context) error {
	return h.get(c, c.Param("userId"))
}

// GetForAdmin returns any order.
//
// @Summary      Get an order (admin)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Order id"
// @Param        userId   path      string  true  "Admin id"
// @Success      200      {object}  orderResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/order/for/admin/{orderId}/{userId} [get]
func (h *OrderHandler) GetForAdmin(c echo.Context) error {
	return h.get(c, "")
}

func (h *OrderHandler) get(c echo.Context, owner string) error {
	order, err := h.service.Get(c.Request().Context(), c.Param("orderId"), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Success: "Get order successfully", Order: order})
}

// ItemsByUser lists the items of one of the user's orders.
//
// @Summary      List order items
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Order id"
// @Param        userId   path      string  true  "Buyer id"
// @Success      200      {object}  orderItemsResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/order/items/by/user/{orderId}/{userId} [get]
func (h *OrderHandler) ItemsByUser(c echo.Context) error {
	return h.items(c, c.Param("userId"))
}

// ItemsForAdmin lists the items of any order.
//
// @Summary      List order items (admin)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Order id"
// @Param        userId   path      string  true  "Admin id"
// @Success      200      {object}  orderItemsResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/order/items/for/admin/{orderId}/{userId} [get]
func (h *OrderHandler) ItemsForAdmin(c echo.Context) error {
	return h.items(c, "")
}

func (h *OrderHandler) items(c echo.Context, owner string) error {
	items, err := h.service.Items(c.Request().Context(), c.Param("orderId"), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderItemsResponse{Success: "Get order items successfully", Items: items})
}

// ListByUser pages through the user's orders.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path   string  true   "Buyer id"
// @Param        search  query  string  false  "Name, phone, address or order id"
// @Param        status  query  string  false  "Status code 0..4"
// @Param        sortBy  query  string  false  "Sort field"
// @Param        order   query  string  false  "asc or desc"
// @Param        limit   query  int     false  "Page size"
// @Param        page    query  int     false  "Page number"
// @Success      200     {object}  map[string]any
// @Failure      400     {object}  errorResponse
// @Router       /api/orders/by/user/{userId} [get]
func (h *OrderHandler) ListByUser(c echo.Context) error {
	return h.list(c, c.Param("userId"))
}

// ListForAdmin pages through every user's orders.
//
// @Summary      List all orders (admin)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path   string  true   "Admin id"
// @Param        search  query  string  false  "Name, phone, address or order id"
// @Param        status  query  string  false  "Status code 0..4"
// @Param        sortBy  query  string  false  "Sort field"
// @Param        order   query  string  false  "asc or desc"
// @Param        limit   query  int     false  "Page size"
// @Param        page    query  int     false  "Page number"
// @Success      200     {object}  map[string]any
// @Failure      403     {object}  errorResponse
// @Router       /api/orders/for/admin/{userId} [get]
func (h *OrderHandler) ListForAdmin(c echo.Context) error {
	return h.list(c, "")
}

func (h *OrderHandler) list(c echo.Context, owner string) error {
	res, err := h.service.List(c.Request().Context(), owner, parseFilter(c, newestFirst))
	if err != nil {
		return err
	}
	return writeList(c, "orders", "Load list orders successfully", res)
}

// UpdateByUser lets the buyer cancel a pending order.
//
// @Summary      Cancel an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string               true  "Order id"
// @Param        userId   path      string               true  "Buyer id"
// @Param        body     body      updateStatusRequest  true  "Status 4 (cancelled)"
// @Success      200      {object}  orderResponse
// @Failure      403      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /api/order/update/by/user/{orderId}/{userId} [put]
func (h *OrderHandler) UpdateByUser(c echo.Context) error {
	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.service.UserUpdateStatus(c.Request().Context(), c.Param("orderId"), c.Param("userId"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	metrics.OrderStatusChangesTotal.WithLabelValues(req.Status, domain.RoleUser).Inc()

	return c.JSON(http.StatusOK, orderResponse{Success: "Update order successfully", Order: order})
}

// UpdateForAdmin moves an order along its lifecycle.
//
// @Summary      Update order status (admin)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string               true  "Order id"
// @Param        userId   path      string               true  "Admin id"
// @Param        body     body      updateStatusRequest  true  "New status"
// @Success      200      {object}  orderResponse
// @Failure      403      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /api/order/update/for/admin/{orderId}/{userId} [put]
func (h *OrderHandler) UpdateForAdmin(c echo.Context) error {
	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.service.AdminUpdateStatus(c.Request().Context(), c.Param("orderId"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	metrics.OrderStatusChangesTotal.WithLabelValues(req.Status, domain.RoleAdmin).Inc()

	return c.JSON(http.StatusOK, orderResponse{Success: "Update order successfully", Order: order})
}

// Count returns the number of orders, optionally for one user and status.
//
// @Summary      Count orders
// @Tags         orders
// @Produce      json
// @Param        status  query     string  false  "Status code 0..4"
// @Param        userId  query     string  false  "Buyer id"
// @Success      200     {object}  countResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/orders/count [get]
func (h *OrderHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context(), c.QueryParam("userId"), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Success: "Count orders successfully", Count: n})
}
