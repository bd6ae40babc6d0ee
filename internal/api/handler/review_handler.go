package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type reviewRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,rating"`
	Content   string `json:"content" validate:"nullable"`
}

type reviewResponse struct {
	Success string         `json:"success"`
	Review  *domain.Review `json:"review"`
}

// Create rates a product from one of the user's delivered orders.
//
// @Summary      Review a product
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string         true  "Buyer id"
// @Param        body    body      reviewRequest  true  "Review"
// @Success      201     {object}  reviewResponse
// @Failure      400     {object}  errorResponse
// @Failure      409     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /api/review/create/{userId} [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	r, err := h.service.Create(c.Request().Context(), c.Param("userId"), ports.ReviewInput{
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Content:   req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reviewResponse{Success: "Review product successfully", Review: r})
}

// List pages through the reviews of a product.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        productId  query     string  false  "Product id"
// @Param        limit      query     int     false  "Page size"
// @Param        page       query     int     false  "Page number"
// @Success      200        {object}  map[string]any
// @Router       /api/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	res, err := h.service.List(c.Request().Context(), parseFilter(c, newestFirst))
	if err != nil {
		return err
	}
	return writeList(c, "reviews", "Load list reviews successfully", res)
}
