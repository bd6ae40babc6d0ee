package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/gooddeal/storefront/internal/api/metrics"
	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

// CatalogHandler serves categories, producers and products.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// --- Request / Response types ---

type categoryForm struct {
	Name       string `form:"name" validate:"required,anything"`
	CategoryID string `form:"categoryId"`
}

type categoryUpdateForm struct {
	Name       string `form:"name" validate:"omitempty,anything"`
	CategoryID string `form:"categoryId"`
}

type producerRequest struct {
	Name string `json:"name" validate:"required,anything"`
}

type productForm struct {
	Name             string `form:"name" validate:"required,anything"`
	Description      string `form:"description" validate:"required,bio"`
	Quantity         string `form:"quantity" validate:"required,nonneg_number"`
	Price            string `form:"price" validate:"required,nonneg_number"`
	PromotionalPrice string `form:"promotionalPrice" validate:"required,nonneg_number"`
	CategoryID       string `form:"categoryId" validate:"required"`
	ProducerID       string `form:"producerId" validate:"required"`
}

type productActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type categoryResponse struct {
	Success  string           `json:"success"`
	Category *domain.Category `json:"category"`
}

type producerResponse struct {
	Success  string           `json:"success"`
	Producer *domain.Producer `json:"producer"`
}

type productResponse struct {
	Success string          `json:"success"`
	Product *domain.Product `json:"product"`
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// Category returns a category that is not deleted.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        categoryId  path      string  true  "Category id"
// @Success      200         {object}  categoryResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/category/by/id/{categoryId} [get]
func (h *CatalogHandler) Category(c echo.Context) error {
	cat, err := h.service.Category(c.Request().Context(), c.Param("categoryId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryResponse{Success: "Get category successfully", Category: cat})
}

// ActiveCategories pages through the categories shown in the storefront.
//
// @Summary      List active categories
// @Tags         categories
// @Produce      json
// @Param        search      query  string  false  "Name contains"
// @Param        categoryId  query  string  false  "Parent category id"
// @Param        sortBy      query  string  false  "Sort field"
// @Param        order       query  string  false  "asc or desc"
// @Param        limit       query  int     false  "Page size"
// @Param        page        query  int     false  "Page number"
// @Success      200         {object}  map[string]any
// @Router       /api/active/categories [get]
func (h *CatalogHandler) ActiveCategories(c echo.Context) error {
	return h.categories(c, false)
}

// Categories pages through every category including deleted ones.
//
// @Summary      List categories (admin)
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path   string  true   "Admin id"
// @Param        search  query  string  false  "Name contains"
// @Param        sortBy  query  string  false  "Sort field"
// @Param        order   query  string  false  "asc or desc"
// @Param        limit   query  int     false  "Page size"
// @Param        page    query  int     false  "Page number"
// @Success      200     {object}  map[string]any
// @Router       /api/categories/{userId} [get]
func (h *CatalogHandler) Categories(c echo.Context) error {
	return h.categories(c, true)
}

func (h *CatalogHandler) categories(c echo.Context, admin bool) error {
	res, err := h.service.Categories(c.Request().Context(), parseFilter(c, byName), admin)
	if err != nil {
		return err
	}
	return writeList(c, "categories", "Load list categories successfully", res)
}

// CreateCategory adds a category with an optional parent and image.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        userId      path      string  true   "Admin id"
// @Param        name        formData  string  true   "Name"
// @Param        categoryId  formData  string  false  "Parent category id"
// @Param        image       formData  file    false  "Image"
// @Success      201         {object}  categoryResponse
// @Failure      400         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/category/create/{userId} [post]
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryForm
	if err := bind(c, &req); err != nil {
		return err
	}

	files := &uploads{}
	defer files.Close()
	img, err := files.open(c, "image")
	if err != nil {
		return err
	}

	cat, err := h.service.CreateCategory(c.Request().Context(), ports.CategoryInput{
		Name:     req.Name,
		ParentID: req.CategoryID,
		Image:    img,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, categoryResponse{Success: "Create category successfully", Category: cat})
}

// UpdateCategory changes the name, parent or image of a category. Empty
// fields keep their value.
//
// @Summary      Update a category
// @Tags         categories
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  path      string  true   "Category id"
// @Param        userId      path      string  true   "Admin id"
// @Param        name        formData  string  false  "Name"
// @Param        categoryId  formData  string  false  "Parent category id"
// @Param        image       formData  file    false  "Image"
// @Success      200         {object}  categoryResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/category/{categoryId}/{userId} [put]
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	var req categoryUpdateForm
	if err := bind(c, &req); err != nil {
		return err
	}

	files := &uploads{}
	defer files.Close()
	img, err := files.open(c, "image")
	if err != nil {
		return err
	}

	cat, err := h.service.UpdateCategory(c.Request().Context(), c.Param("categoryId"), ports.CategoryInput{
		Name:     req.Name,
		ParentID: req.CategoryID,
		Image:    img,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryResponse{Success: "Update category successfully", Category: cat})
}

// DeleteCategory hides a category from the storefront.
//
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  path      string  true  "Category id"
// @Param        userId      path      string  true  "Admin id"
// @Success      200         {object}  successResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/category/{categoryId}/{userId} [delete]
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	if err := h.service.DeleteCategory(c.Request().Context(), c.Param("categoryId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Delete category successfully"})
}

// RestoreCategory shows a deleted category again.
//
// @Summary      Restore a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  path      string  true  "Category id"
// @Param        userId      path      string  true  "Admin id"
// @Success      200         {object}  successResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/category/restore/{categoryId}/{userId} [get]
func (h *CatalogHandler) RestoreCategory(c echo.Context) error {
	if err := h.service.RestoreCategory(c.Request().Context(), c.Param("categoryId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Restore category successfully"})
}

// ---------------------------------------------------------------------------
// Producers
// ---------------------------------------------------------------------------

// Producers pages through every producer including deleted ones.
//
// @Summary      List producers (admin)
// @Tags         producers
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path   string  true   "Admin id"
// @Param        search  query  string  false  "Name contains"
// @Param        limit   query  int     false  "Page size"
// @Param        page    query  int     false  "Page number"
// @Success      200     {object}  map[string]any
// @Router       /api/producers/{userId} [get]
func (h *CatalogHandler) Producers(c echo.Context) error {
	res, err := h.service.Producers(c.Request().Context(), parseFilter(c, byName))
	if err != nil {
		return err
	}
	return writeList(c, "producers", "Load list producers successfully", res)
}

// CreateProducer adds a producer.
//
// @Summary      Create a producer
// @Tags         producers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string           true  "Admin id"
// @Param        body    body      producerRequest  true  "Producer name"
// @Success      201     {object}  producerResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/producer/create/{userId} [post]
func (h *CatalogHandler) CreateProducer(c echo.Context) error {
	var req producerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.CreateProducer(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, producerResponse{Success: "Create producer successfully", Producer: p})
}

// DeleteProducer soft deletes a producer.
//
// @Summary      Delete a producer
// @Tags         producers
// @Produce      json
// @Security     BearerAuth
// @Param        producerId  path      string  true  "Producer id"
// @Param        userId      path      string  true  "Admin id"
// @Success      200         {object}  successResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/producer/{producerId}/{userId} [delete]
func (h *CatalogHandler) DeleteProducer(c echo.Context) error {
	if err := h.service.DeleteProducer(c.Request().Context(), c.Param("producerId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Delete producer successfully"})
}

// RestoreProducer undoes DeleteProducer.
//
// @Summary      Restore a producer
// @Tags         producers
// @Produce      json
// @Security     BearerAuth
// @Param        producerId  path      string  true  "Producer id"
// @Param        userId      path      string  true  "Admin id"
// @Success      200         {object}  successResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/producer/restore/{producerId}/{userId} [get]
func (h *CatalogHandler) RestoreProducer(c echo.Context) error {
	if err := h.service.RestoreProducer(c.Request().Context(), c.Param("producerId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Restore producer successfully"})
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// Product returns an active product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        productId  path      string  true  "Product id"
// @Success      200        {object}  productResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/product/{productId} [get]
func (h *CatalogHandler) Product(c echo.Context) error {
	p, err := h.service.Product(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Success: "Get product successfully", Product: p})
}

// ActiveProducts pages through the products on sale.
//
// @Summary      List active products
// @Tags         products
// @Produce      json
// @Param        search      query  string  false  "Name contains"
// @Param        rating      query  string  false  "Minimum rating"
// @Param        categoryId  query  string  false  "Category id"
// @Param        minPrice    query  string  false  "Minimum promotional price"
// @Param        maxPrice    query  string  false  "Maximum promotional price"
// @Param        sortBy      query  string  false  "Sort field"
// @Param        order       query  string  false  "asc or desc"
// @Param        limit       query  int     false  "Page size"
// @Param        page        query  int     false  "Page number"
// @Success      200         {object}  map[string]any
// @Failure      400         {object}  errorResponse
// @Router       /api/active/products [get]
func (h *CatalogHandler) ActiveProducts(c echo.Context) error {
	return h.products(c, false)
}

// Products pages through every product including inactive ones.
//
// @Summary      List products (admin)
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path   string  true   "Admin id"
// @Param        search  query  string  false  "Name contains"
// @Param        sortBy  query  string  false  "Sort field"
// @Param        order   query  string  false  "asc or desc"
// @Param        limit   query  int     false  "Page size"
// @Param        page    query  int     false  "Page number"
// @Success      200     {object}  map[string]any
// @Router       /api/products/{userId} [get]
func (h *CatalogHandler) Products(c echo.Context) error {
	return h.products(c, true)
}

func (h *CatalogHandler) products(c echo.Context, admin bool) error {
	res, err := h.service.Products(c.Request().Context(), parseFilter(c, newestFirst), admin)
	if err != nil {
		return err
	}
	return writeList(c, "products", "Load list products successfully", res)
}

// CreateProduct adds a product with up to six images; image0 is required.
//
// @Summary      Create a product
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        userId            path      string  true   "Admin id"
// @Param        name              formData  string  true   "Name"
// @Param        description       formData  string  true   "Description"
// @Param        quantity          formData  int     true   "Stock"
// @Param        price             formData  string  true   "List price"
// @Param        promotionalPrice  formData  string  true   "Promotional price"
// @Param        categoryId        formData  string  true   "Category id"
// @Param        producerId        formData  string  true   "Producer id"
// @Param        image0            formData  file    true   "Main image"
// @Param        image1            formData  file    false  "Image"
// @Success      201               {object}  productResponse
// @Failure      400               {object}  errorResponse
// @Failure      404               {object}  errorResponse
// @Router       /api/product/create/{userId} [post]
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req productForm
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	files := &uploads{}
	defer files.Close()
	if in.Images, err = files.openProductImages(c); err != nil {
		return err
	}

	p, err := h.service.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return err
	}
	metrics.ProductsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, productResponse{Success: "Create product successfully", Product: p})
}

func (f productForm) toInput() (ports.ProductInput, error) {
	qty, err := strconv.Atoi(f.Quantity)
	if err != nil {
		return ports.ProductInput{}, fmt.Errorf("%w: quantity must be a whole number", domain.ErrInvalidInput)
	}
	// The validator already accepted both prices as numbers.
	price, _ := decimal.NewFromString(f.Price)
	promo, _ := decimal.NewFromString(f.PromotionalPrice)

	return ports.ProductInput{
		Name:             f.Name,
		Description:      f.Description,
		Quantity:         qty,
		Price:            price,
		PromotionalPrice: promo,
		CategoryID:       f.CategoryID,
		ProducerID:       f.ProducerID,
	}, nil
}

// SetActive bans or unbans a product.
//
// @Summary      Activate or deactivate a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      string                true  "Product id"
// @Param        userId     path      string                true  "Admin id"
// @Param        body       body      productActiveRequest  true  "New state"
// @Success      200        {object}  productResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/product/active/{productId}/{userId} [put]
func (h *CatalogHandler) SetActive(c echo.Context) error {
	var req productActiveRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.SetProductActive(c.Request().Context(), c.Param("productId"), *req.IsActive)
	if err != nil {
		return err
	}
	msg := "Unban product successfully"
	if !p.IsActive {
		msg = "Ban product successfully"
	}
	return c.JSON(http.StatusOK, productResponse{Success: msg, Product: p})
}
