package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gooddeal/storefront/pkg/listing"
)

// maxImages mirrors the six product image slots.
const maxImages = 6

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

func (c *Client) Category(ctx context.Context, categoryID string) (*Category, error) {
	var out struct {
		Category *Category `json:"category"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/category/by/id/"+url.PathEscape(categoryID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Category, nil
}

// ActiveCategories is the public list, without deleted categories.
func (c *Client) ActiveCategories(ctx context.Context, f listing.Filter) (listing.Page[Category], error) {
	return getList[Category](ctx, c, "/api/active/categories", "categories", f)
}

// Categories is the admin list, including deleted categories.
func (c *Client) Categories(ctx context.Context, f listing.Filter) (listing.Page[Category], error) {
	uid, err := c.userID()
	if err != nil {
		return listing.Page[Category]{}, err
	}
	return getList[Category](ctx, c, "/api/categories/"+uid, "categories", f)
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	return c.sendCategory(ctx, http.MethodPost, "/api/category/create/%s", in)
}

func (c *Client) UpdateCategory(ctx context.Context, categoryID string, in CategoryInput) (*Category, error) {
	return c.sendCategory(ctx, http.MethodPut, "/api/category/"+url.PathEscape(categoryID)+"/%s", in)
}

func (c *Client) sendCategory(ctx context.Context, method, pathf string, in CategoryInput) (*Category, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.ParentID != "" {
		fields["categoryId"] = in.ParentID
	}
	files := map[string]File{}
	if in.Image != nil {
		files["image"] = *in.Image
	}

	var out struct {
		Category *Category `json:"category"`
	}
	if err := c.doMultipart(ctx, method, fmt.Sprintf(pathf, uid), fields, files, &out); err != nil {
		return nil, err
	}
	return out.Category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, categoryID string) (string, error) {
	return c.adminAction(ctx, http.MethodDelete, "/api/category/"+url.PathEscape(categoryID))
}

func (c *Client) RestoreCategory(ctx context.Context, categoryID string) (string, error) {
	return c.adminAction(ctx, http.MethodGet, "/api/category/restore/"+url.PathEscape(categoryID))
}

// ---------------------------------------------------------------------------
// Producers
// ---------------------------------------------------------------------------

func (c *Client) Producers(ctx context.Context, f listing.Filter) (listing.Page[Producer], error) {
	uid, err := c.userID()
	if err != nil {
		return listing.Page[Producer]{}, err
	}
	return getList[Producer](ctx, c, "/api/producers/"+uid, "producers", f)
}

func (c *Client) CreateProducer(ctx context.Context, name string) (*Producer, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	in := struct {
		Name string `json:"name"`
	}{name}

	var out struct {
		Producer *Producer `json:"producer"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/producer/create/"+uid, nil, in, &out); err != nil {
		return nil, err
	}
	return out.Producer, nil
}

func (c *Client) DeleteProducer(ctx context.Context, producerID string) (string, error) {
	return c.adminAction(ctx, http.MethodDelete, "/api/producer/"+url.PathEscape(producerID))
}

func (c *Client) RestoreProducer(ctx context.Context, producerID string) (string, error) {
	return c.adminAction(ctx, http.MethodGet, "/api/producer/restore/"+url.PathEscape(producerID))
}

// adminAction calls prefix/:userId and returns the success message.
func (c *Client) adminAction(ctx context.Context, method, prefix string) (string, error) {
	uid, err := c.userID()
	if err != nil {
		return "", err
	}
	var out message
	if err := c.doJSON(ctx, method, prefix+"/"+uid, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Success, nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

func (c *Client) Product(ctx context.Context, productID string) (*Product, error) {
	var out struct {
		Product *Product `json:"product"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/product/"+url.PathEscape(productID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

func (c *Client) ActiveProducts(ctx context.Context, f listing.Filter) (listing.Page[Product], error) {
	return getList[Product](ctx, c, "/api/active/products", "products", f)
}

func (c *Client) Products(ctx context.Context, f listing.Filter) (listing.Page[Product], error) {
	uid, err := c.userID()
	if err != nil {
		return listing.Page[Product]{}, err
	}
	return getList[Product](ctx, c, "/api/products/"+uid, "products", f)
}

// CreateProduct uploads the product with its images in fields image0..image5.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	if len(in.Images) > maxImages {
		return nil, fmt.Errorf("client: at most %d product images, got %d", maxImages, len(in.Images))
	}
	fields := map[string]string{
		"name":             in.Name,
		"description":      in.Description,
		"quantity":         strconv.Itoa(in.Quantity),
		"price":            in.Price.String(),
		"promotionalPrice": in.PromotionalPrice.String(),
		"categoryId":       in.CategoryID,
		"producerId":       in.ProducerID,
	}
	files := make(map[string]File, len(in.Images))
	for i, img := range in.Images {
		files[fmt.Sprintf("image%d", i)] = img
	}

	var out struct {
		Product *Product `json:"product"`
	}
	if err := c.doMultipart(ctx, http.MethodPost, "/api/product/create/"+uid, fields, files, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

// SetProductActive bans or unbans a product and returns it with the
// server's message.
func (c *Client) SetProductActive(ctx context.Context, productID string, active bool) (*Product, string, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, "", err
	}
	in := struct {
		IsActive bool `json:"isActive"`
	}{active}

	var out struct {
		Success string   `json:"success"`
		Product *Product `json:"product"`
	}
	path := fmt.Sprintf("/api/product/active/%s/%s", url.PathEscape(productID), uid)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, "", err
	}
	return out.Product, out.Success, nil
}
