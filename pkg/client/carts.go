package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gooddeal/storefront/pkg/listing"
)

func (c *Client) Carts(ctx context.Context, f listing.Filter) (listing.Page[Cart], error) {
	uid, err := c.userID()
	if err != nil {
		return listing.Page[Cart]{}, err
	}
	return getList[Cart](ctx, c, "/api/carts/"+uid, "carts", f)
}

func (c *Client) CartItems(ctx context.Context, cartID string) (*CartContents, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	var out CartContents
	path := fmt.Sprintf("/api/cart/items/%s/%s", url.PathEscape(cartID), uid)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToCart adds count units of a product to the open cart, creating the
// cart on first use.
func (c *Client) AddToCart(ctx context.Context, productID string, count int) (*CartItem, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	in := struct {
		ProductID string `json:"productId"`
		Count     int    `json:"count"`
	}{productID, count}

	var out struct {
		CartItem *CartItem `json:"cartItem"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/cart/add/"+uid, nil, in, &out); err != nil {
		return nil, err
	}
	return out.CartItem, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, count int) (*CartItem, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	in := struct {
		Count int `json:"count"`
	}{count}

	var out struct {
		Item *CartItem `json:"item"`
	}
	path := fmt.Sprintf("/api/cart/update/%s/%s", url.PathEscape(itemID), uid)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID string) (string, error) {
	uid, err := c.userID()
	if err != nil {
		return "", err
	}
	var out message
	path := fmt.Sprintf("/api/cart/remove/%s/%s", url.PathEscape(itemID), uid)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Success, nil
}

// CartCount is the number of lines in the open cart.
func (c *Client) CartCount(ctx context.Context) (int64, error) {
	uid, err := c.userID()
	if err != nil {
		return 0, err
	}
	var out count
	if err := c.doJSON(ctx, http.MethodGet, "/api/cart/count/"+uid, nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
