package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gooddeal/storefront/pkg/listing"
)

type orderEnvelope struct {
	Success string `json:"success"`
	Order   *Order `json:"order"`
}

// PlaceOrder checks out cartID. The server drops an identical submission
// made within a few seconds with a 409.
func (c *Client) PlaceOrder(ctx context.Context, cartID string, in Checkout) (*Order, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	var out orderEnvelope
	path := fmt.Sprintf("/api/order/create/%s/%s", url.PathEscape(cartID), uid)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) Order(ctx context.Context, orderID string) (*Order, error) {
	return c.order(ctx, "by/user", orderID)
}

// AdminOrder reads any user's order.
func (c *Client) AdminOrder(ctx context.Context, orderID string) (*Order, error) {
	return c.order(ctx, "for/admin", orderID)
}

func (c *Client) order(ctx context.Context, scope, orderID string) (*Order, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	var out orderEnvelope
	path := fmt.Sprintf("/api/order/%s/%s/%s", scope, url.PathEscape(orderID), uid)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, fmt.Errorf("client: decode GET %s: missing %q", path, "order")
	}
	return out.Order, nil
}

func (c *Client) OrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	return c.orderItems(ctx, "by/user", orderID)
}

func (c *Client) AdminOrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	return c.orderItems(ctx, "for/admin", orderID)
}

func (c *Client) orderItems(ctx context.Context, scope, orderID string) ([]OrderItem, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	var out struct {
		Items []OrderItem `json:"items"`
	}
	path := fmt.Sprintf("/api/order/items/%s/%s/%s", scope, url.PathEscape(orderID), uid)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Orders lists the signed-in user's orders.
func (c *Client) Orders(ctx context.Context, f listing.Filter) (listing.Page[Order], error) {
	uid, err := c.userID()
	if err != nil {
		return listing.Page[Order]{}, err
	}
	return getList[Order](ctx, c, "/api/orders/by/user/"+uid, "orders", f)
}

// AdminOrders lists every user's orders.
func (c *Client) AdminOrders(ctx context.Context, f listing.Filter) (listing.Page[Order], error) {
	uid, err := c.userID()
	if err != nil {
		return listing.Page[Order]{}, err
	}
	return getList[Order](ctx, c, "/api/orders/for/admin/"+uid, "orders", f)
}

// CancelOrder is the only status change a customer can make, and only while
// the order is young enough.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	return c.updateOrder(ctx, "by/user", orderID, StatusCancelled)
}

func (c *Client) AdminSetOrderStatus(ctx context.Context, orderID, status string) (*Order, error) {
	return c.updateOrder(ctx, "for/admin", orderID, status)
}

func (c *Client) updateOrder(ctx context.Context, scope, orderID, status string) (*Order, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	in := struct {
		Status string `json:"status"`
	}{status}

	var out orderEnvelope
	path := fmt.Sprintf("/api/order/update/%s/%s/%s", scope, url.PathEscape(orderID), uid)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

// CountOrders is public. Empty arguments are not sent.
func (c *Client) CountOrders(ctx context.Context, userID, status string) (int64, error) {
	q := url.Values{}
	if userID != "" {
		q.Set("userId", userID)
	}
	if status != "" {
		q.Set("status", status)
	}
	var out count
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/count", q, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
