package client

import (
	"context"
	"net/http"

	"github.com/gooddeal/storefront/pkg/listing"
)

// CreateReview rates a product from a delivered order.
func (c *Client) CreateReview(ctx context.Context, in ReviewInput) (*Review, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	var out struct {
		Review *Review `json:"review"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/review/create/"+uid, nil, in, &out); err != nil {
		return nil, err
	}
	return out.Review, nil
}

// Reviews lists reviews, usually narrowed with f.ProductID.
func (c *Client) Reviews(ctx context.Context, f listing.Filter) (listing.Page[Review], error) {
	return getList[Review](ctx, c, "/api/reviews", "reviews", f)
}
