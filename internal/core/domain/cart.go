package domain

import (
	"time"

	"github.com/gooddeal/storefront/pkg/money"
)

// Cart is a user's open basket. Placing an order consumes the cart.
type Cart struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartItem is one product line of a cart. Product is populated on read.
type CartItem struct {
	ID        string    `json:"_id"`
	CartID    string    `json:"cartId"`
	ProductID string    `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Problem reports why the item cannot be checked out, or nil.
func (i *CartItem) Problem() error {
	if i.Product == nil {
		return ErrProductUnavailable
	}
	return i.Product.Available(i.Count)
}

// CartTotals sums the list and promotional price of the populated items.
// Items whose product is missing are skipped.
func CartTotals(items []CartItem) money.Totals {
	lines := make([]money.Line, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		lines = append(lines, money.Line{
			Price:            it.Product.Price,
			PromotionalPrice: it.Product.PromotionalPrice,
			Count:            it.Count,
		})
	}
	return money.Sum(lines)
}
