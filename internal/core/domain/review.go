package domain

import "time"

// Review is a buyer's rating of a product from a delivered order. Content may
// be empty.
type Review struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	OrderID   string    `json:"orderId"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
