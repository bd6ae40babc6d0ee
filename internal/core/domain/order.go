package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle code of an order, stored as a digit string.
type OrderStatus string

const (
	StatusPending    OrderStatus = "0"
	StatusProcessing OrderStatus = "1"
	StatusShipped    OrderStatus = "2"
	StatusDelivered  OrderStatus = "3"
	StatusCancelled  OrderStatus = "4"
)

// DefaultCancelWindow is how long after placing an order a user may still
// cancel it.
const DefaultCancelWindow = time.Hour

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

var statusLabels = map[OrderStatus]string{
	StatusPending:    "Not processed",
	StatusProcessing: "Processing",
	StatusShipped:    "Shipped",
	StatusDelivered:  "Delivered",
	StatusCancelled:  "Cancelled",
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return "Unknown"
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, s)
	}
	return st, nil
}

// OrderItem snapshots a product at the time the order was placed.
type OrderItem struct {
	ProductID        string          `json:"productId"`
	Name             string          `json:"name"`
	Image            string          `json:"image,omitempty"`
	Price            decimal.Decimal `json:"price"`
	PromotionalPrice decimal.Decimal `json:"promotionalPrice"`
	Count            int             `json:"count"`
}

type Order struct {
	ID                    string          `json:"_id"`
	UserID                string          `json:"userId"`
	CartID                string          `json:"cartId"`
	Status                OrderStatus     `json:"status"`
	Items                 []OrderItem     `json:"items,omitempty"`
	TotalPrice            decimal.Decimal `json:"totalPrice"`
	TotalPromotionalPrice decimal.Decimal `json:"totalPromotionalPrice"`
	Firstname             string          `json:"firstname"`
	Lastname              string          `json:"lastname"`
	Phone                 string          `json:"phone"`
	Address               string          `json:"address"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// CanUserCancel reports whether the buyer may still cancel: the order has not
// been picked up and was placed less than window ago.
func (o *Order) CanUserCancel(now time.Time, window time.Duration) bool {
	return o.Status == StatusPending && now.Sub(o.CreatedAt) < window
}

// Contains reports whether productID is one of the ordered items.
func (o *Order) Contains(productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
