package ports

import (
	"context"
	"time"

	"github.com/gooddeal/storefront/internal/core/domain"
)

type OrderEventKind string

const (
	OrderPlaced        OrderEventKind = "placed"
	OrderStatusChanged OrderEventKind = "status_changed"
)

// OrderEvent is emitted after an order is placed or changes status. Events
// for the same order are handled in the order they were published.
type OrderEvent struct {
	Kind    OrderEventKind
	OrderID string
	UserID  string
	From    domain.OrderStatus
	To      domain.OrderStatus
	At      time.Time
}

type OrderEventPublisher interface {
	Publish(e OrderEvent)
}

type OrderEventHandler interface {
	Handle(ctx context.Context, e OrderEvent) error
}
