// Package notify turns order events into buyer mail.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/money"
)

// OrderNotifier mails the buyer when an order is placed or changes status.
// Buyers who signed up with a phone number only are skipped.
type OrderNotifier struct {
	orders ports.OrderRepository
	users  ports.UserRepository
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewOrderNotifier(orders ports.OrderRepository, users ports.UserRepository, mailer ports.Mailer, log zerolog.Logger) *OrderNotifier {
	return &OrderNotifier{orders: orders, users: users, mailer: mailer, log: log}
}

func (n *OrderNotifier) Handle(ctx context.Context, e ports.OrderEvent) error {
	user, err := n.users.FindByID(ctx, e.UserID)
	if err != nil {
		return fmt.Errorf("notify order %s: %w", e.OrderID, err)
	}
	if user.Email == "" {
		n.log.Debug().Str("order_id", e.OrderID).Msg("buyer has no email, notification skipped")
		return nil
	}

	order, err := n.orders.FindByID(ctx, e.OrderID, "")
	if err != nil {
		return fmt.Errorf("notify order %s: %w", e.OrderID, err)
	}

	subject, body := compose(e, user, order)
	return n.mailer.Send(ctx, user.Email, subject, body)
}

func compose(e ports.OrderEvent, user *domain.User, o *domain.Order) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(user.Firstname))

	switch e.Kind {
	case ports.OrderPlaced:
		fmt.Fprintf(&b, "<p>Thanks for your order <b>%s</b>.</p><ul>", o.ID)
		for _, it := range o.Items {
			fmt.Fprintf(&b, "<li>%s x %d: %s</li>",
				html.EscapeString(it.Name), it.Count, money.Label(it.PromotionalPrice))
		}
		fmt.Fprintf(&b, "</ul><p>Total: <b>%s</b></p>", money.Label(o.TotalPromotionalPrice))
		fmt.Fprintf(&b, "<p>Delivering to %s, %s.</p>", html.EscapeString(o.Address), html.EscapeString(o.Phone))
		return "Order " + o.ID + " received", b.String()
	default:
		fmt.Fprintf(&b, "<p>Your order <b>%s</b> is now <b>%s</b>.</p>", o.ID, e.To.Label())
		return "Order " + o.ID + ": " + e.To.Label(), b.String()
	}
}
