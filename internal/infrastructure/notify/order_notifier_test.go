package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubOrders struct {
	ports.OrderRepository
	order *domain.Order
}

func (s *stubOrders) FindByID(_ context.Context, id, _ string) (*domain.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrOrderNotFound
	}
	return s.order, nil
}

type stubUsers struct {
	ports.UserRepository
	user *domain.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	return s.user, nil
}

type mail struct{ to, subject, body string }

type stubMailer struct{ sent []mail }

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, mail{to, subject, body})
	return nil
}

func fixture(email string) (*OrderNotifier, *stubMailer) {
	order := &domain.Order{
		ID:     "o1",
		UserID: "u1",
		Status: domain.StatusPending,
		Items: []domain.OrderItem{
			{Name: "Phone <X>", Count: 2, PromotionalPrice: decimal.NewFromInt(900000)},
		},
		TotalPromotionalPrice: decimal.NewFromInt(1800000),
		Address:               "12 Le Loi",
		Phone:                 "0912345678",
	}
	user := &domain.User{ID: "u1", Firstname: "An", Email: email}
	m := &stubMailer{}
	return NewOrderNotifier(&stubOrders{order: order}, &stubUsers{user: user}, m, zerolog.Nop()), m
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestOrderNotifier_Placed(t *testing.T) {
	n, m := fixture("an@example.com")

	if err := n.Handle(context.Background(), ports.OrderEvent{Kind: ports.OrderPlaced, OrderID: "o1", UserID: "u1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(m.sent))
	}
	body := m.sent[0].body
	if !strings.Contains(body, "1.800.000 VND") {
		t.Errorf("total missing from body: %s", body)
	}
	if !strings.Contains(body, "Phone &lt;X&gt;") {
		t.Errorf("item name must be escaped: %s", body)
	}
}

func TestOrderNotifier_StatusChanged(t *testing.T) {
	n, m := fixture("an@example.com")

	err := n.Handle(context.Background(), ports.OrderEvent{
		Kind: ports.OrderStatusChanged, OrderID: "o1", UserID: "u1",
		From: domain.StatusPending, To: domain.StatusCancelled,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.sent[0].subject != "Order o1: Cancelled" {
		t.Errorf("unexpected subject %q", m.sent[0].subject)
	}
}

func TestOrderNotifier_NoEmailSkips(t *testing.T) {
	n, m := fixture("")

	if err := n.Handle(context.Background(), ports.OrderEvent{Kind: ports.OrderPlaced, OrderID: "o1", UserID: "u1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.sent) != 0 {
		t.Error("no mail expected")
	}
}

func TestOrderNotifier_UnknownOrder(t *testing.T) {
	n, _ := fixture("an@example.com")

	err := n.Handle(context.Background(), ports.OrderEvent{Kind: ports.OrderPlaced, OrderID: "o9", UserID: "u1"})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
