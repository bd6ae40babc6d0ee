package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/listing"
)

const defaultCheckoutDedupTTL = 10 * time.Second

// OrderConfig tunes the order lifecycle.
type OrderConfig struct {
	// CancelWindow is how long a buyer may cancel a pending order.
	CancelWindow time.Duration
	// DedupTTL is how long a second checkout of the same cart is rejected.
	DedupTTL time.Duration
}

// OrderService places orders from carts and drives their status machine.
type OrderService struct {
	orders   ports.OrderRepository
	carts    ports.CartRepository
	products ports.ProductRepository
	dedup    ports.DedupChecker
	events   ports.OrderEventPublisher
	cfg      OrderConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewOrderService(
	orders ports.OrderRepository,
	carts ports.CartRepository,
	products ports.ProductRepository,
	dedup ports.DedupChecker,
	events ports.OrderEventPublisher,
	cfg OrderConfig,
	log zerolog.Logger,
) *OrderService {
	if cfg.CancelWindow <= 0 {
		cfg.CancelWindow = domain.DefaultCancelWindow
	}
	if cfg.DedupTTL <= 0 {
		cfg.DedupTTL = defaultCheckoutDedupTTL
	}
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		dedup:    dedup,
		events:   events,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Create turns the user's cart into a pending order. Stock is reserved for
// every line; if any line cannot be reserved nothing is kept.
func (s *OrderService) Create(ctx context.Context, in ports.CheckoutInput) (order *domain.Order, err error) {
	// 1. Reject a second checkout of the same cart while the first is in flight.
	key := "checkout:" + in.CartID
	first, dedupErr := s.dedup.Claim(ctx, key, s.cfg.DedupTTL)
	if dedupErr != nil {
		s.log.Warn().Err(dedupErr).Str("cart_id", in.CartID).Msg("dedup claim failed, processing anyway")
	} else if !first {
		return nil, domain.ErrDuplicateSubmit
	}
	defer func() {
		if err != nil && dedupErr == nil {
			if relErr := s.dedup.Release(ctx, key); relErr != nil {
				s.log.Warn().Err(relErr).Str("cart_id", in.CartID).Msg("failed to release dedup key")
			}
		}
	}()

	// 2. The cart must belong to the buyer and hold sellable items.
	if _, err := s.carts.FindByID(ctx, in.CartID, in.UserID); err != nil {
		return nil, err
	}
	items, err := loadCartItems(ctx, s.carts, s.products, in.CartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrCartEmpty
	}
	for i := range items {
		if problem := items[i].Problem(); problem != nil {
			return nil, fmt.Errorf("%w: %s", problem, itemName(items[i]))
		}
	}

	// 3. Reserve stock, undoing earlier reservations on failure.
	reserved := make([]domain.CartItem, 0, len(items))
	defer func() {
		if err != nil {
			s.restock(ctx, cartLines(reserved))
		}
	}()
	for _, it := range items {
		if err := s.products.AdjustStock(ctx, it.ProductID, -it.Count); err != nil {
			return nil, fmt.Errorf("reserve %s: %w", itemName(it), err)
		}
		reserved = append(reserved, it)
	}

	// 4. Persist the order with a snapshot of every line.
	now := s.now().UTC()
	totals := domain.CartTotals(items)
	order, err = s.orders.Create(ctx, &domain.Order{
		UserID:                in.UserID,
		CartID:                in.CartID,
		Status:                domain.StatusPending,
		Items:                 snapshot(items),
		TotalPrice:            totals.TotalPrice,
		TotalPromotionalPrice: totals.TotalPromotionalPrice,
		Firstname:             in.Firstname,
		Lastname:              in.Lastname,
		Phone:                 in.Phone,
		Address:               in.Address,
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// 5. The cart is consumed; failures here leave an orphan cart only.
	if delErr := s.carts.DeleteItems(ctx, in.CartID); delErr != nil {
		s.log.Warn().Err(delErr).Str("cart_id", in.CartID).Msg("failed to clear cart items")
	} else if delErr := s.carts.Delete(ctx, in.CartID); delErr != nil {
		s.log.Warn().Err(delErr).Str("cart_id", in.CartID).Msg("failed to delete cart")
	}

	s.events.Publish(ports.OrderEvent{
		Kind:    ports.OrderPlaced,
		OrderID: order.ID,
		UserID:  order.UserID,
		To:      order.Status,
		At:      now,
	})

	s.log.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Int("lines", len(order.Items)).
		Str("total", order.TotalPromotionalPrice.String()).
		Msg("order placed")

	return order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, orderID, userID)
}

func (s *OrderService) Items(ctx context.Context, orderID, userID string) ([]domain.OrderItem, error) {
	o, err := s.orders.FindByID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if o.Items == nil {
		return []domain.OrderItem{}, nil
	}
	return o.Items, nil
}

func (s *OrderService) List(ctx context.Context, userID string, f listing.Filter) (*ports.ListResult[*domain.Order], error) {
	if f.Status != "" {
		if _, err := domain.ParseOrderStatus(f.Status); err != nil {
			return nil, err
		}
	}
	items, total, err := s.orders.List(ctx, ports.ListQuery{Filter: f, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return ports.NewListResult(items, f, total), nil
}

// UserUpdateStatus lets a buyer cancel their own order while it is still
// pending and inside the cancel window. No other change is allowed.
func (s *OrderService) UserUpdateStatus(ctx context.Context, orderID, userID string, status domain.OrderStatus) (*domain.Order, error) {
	if status != domain.StatusCancelled {
		return nil, fmt.Errorf("%w: buyers may only cancel orders", domain.ErrForbidden)
	}
	o, err := s.orders.FindByID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if !o.CanUserCancel(s.now(), s.cfg.CancelWindow) {
		return nil, domain.ErrCancelWindowClosed
	}
	return s.transition(ctx, o, status)
}

// AdminUpdateStatus applies any transition the status machine allows.
func (s *OrderService) AdminUpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID, "")
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, o.Status, status)
	}
	return s.transition(ctx, o, status)
}

func (s *OrderService) Count(ctx context.Context, userID, status string) (int64, error) {
	if status != "" {
		if _, err := domain.ParseOrderStatus(status); err != nil {
			return 0, err
		}
	}
	n, err := s.orders.Count(ctx, userID, status)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (s *OrderService) transition(ctx context.Context, o *domain.Order, to domain.OrderStatus) (*domain.Order, error) {
	from := o.Status
	updated, err := s.orders.UpdateStatus(ctx, o.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if to == domain.StatusCancelled {
		s.restock(ctx, orderLines(o.Items))
	}

	s.events.Publish(ports.OrderEvent{
		Kind:    ports.OrderStatusChanged,
		OrderID: updated.ID,
		UserID:  updated.UserID,
		From:    from,
		To:      to,
		At:      s.now().UTC(),
	})

	s.log.Info().
		Str("order_id", updated.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("order status changed")

	return updated, nil
}

type stockLine struct {
	productID string
	count     int
}

// restock returns reserved units. Failures are logged; the order state has
// already been decided.
func (s *OrderService) restock(ctx context.Context, lines []stockLine) {
	for _, l := range lines {
		if err := s.products.AdjustStock(ctx, l.productID, l.count); err != nil {
			s.log.Error().Err(err).Str("product_id", l.productID).Int("count", l.count).Msg("failed to restore stock")
		}
	}
}

func cartLines(items []domain.CartItem) []stockLine {
	out := make([]stockLine, len(items))
	for i, it := range items {
		out[i] = stockLine{productID: it.ProductID, count: it.Count}
	}
	return out
}

func orderLines(items []domain.OrderItem) []stockLine {
	out := make([]stockLine, len(items))
	for i, it := range items {
		out[i] = stockLine{productID: it.ProductID, count: it.Count}
	}
	return out
}

func snapshot(items []domain.CartItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		oi := domain.OrderItem{
			ProductID:        it.ProductID,
			Name:             it.Product.Name,
			Price:            it.Product.Price,
			PromotionalPrice: it.Product.PromotionalPrice,
			Count:            it.Count,
		}
		if len(it.Product.ListImages) > 0 {
			oi.Image = it.Product.ListImages[0]
		}
		out = append(out, oi)
	}
	return out
}

func itemName(it domain.CartItem) string {
	if it.Product != nil {
		return it.Product.Name
	}
	return it.ProductID
}
