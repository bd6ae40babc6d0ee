package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/listing"
)

// CartService manages a user's open cart. A user has at most one cart; it is
// created on the first add and removed once its last item is removed or an
// order is placed from it.
type CartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	log      zerolog.Logger
}

func NewCartService(carts ports.CartRepository, products ports.ProductRepository, log zerolog.Logger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

func (s *CartService) Carts(ctx context.Context, userID string, f listing.Filter) (*ports.ListResult[*domain.Cart], error) {
	items, total, err := s.carts.List(ctx, ports.ListQuery{Filter: f, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	return ports.NewListResult(items, f, total), nil
}

// Items returns the cart lines with their products populated.
func (s *CartService) Items(ctx context.Context, cartID, userID string) ([]domain.CartItem, error) {
	if _, err := s.carts.FindByID(ctx, cartID, userID); err != nil {
		return nil, err
	}
	return loadCartItems(ctx, s.carts, s.products, cartID)
}

func (s *CartService) Add(ctx context.Context, userID, productID string, count int) (*domain.CartItem, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1", domain.ErrInvalidInput)
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrProductUnavailable
	}

	cart, err := s.carts.FindOpenByUser(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		cart, err = s.carts.Create(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	item, err := s.carts.AddItem(ctx, cart.ID, productID, count)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	item.Product = p
	return item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, count int) (*domain.CartItem, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1", domain.ErrInvalidInput)
	}
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}

	item, err := s.carts.UpdateItemCount(ctx, itemID, count)
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	if p, err := s.products.FindByID(ctx, item.ProductID); err == nil {
		item.Product = p
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.carts.RemoveItem(ctx, itemID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	left, err := s.carts.Items(ctx, item.CartID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if len(left) == 0 {
		if err := s.carts.Delete(ctx, item.CartID); err != nil {
			s.log.Warn().Err(err).Str("cart_id", item.CartID).Msg("failed to delete empty cart")
		}
	}
	return nil
}

func (s *CartService) Count(ctx context.Context, userID string) (int, error) {
	cart, err := s.carts.FindOpenByUser(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	items, err := s.carts.Items(ctx, cart.ID)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return len(items), nil
}

// ownedItem loads a cart item and checks that its cart belongs to userID.
// Items in someone else's cart are reported as not found.
func (s *CartService) ownedItem(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	item, err := s.carts.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.carts.FindByID(ctx, item.CartID, userID); err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func loadCartItems(ctx context.Context, carts ports.CartRepository, products ports.ProductRepository, cartID string) ([]domain.CartItem, error) {
	items, err := carts.Items(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	byID, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	for i := range items {
		items[i].Product = byID[items[i].ProductID]
	}
	return items, nil
}
