package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/listing"
)

type ReviewService struct {
	reviews  ports.ReviewRepository
	orders   ports.OrderRepository
	products ports.ProductRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewReviewService(reviews ports.ReviewRepository, orders ports.OrderRepository, products ports.ProductRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, orders: orders, products: products, log: log, now: time.Now}
}

// Create records a review of a product the user received in a delivered
// order and refreshes the product's average rating.
func (s *ReviewService) Create(ctx context.Context, userID string, in ports.ReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}

	o, err := s.orders.FindByID(ctx, in.OrderID, userID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.StatusDelivered || !o.Contains(in.ProductID) {
		return nil, domain.ErrNotReviewable
	}

	r, err := s.reviews.Create(ctx, &domain.Review{
		UserID:    userID,
		ProductID: in.ProductID,
		OrderID:   in.OrderID,
		Rating:    in.Rating,
		Content:   strings.TrimSpace(in.Content),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	avg, n, err := s.reviews.Stats(ctx, in.ProductID)
	if err != nil {
		s.log.Warn().Err(err).Str("product_id", in.ProductID).Msg("failed to compute rating")
		return r, nil
	}
	if err := s.products.SetRating(ctx, in.ProductID, avg, n); err != nil {
		s.log.Warn().Err(err).Str("product_id", in.ProductID).Msg("failed to store rating")
	}
	return r, nil
}

func (s *ReviewService) List(ctx context.Context, f listing.Filter) (*ports.ListResult[*domain.Review], error) {
	items, total, err := s.reviews.List(ctx, ports.ListQuery{Filter: f})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return ports.NewListResult(items, f, total), nil
}
