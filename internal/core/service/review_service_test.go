package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/listing"
)

func newReview(status domain.OrderStatus) (*ReviewService, *stubProductRepo) {
	orders := newStubOrderRepo()
	orders.byID["o1"] = &domain.Order{
		ID:     "o1",
		UserID: "u1",
		Status: status,
		Items:  []domain.OrderItem{{ProductID: "p1", Count: 1}},
	}
	products := newStubProductRepo(product("p1", 100, 100, 1))
	return NewReviewService(&stubReviewRepo{}, orders, products, discardLogger), products
}

func TestReviewService_Create_UpdatesRating(t *testing.T) {
	svc, products := newReview(domain.StatusDelivered)

	r, err := svc.Create(context.Background(), "u1", ports.ReviewInput{OrderID: "o1", ProductID: "p1", Rating: 4, Content: " good "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Content != "good" {
		t.Errorf("content must be trimmed, got %q", r.Content)
	}

	p := products.byID["p1"]
	if p.Rating != 4 || p.NumberOfReviews != 1 {
		t.Errorf("rating=%v reviews=%d", p.Rating, p.NumberOfReviews)
	}
}

func TestReviewService_Create_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		status domain.OrderStatus
		userID string
		in     ports.ReviewInput
		want   error
	}{
		{"rating too high", domain.StatusDelivered, "u1", ports.ReviewInput{OrderID: "o1", ProductID: "p1", Rating: 6}, domain.ErrInvalidInput},
		{"rating zero", domain.StatusDelivered, "u1", ports.ReviewInput{OrderID: "o1", ProductID: "p1"}, domain.ErrInvalidInput},
		{"not delivered", domain.StatusShipped, "u1", ports.ReviewInput{OrderID: "o1", ProductID: "p1", Rating: 5}, domain.ErrNotReviewable},
		{"product not in order", domain.StatusDelivered, "u1", ports.ReviewInput{OrderID: "o1", ProductID: "p9", Rating: 5}, domain.ErrNotReviewable},
		{"foreign order", domain.StatusDelivered, "u2", ports.ReviewInput{OrderID: "o1", ProductID: "p1", Rating: 5}, domain.ErrOrderNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newReview(tt.status)
			_, err := svc.Create(context.Background(), tt.userID, tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReviewService_Create_Twice(t *testing.T) {
	svc, _ := newReview(domain.StatusDelivered)
	in := ports.ReviewInput{OrderID: "o1", ProductID: "p1", Rating: 5}

	if _, err := svc.Create(context.Background(), "u1", in); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.Create(context.Background(), "u1", in); !errors.Is(err, domain.ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestReviewService_List(t *testing.T) {
	svc, _ := newReview(domain.StatusDelivered)
	_, _ = svc.Create(context.Background(), "u1", ports.ReviewInput{OrderID: "o1", ProductID: "p1", Rating: 3})

	res, err := svc.List(context.Background(), listing.Filter{ProductID: "p1", Limit: 10, Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 1 || res.Pagination.Size != 1 {
		t.Errorf("unexpected result: %d items, size %d", len(res.Items), res.Pagination.Size)
	}
}
