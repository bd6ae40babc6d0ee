package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const MaxProductImages = 6

type Product struct {
	ID               string          `json:"_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	PromotionalPrice decimal.Decimal `json:"promotionalPrice"`
	Quantity         int             `json:"quantity"`
	Sold             int             `json:"sold"`
	ListImages       []string        `json:"listImages"`
	CategoryID       string          `json:"categoryId"`
	ProducerID       string          `json:"producerId"`
	IsActive         bool            `json:"isActive"`
	Rating           float64         `json:"rating"`
	NumberOfReviews  int             `json:"numberOfReviews"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Validate checks the invariants every stored product must hold.
func (p *Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case p.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	case p.Price.IsNegative() || p.PromotionalPrice.IsNegative():
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	case p.PromotionalPrice.GreaterThan(p.Price):
		return fmt.Errorf("%w: promotional price must not exceed price", ErrInvalidInput)
	case len(p.ListImages) == 0:
		return fmt.Errorf("%w: at least one image is required", ErrInvalidInput)
	case len(p.ListImages) > MaxProductImages:
		return fmt.Errorf("%w: at most %d images", ErrInvalidInput, MaxProductImages)
	case p.CategoryID == "" || p.ProducerID == "":
		return fmt.Errorf("%w: category and producer are required", ErrInvalidInput)
	}
	return nil
}

// Available reports whether count units can be sold right now.
func (p *Product) Available(count int) error {
	if !p.IsActive {
		return ErrProductUnavailable
	}
	if p.Quantity <= 0 || p.Quantity < count {
		return ErrOutOfStock
	}
	return nil
}
