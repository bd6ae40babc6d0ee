package domain

import "time"

// Category groups products. A category with a parent CategoryID is a
// sub-category. Deleted categories are hidden from the storefront but can be
// restored by an admin.
type Category struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"categoryId,omitempty"`
	Image      string    `json:"image,omitempty"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Producer struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
