package client

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gooddeal/storefront/pkg/money"
)

// Order statuses as the API encodes them.
const (
	StatusPending    = "0"
	StatusProcessing = "1"
	StatusShipped    = "2"
	StatusDelivered  = "3"
	StatusCancelled  = "4"
)

// DefaultCancelWindow mirrors the server's default window for user cancels.
const DefaultCancelWindow = time.Hour

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

type Cart struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CartItem struct {
	ID        string    `json:"_id"`
	CartID    string    `json:"cartId"`
	ProductID string    `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartContents is a cart's lines with their server-computed totals.
type CartContents struct {
	Items  []CartItem   `json:"items"`
	Totals money.Totals `json:"totals"`
}

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
	Status                string          `json:"status"`
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

// CanCancel reports whether the buyer may still cancel o at now.
func (o Order) CanCancel(now time.Time, window time.Duration) bool {
	return o.Status == StatusPending && now.Sub(o.CreatedAt) < window
}

type Review struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	OrderID   string    `json:"orderId"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type MenuItem struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

type SignupInput struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

type Checkout struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type ReviewInput struct {
	OrderID   string `json:"orderId"`
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Content   string `json:"content,omitempty"`
}

// CategoryInput is sent as multipart. Empty fields are omitted so an update
// only touches what is set.
type CategoryInput struct {
	Name     string
	ParentID string
	Image    *File
}

// ProductInput is sent as multipart with up to six images in slot order.
type ProductInput struct {
	Name             string
	Description      string
	Quantity         int
	Price            decimal.Decimal
	PromotionalPrice decimal.Decimal
	CategoryID       string
	ProducerID       string
	Images           []File
}
