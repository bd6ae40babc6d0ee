package ports

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/pkg/listing"
)

// ListResult is one page of a filtered collection.
type ListResult[T any] struct {
	Items      []T
	Filter     listing.Filter
	Pagination listing.Pagination
}

func NewListResult[T any](items []T, f listing.Filter, total int64) *ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{
		Items:      items,
		Filter:     f,
		Pagination: listing.Paginate(total, f.Limit, f.Page),
	}
}

// SignupInput carries a new account. Exactly one of Email and Phone is set.
type SignupInput struct {
	Firstname string
	Lastname  string
	Email     string
	Phone     string
	Password  string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Signin(ctx context.Context, email, phone, password string) (*domain.TokenPair, *domain.User, error)
	Signout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, code, password string) error
}

// Upload is one file received in a multipart request.
type Upload struct {
	Filename string
	Body     io.Reader
}

type CategoryInput struct {
	Name     string
	ParentID string
	Image    *Upload
}

type ProductInput struct {
	Name             string
	Description      string
	Quantity         int
	Price            decimal.Decimal
	PromotionalPrice decimal.Decimal
	CategoryID       string
	ProducerID       string
	Images           []Upload
}

type CatalogService interface {
	Category(ctx context.Context, id string) (*domain.Category, error)
	Categories(ctx context.Context, f listing.Filter, admin bool) (*ListResult[*domain.Category], error)
	CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	RestoreCategory(ctx context.Context, id string) error

	Producers(ctx context.Context, f listing.Filter) (*ListResult[*domain.Producer], error)
	CreateProducer(ctx context.Context, name string) (*domain.Producer, error)
	DeleteProducer(ctx context.Context, id string) error
	RestoreProducer(ctx context.Context, id string) error

	// Product returns an active product; inactive ones are reported as not found.
	Product(ctx context.Context, id string) (*domain.Product, error)
	Products(ctx context.Context, f listing.Filter, admin bool) (*ListResult[*domain.Product], error)
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	SetProductActive(ctx context.Context, id string, active bool) (*domain.Product, error)
}

type CartService interface {
	Carts(ctx context.Context, userID string, f listing.Filter) (*ListResult[*domain.Cart], error)
	Items(ctx context.Context, cartID, userID string) ([]domain.CartItem, error)
	Add(ctx context.Context, userID, productID string, count int) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, userID, itemID string, count int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	// Count is the number of lines in the user's open cart.
	Count(ctx context.Context, userID string) (int, error)
}

// CheckoutInput carries the delivery details for a new order.
type CheckoutInput struct {
	CartID    string
	UserID    string
	Firstname string
	Lastname  string
	Phone     string
	Address   string
}

type OrderService interface {
	Create(ctx context.Context, in CheckoutInput) (*domain.Order, error)
	// Get returns an order; an empty userID skips the ownership check (admin).
	Get(ctx context.Context, orderID, userID string) (*domain.Order, error)
	Items(ctx context.Context, orderID, userID string) ([]domain.OrderItem, error)
	// List returns orders of userID, or of every user when userID is empty.
	List(ctx context.Context, userID string, f listing.Filter) (*ListResult[*domain.Order], error)
	UserUpdateStatus(ctx context.Context, orderID, userID string, status domain.OrderStatus) (*domain.Order, error)
	AdminUpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	Count(ctx context.Context, userID, status string) (int64, error)
}

type ReviewInput struct {
	OrderID   string
	ProductID string
	Rating    int
	Content   string
}

type ReviewService interface {
	Create(ctx context.Context, userID string, in ReviewInput) (*domain.Review, error)
	List(ctx context.Context, f listing.Filter) (*ListResult[*domain.Review], error)
}
