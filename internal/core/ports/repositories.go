package ports

import (
	"context"
	"io"
	"time"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/pkg/listing"
)

// ListQuery carries the list filter plus the scoping the service decided on.
type ListQuery struct {
	listing.Filter
	// UserID scopes orders and carts to one owner; empty means every user.
	UserID string
	// IncludeHidden also returns soft-deleted categories and producers and
	// inactive products (admin views).
	IncludeHidden bool
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByLogin looks a user up by email or phone; the empty one is ignored.
	FindByLogin(ctx context.Context, email, phone string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// TokenStore keeps refresh tokens and password reset codes with an expiry.
type TokenStore interface {
	SaveRefresh(ctx context.Context, jti, userID string, ttl time.Duration) error
	// ConsumeRefresh atomically deletes a refresh token id and returns the
	// user it was issued to, or domain.ErrInvalidToken when it was already
	// used, revoked or has expired.
	ConsumeRefresh(ctx context.Context, jti string) (string, error)
	RevokeRefresh(ctx context.Context, jti string) error
	SaveResetCode(ctx context.Context, code, userID string, ttl time.Duration) error
	// ConsumeResetCode returns the owner of code and deletes it.
	ConsumeResetCode(ctx context.Context, code string) (string, error)
}

// DedupChecker guards against the same action being submitted twice in a
// short window.
type DedupChecker interface {
	// Claim returns true the first time key is seen within ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ImageStore saves an uploaded image and returns the path or URL to store on
// the record.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	SetDeleted(ctx context.Context, id string, deleted bool) error
	List(ctx context.Context, q ListQuery) ([]*domain.Category, int64, error)
}

type ProducerRepository interface {
	Create(ctx context.Context, p *domain.Producer) (*domain.Producer, error)
	FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.Producer, error)
	SetDeleted(ctx context.Context, id string, deleted bool) error
	List(ctx context.Context, q ListQuery) ([]*domain.Producer, int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error)
	List(ctx context.Context, q ListQuery) ([]*domain.Product, int64, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Product, error)
	// AdjustStock adds delta to quantity and subtracts it from sold. A
	// negative delta only applies while enough quantity is left; otherwise it
	// fails with domain.ErrOutOfStock.
	AdjustStock(ctx context.Context, id string, delta int) error
	SetRating(ctx context.Context, id string, rating float64, reviews int) error
}

type CartRepository interface {
	Create(ctx context.Context, userID string) (*domain.Cart, error)
	// FindOpenByUser returns the user's cart or domain.ErrCartNotFound.
	FindOpenByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// FindByID returns the cart when it belongs to userID.
	FindByID(ctx context.Context, id, userID string) (*domain.Cart, error)
	List(ctx context.Context, q ListQuery) ([]*domain.Cart, int64, error)
	Delete(ctx context.Context, id string) error

	// AddItem adds count units of a product, merging with an existing line.
	AddItem(ctx context.Context, cartID, productID string, count int) (*domain.CartItem, error)
	FindItem(ctx context.Context, itemID string) (*domain.CartItem, error)
	UpdateItemCount(ctx context.Context, itemID string, count int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, itemID string) error
	Items(ctx context.Context, cartID string) ([]domain.CartItem, error)
	DeleteItems(ctx context.Context, cartID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// FindByID returns the order; a non-empty userID also requires ownership.
	FindByID(ctx context.Context, id, userID string) (*domain.Order, error)
	List(ctx context.Context, q ListQuery) ([]*domain.Order, int64, error)
	// UpdateStatus moves the order from one status to another. It fails with
	// domain.ErrInvalidTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
	Count(ctx context.Context, userID, status string) (int64, error)
}

type ReviewRepository interface {
	// Create fails with domain.ErrAlreadyReviewed for a second review of the
	// same product in the same order.
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	List(ctx context.Context, q ListQuery) ([]*domain.Review, int64, error)
	// Stats returns the average rating and review count of a product.
	Stats(ctx context.Context, productID string) (float64, int, error)
}
