package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email or phone is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidInput       = errors.New("invalid input")

	ErrCategoryNotFound = errors.New("category not found")
	ErrProducerNotFound = errors.New("producer not found")
	ErrProductNotFound  = errors.New("product not found")

	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is empty")

	// ErrProductUnavailable is returned when a product in a cart has been
	// deactivated or deleted.
	ErrProductUnavailable = errors.New("product is not available")
	ErrOutOfStock         = errors.New("not enough products in stock")

	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCancelWindowClosed = errors.New("order can no longer be cancelled")
	ErrDuplicateSubmit    = errors.New("order for this cart is already being placed")

	ErrAlreadyReviewed = errors.New("product already reviewed for this order")
	ErrNotReviewable   = errors.New("only delivered products can be reviewed")
)
