package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/api/middleware"
	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/listing"
)

// Each stub embeds its port so a test only implements the calls it expects;
// any other call panics.

type stubAuthService struct {
	ports.AuthService
	signupFn func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	signinFn func(ctx context.Context, email, phone, password string) (*domain.TokenPair, *domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Signin(ctx context.Context, email, phone, password string) (*domain.TokenPair, *domain.User, error) {
	return s.signinFn(ctx, email, phone, password)
}

type stubOrderService struct {
	ports.OrderService
	createFn     func(ctx context.Context, in ports.CheckoutInput) (*domain.Order, error)
	getFn        func(ctx context.Context, orderID, userID string) (*domain.Order, error)
	listFn       func(ctx context.Context, userID string, f listing.Filter) (*ports.ListResult[*domain.Order], error)
	userUpdateFn func(ctx context.Context, orderID, userID string, s domain.OrderStatus) (*domain.Order, error)
}

func (s *stubOrderService) Create(ctx context.Context, in ports.CheckoutInput) (*domain.Order, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrderService) Get(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return s.getFn(ctx, orderID, userID)
}

func (s *stubOrderService) List(ctx context.Context, userID string, f listing.Filter) (*ports.ListResult[*domain.Order], error) {
	return s.listFn(ctx, userID, f)
}

func (s *stubOrderService) UserUpdateStatus(ctx context.Context, orderID, userID string, st domain.OrderStatus) (*domain.Order, error) {
	return s.userUpdateFn(ctx, orderID, userID, st)
}

type stubCartService struct {
	ports.CartService
	itemsFn func(ctx context.Context, cartID, userID string) ([]domain.CartItem, error)
	addFn   func(ctx context.Context, userID, productID string, count int) (*domain.CartItem, error)
}

func (s *stubCartService) Items(ctx context.Context, cartID, userID string) ([]domain.CartItem, error) {
	return s.itemsFn(ctx, cartID, userID)
}

func (s *stubCartService) Add(ctx context.Context, userID, productID string, count int) (*domain.CartItem, error) {
	return s.addFn(ctx, userID, productID, count)
}

type stubCatalogService struct {
	ports.CatalogService
	createProductFn  func(ctx context.Context, in ports.ProductInput) (*domain.Product, error)
	createCategoryFn func(ctx context.Context, in ports.CategoryInput) (*domain.Category, error)
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	return s.createProductFn(ctx, in)
}

func (s *stubCatalogService) CreateCategory(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	return s.createCategoryFn(ctx, in)
}

type stubChecker struct {
	name string
	err  error
}

func (c stubChecker) Name() string {
	return c.name
}

func (c stubChecker) Check(_ context.Context) error {
	return c.err
}

// newEcho returns an Echo instance with the request validator installed.
func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	e.Validator = v
	return e
}

// jsonContext builds a request context with path params and, when userID is
// set, the claims the Auth middleware would inject.
func jsonContext(e *echo.Echo, method, body string, params map[string]string, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if userID != "" {
		c.Set(middleware.KeyUserID, userID)
		c.Set(middleware.KeyRole, role)
	}
	return c, rec
}
