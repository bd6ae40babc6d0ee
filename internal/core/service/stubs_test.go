package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Users and tokens
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.seq++
	clone := *u
	clone.ID = fmt.Sprintf("u%d", r.seq)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, email, phone string) (*domain.User, error) {
	for _, u := range r.users {
		if (email != "" && u.Email == email) || (phone != "" && u.Phone == phone) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type stubTokenStore struct {
	mu      sync.Mutex
	refresh map[string]string
	reset   map[string]string
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{refresh: map[string]string{}, reset: map[string]string{}}
}

func (s *stubTokenStore) SaveRefresh(_ context.Context, jti, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[jti] = userID
	return nil
}

func (s *stubTokenStore) ConsumeRefresh(_ context.Context, jti string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.refresh[jti]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(s.refresh, jti)
	return owner, nil
}

func (s *stubTokenStore) RevokeRefresh(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, jti)
	return nil
}

func (s *stubTokenStore) SaveResetCode(_ context.Context, code, userID string, _ time.Duration) error {
	s.reset[code] = userID
	return nil
}

func (s *stubTokenStore) ConsumeResetCode(_ context.Context, code string) (string, error) {
	owner, ok := s.reset[code]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(s.reset, code)
	return owner, nil
}

type sentMail struct {
	to, subject, body string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// ---------------------------------------------------------------------------
// Dedup, images and events
// ---------------------------------------------------------------------------

type stubDedup struct {
	keys     map[string]bool
	released []string
	err      error
}

func newStubDedup() *stubDedup { return &stubDedup{keys: map[string]bool{}} }

func (d *stubDedup) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.keys[key] {
		return false, nil
	}
	d.keys[key] = true
	return true, nil
}

func (d *stubDedup) Release(_ context.Context, key string) error {
	delete(d.keys, key)
	d.released = append(d.released, key)
	return nil
}

type stubImages struct {
	saved []string
	err   error
}

func (s *stubImages) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, r)
	s.saved = append(s.saved, name)
	return "/uploads/" + name, nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []ports.OrderEvent
}

func (p *stubPublisher) Publish(e ports.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

type stubCategoryRepo struct {
	byID map[string]*domain.Category
	seq  int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: map[string]*domain.Category{}}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("c%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string, includeDeleted bool) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok || (c.IsDeleted && !includeDeleted) {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) SetDeleted(_ context.Context, id string, deleted bool) error {
	r.byID[id].IsDeleted = deleted
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context, q ports.ListQuery) ([]*domain.Category, int64, error) {
	var out []*domain.Category
	for _, c := range r.byID {
		if c.IsDeleted && !q.IncludeHidden {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(q.Search)) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

type stubProducerRepo struct {
	byID map[string]*domain.Producer
}

func newStubProducerRepo() *stubProducerRepo {
	return &stubProducerRepo{byID: map[string]*domain.Producer{}}
}

func (r *stubProducerRepo) Create(_ context.Context, p *domain.Producer) (*domain.Producer, error) {
	clone := *p
	clone.ID = fmt.Sprintf("pr%d", len(r.byID)+1)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProducerRepo) FindByID(_ context.Context, id string, includeDeleted bool) (*domain.Producer, error) {
	p, ok := r.byID[id]
	if !ok || (p.IsDeleted && !includeDeleted) {
		return nil, domain.ErrProducerNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProducerRepo) SetDeleted(_ context.Context, id string, deleted bool) error {
	r.byID[id].IsDeleted = deleted
	return nil
}

func (r *stubProducerRepo) List(_ context.Context, _ ports.ListQuery) ([]*domain.Producer, int64, error) {
	var out []*domain.Producer
	for _, p := range r.byID {
		clone := *p
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

type stubProductRepo struct {
	byID      map[string]*domain.Product
	failStock map[string]bool // AdjustStock on these ids fails
	adjusts   []string        // "<id>:<delta>" in call order
}

func newStubProductRepo(products ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{byID: map[string]*domain.Product{}, failStock: map[string]bool{}}
	for _, p := range products {
		clone := *p
		r.byID[p.ID] = &clone
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	clone := *p
	clone.ID = fmt.Sprintf("p%d", len(r.byID)+1)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			clone := *p
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubProductRepo) List(_ context.Context, q ports.ListQuery) ([]*domain.Product, int64, error) {
	var out []*domain.Product
	for _, p := range r.byID {
		if !p.IsActive && !q.IncludeHidden {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) SetActive(_ context.Context, id string, active bool) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.IsActive = active
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id string, delta int) error {
	r.adjusts = append(r.adjusts, fmt.Sprintf("%s:%d", id, delta))
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if r.failStock[id] || p.Quantity+delta < 0 {
		return domain.ErrOutOfStock
	}
	p.Quantity += delta
	p.Sold -= delta
	return nil
}

func (r *stubProductRepo) SetRating(_ context.Context, id string, rating float64, reviews int) error {
	p := r.byID[id]
	p.Rating = rating
	p.NumberOfReviews = reviews
	return nil
}

// ---------------------------------------------------------------------------
// Carts
// ---------------------------------------------------------------------------

type stubCartRepo struct {
	carts map[string]*domain.Cart
	items map[string]*domain.CartItem
	seq   int
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: map[string]*domain.Cart{}, items: map[string]*domain.CartItem{}}
}

func (r *stubCartRepo) next(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s%d", prefix, r.seq)
}

func (r *stubCartRepo) Create(_ context.Context, userID string) (*domain.Cart, error) {
	c := &domain.Cart{ID: r.next("cart"), UserID: userID}
	r.carts[c.ID] = c
	clone := *c
	return &clone, nil
}

func (r *stubCartRepo) FindOpenByUser(_ context.Context, userID string) (*domain.Cart, error) {
	for _, c := range r.carts {
		if c.UserID == userID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCartNotFound
}

func (r *stubCartRepo) FindByID(_ context.Context, id, userID string) (*domain.Cart, error) {
	c, ok := r.carts[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrCartNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCartRepo) List(_ context.Context, q ports.ListQuery) ([]*domain.Cart, int64, error) {
	var out []*domain.Cart
	for _, c := range r.carts {
		if c.UserID == q.UserID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCartRepo) Delete(_ context.Context, id string) error {
	delete(r.carts, id)
	return nil
}

func (r *stubCartRepo) AddItem(_ context.Context, cartID, productID string, count int) (*domain.CartItem, error) {
	for _, it := range r.items {
		if it.CartID == cartID && it.ProductID == productID {
			it.Count += count
			clone := *it
			return &clone, nil
		}
	}
	it := &domain.CartItem{ID: r.next("item"), CartID: cartID, ProductID: productID, Count: count}
	r.items[it.ID] = it
	clone := *it
	return &clone, nil
}

func (r *stubCartRepo) FindItem(_ context.Context, itemID string) (*domain.CartItem, error) {
	it, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrCartItemNotFound
	}
	clone := *it
	return &clone, nil
}

func (r *stubCartRepo) UpdateItemCount(_ context.Context, itemID string, count int) (*domain.CartItem, error) {
	it, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrCartItemNotFound
	}
	it.Count = count
	clone := *it
	return &clone, nil
}

func (r *stubCartRepo) RemoveItem(_ context.Context, itemID string) error {
	if _, ok := r.items[itemID]; !ok {
		return domain.ErrCartItemNotFound
	}
	delete(r.items, itemID)
	return nil
}

func (r *stubCartRepo) Items(_ context.Context, cartID string) ([]domain.CartItem, error) {
	var out []domain.CartItem
	for _, it := range r.items {
		if it.CartID == cartID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCartRepo) DeleteItems(_ context.Context, cartID string) error {
	for id, it := range r.items {
		if it.CartID == cartID {
			delete(r.items, id)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Orders and reviews
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	byID      map[string]*domain.Order
	createErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: map[string]*domain.Order{}}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *o
	clone.ID = fmt.Sprintf("o%d", len(r.byID)+1)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id, userID string) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok || (userID != "" && o.UserID != userID) {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) List(_ context.Context, q ports.ListQuery) ([]*domain.Order, int64, error) {
	var out []*domain.Order
	for _, o := range r.byID {
		if q.UserID != "" && o.UserID != q.UserID {
			continue
		}
		if q.Status != "" && string(o.Status) != q.Status {
			continue
		}
		clone := *o
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	o.Status = to
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) Count(_ context.Context, userID, status string) (int64, error) {
	var n int64
	for _, o := range r.byID {
		if (userID == "" || o.UserID == userID) && (status == "" || string(o.Status) == status) {
			n++
		}
	}
	return n, nil
}

type stubReviewRepo struct {
	reviews []*domain.Review
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	for _, existing := range r.reviews {
		if existing.OrderID == rv.OrderID && existing.ProductID == rv.ProductID {
			return nil, domain.ErrAlreadyReviewed
		}
	}
	clone := *rv
	clone.ID = fmt.Sprintf("r%d", len(r.reviews)+1)
	r.reviews = append(r.reviews, &clone)
	out := clone
	return &out, nil
}

func (r *stubReviewRepo) List(_ context.Context, q ports.ListQuery) ([]*domain.Review, int64, error) {
	var out []*domain.Review
	for _, rv := range r.reviews {
		if q.ProductID == "" || rv.ProductID == q.ProductID {
			clone := *rv
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubReviewRepo) Stats(_ context.Context, productID string) (float64, int, error) {
	var sum, n int
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}
