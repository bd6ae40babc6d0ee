package listing

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned to a fetch whose result arrived after a newer
// fetch had already been issued. Its result is discarded.
var ErrSuperseded = errors.New("listing: superseded by a newer request")

// Page is one fetched page of T.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// FetchFunc loads the page described by f.
type FetchFunc[T any] func(ctx context.Context, f Filter) (Page[T], error)

// List keeps a filter and the last page loaded for it. Every filter change
// issues exactly one fetch. Changing the search term, status, category or
// page size moves back to page 1; sorting and paging keep the rest intact.
//
// When fetches overlap, the last one issued wins: the earlier one's context
// is cancelled and its result is dropped.
type List[T any] struct {
	fetch FetchFunc[T]

	mu         sync.Mutex
	filter     Filter
	seq        uint64
	cancel     context.CancelFunc
	items      []T
	pagination Pagination
	err        error
	loading    bool
}

func NewList[T any](initial Filter, fetch FetchFunc[T]) *List[T] {
	initial.Normalize()
	return &List[T]{filter: initial, fetch: fetch}
}

// Load fetches the page for the current filter.
func (l *List[T]) Load(ctx context.Context) (Page[T], error) {
	return l.update(ctx, func(*Filter) {})
}

// Refresh refetches after a row action (delete, restore, cancel, update).
func (l *List[T]) Refresh(ctx context.Context) (Page[T], error) {
	return l.Load(ctx)
}

func (l *List[T]) SetSearch(ctx context.Context, search string) (Page[T], error) {
	return l.update(ctx, func(f *Filter) {
		f.Search = search
		f.Page = 1
	})
}

func (l *List[T]) SetStatus(ctx context.Context, status string) (Page[T], error) {
	return l.update(ctx, func(f *Filter) {
		f.Status = status
		f.Page = 1
	})
}

func (l *List[T]) SetCategory(ctx context.Context, categoryID string) (Page[T], error) {
	return l.update(ctx, func(f *Filter) {
		f.CategoryID = categoryID
		f.Page = 1
	})
}

func (l *List[T]) SetLimit(ctx context.Context, limit int) (Page[T], error) {
	return l.update(ctx, func(f *Filter) {
		f.Limit = limit
		f.Page = 1
	})
}

func (l *List[T]) SetSort(ctx context.Context, sortBy, order string) (Page[T], error) {
	return l.update(ctx, func(f *Filter) {
		f.SortBy = sortBy
		f.Order = order
	})
}

func (l *List[T]) SetPage(ctx context.Context, page int) (Page[T], error) {
	return l.update(ctx, func(f *Filter) {
		f.Page = page
	})
}

func (l *List[T]) update(ctx context.Context, mutate func(*Filter)) (Page[T], error) {
	l.mu.Lock()
	mutate(&l.filter)
	l.filter.Normalize()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.loading = true
	f := l.filter
	l.mu.Unlock()

	page, err := l.fetch(fetchCtx, f)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		cancel()
		return Page[T]{}, ErrSuperseded
	}
	l.cancel = nil
	cancel()
	l.loading = false
	l.err = err
	if err != nil {
		return Page[T]{}, err
	}
	l.items = page.Items
	l.pagination = page.Pagination
	return page, nil
}

func (l *List[T]) Filter() Filter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T]) Pagination() Pagination {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pagination
}

// Err is the error of the most recent completed fetch, if any.
func (l *List[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *List[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}
