// Package listing holds the filter and pagination model shared by every
// paginated collection endpoint, and a client-side List that refetches when
// its filter changes.
package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit far inside int64.
	MaxPage = 1_000_000

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Filter is the query a list view sends. Empty optional fields are omitted
// from the query string.
type Filter struct {
	Search     string `json:"search"`
	Status     string `json:"status,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	Rating     string `json:"rating,omitempty"`
	MinPrice   string `json:"minPrice,omitempty"`
	MaxPrice   string `json:"maxPrice,omitempty"`
	ProductID  string `json:"productId,omitempty"`
	SortBy     string `json:"sortBy"`
	Order      string `json:"order"`
	Limit      int    `json:"limit"`
	Page       int    `json:"page"`
}

// Values renders the filter as the query string the API expects.
func (f Filter) Values() url.Values {
	v := url.Values{}
	v.Set("search", f.Search)
	v.Set("status", f.Status)
	v.Set("sortBy", f.SortBy)
	v.Set("order", f.Order)
	v.Set("limit", strconv.Itoa(f.Limit))
	v.Set("page", strconv.Itoa(f.Page))

	optional := map[string]string{
		"categoryId": f.CategoryID,
		"rating":     f.Rating,
		"minPrice":   f.MinPrice,
		"maxPrice":   f.MaxPrice,
		"productId":  f.ProductID,
	}
	for k, val := range optional {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// FromValues parses a query string, falling back to defaults for anything
// missing and clamping limit and page into range.
func FromValues(q url.Values, defaults Filter) Filter {
	f := defaults
	if q.Has("search") {
		f.Search = strings.TrimSpace(q.Get("search"))
	}
	if s := q.Get("status"); s != "" {
		f.Status = s
	}
	if s := q.Get("categoryId"); s != "" {
		f.CategoryID = s
	}
	if s := q.Get("rating"); s != "" {
		f.Rating = s
	}
	if s := q.Get("minPrice"); s != "" {
		f.MinPrice = s
	}
	if s := q.Get("maxPrice"); s != "" {
		f.MaxPrice = s
	}
	if s := q.Get("productId"); s != "" {
		f.ProductID = s
	}
	if s := q.Get("sortBy"); s != "" {
		f.SortBy = s
	}
	if s := strings.ToLower(q.Get("order")); s == OrderAsc || s == OrderDesc {
		f.Order = s
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = n
	}

	f.Normalize()
	return f
}

// Normalize clamps limit to [1, MaxLimit] and page to [1, MaxPage].
func (f *Filter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Order != OrderAsc && f.Order != OrderDesc {
		f.Order = OrderDesc
	}
}

// Skip is the number of records before the current page.
func (f Filter) Skip() int64 {
	return int64(f.Page-1) * int64(f.Limit)
}

// Pagination is computed by the server from the total match count.
type Pagination struct {
	Size        int64 `json:"size"`
	PageCurrent int   `json:"pageCurrent"`
	PageCount   int   `json:"pageCount"`
}

func Paginate(size int64, limit, page int) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	return Pagination{
		Size:        size,
		PageCurrent: page,
		PageCount:   int(math.Ceil(float64(size) / float64(limit))),
	}
}

// Meta is the "filter" object echoed back in list responses.
type Meta struct {
	Filter
	PageCurrent int `json:"pageCurrent"`
	PageCount   int `json:"pageCount"`
}

func NewMeta(f Filter, p Pagination) Meta {
	return Meta{Filter: f, PageCurrent: p.PageCurrent, PageCount: p.PageCount}
}

// Pagination recovers the pagination fields from a response's filter and size.
func (m Meta) Pagination(size int64) Pagination {
	return Pagination{Size: size, PageCurrent: m.PageCurrent, PageCount: m.PageCount}
}
