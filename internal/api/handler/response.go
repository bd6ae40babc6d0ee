package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/listing"
)

// successResponse is the body of actions that return no data.
type successResponse struct {
	Success string `json:"success"`
}

// errorResponse documents the failure envelope rendered by the error handler.
type errorResponse struct {
	Error string `json:"error"`
}

type countResponse struct {
	Success string `json:"success"`
	Count   int64  `json:"count"`
}

// parseFilter reads the list query string on top of defaults.
func parseFilter(c echo.Context, defaults listing.Filter) listing.Filter {
	return listing.FromValues(c.QueryParams(), defaults)
}

// writeList renders one page as {success, filter, size, <key>}.
func writeList[T any](c echo.Context, key, msg string, res *ports.ListResult[T]) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": msg,
		"filter":  listing.NewMeta(res.Filter, res.Pagination),
		"size":    res.Pagination.Size,
		key:       res.Items,
	})
}

var (
	newestFirst = listing.Filter{SortBy: "createdAt", Order: listing.OrderDesc, Limit: listing.DefaultLimit, Page: 1}
	byName      = listing.Filter{SortBy: "name", Order: listing.OrderAsc, Limit: listing.DefaultLimit, Page: 1}
)
