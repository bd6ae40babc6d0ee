package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/form"
)

// maxImageSize caps a single uploaded image.
const maxImageSize = 5 << 20

// uploads keeps the opened multipart files of one request until the handler
// is done with them.
type uploads struct {
	files []multipart.File
}

func (u *uploads) Close() {
	for _, f := range u.files {
		_ = f.Close()
	}
}

// open returns the file posted as field, or nil when the field is absent.
func (u *uploads) open(c echo.Context, field string) (*ports.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	if fh.Size > maxImageSize {
		return nil, fmt.Errorf("%w: %s is larger than %d MB", domain.ErrInvalidInput, field, maxImageSize>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	u.files = append(u.files, f)
	return &ports.Upload{Filename: fh.Filename, Body: f}, nil
}

// openProductImages reads image0..image5 in slot order, skipping empty slots.
func (u *uploads) openProductImages(c echo.Context) ([]ports.Upload, error) {
	var out []ports.Upload
	for i := 0; i < form.MaxProductImages; i++ {
		up, err := u.open(c, form.ImageField(i))
		if err != nil {
			return nil, err
		}
		if up != nil {
			out = append(out, *up)
		}
	}
	return out, nil
}
