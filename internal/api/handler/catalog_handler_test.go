package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

// multipartContext builds a multipart request with the given fields and one
// small file per entry of files.
func multipartContext(t *testing.T, e *echo.Echo, fields map[string]string, files map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for field, name := range files {
		fw, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		_, _ = fw.Write([]byte("img:" + name))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func productFields() map[string]string {
	return map[string]string{
		"name":             "Phone X",
		"description":      "A phone",
		"quantity":         "10",
		"price":            "1000000",
		"promotionalPrice": "900000",
		"categoryId":       "c1",
		"producerId":       "p1",
	}
}

func TestCatalogHandler_CreateProduct(t *testing.T) {
	e := newEcho(t)
	stub := &stubCatalogService{
		createProductFn: func(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
			if in.Quantity != 10 || !in.Price.Equal(decimal.NewFromInt(1000000)) || !in.PromotionalPrice.Equal(decimal.NewFromInt(900000)) {
				t.Fatalf("unexpected input: %+v", in)
			}
			if len(in.Images) != 2 || in.Images[0].Filename != "front.jpg" || in.Images[1].Filename != "side.jpg" {
				t.Fatalf("images must keep slot order, got %+v", in.Images)
			}
			b, _ := io.ReadAll(in.Images[0].Body)
			if string(b) != "img:front.jpg" {
				t.Fatalf("unexpected image body %q", b)
			}
			return &domain.Product{ID: "p9", Name: in.Name, IsActive: true}, nil
		},
	}

	c, rec := multipartContext(t, e, productFields(), map[string]string{"image0": "front.jpg", "image3": "side.jpg"})
	if err := NewCatalogHandler(stub).CreateProduct(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestCatalogHandler_CreateProduct_InvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"negative price", "price", "-1"},
		{"price not a number", "promotionalPrice", "abc"},
		{"fractional quantity", "quantity", "1.5"},
		{"missing category", "categoryId", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(t)
			fields := productFields()
			fields[tt.field] = tt.value

			c, _ := multipartContext(t, e, fields, map[string]string{"image0": "a.jpg"})
			err := NewCatalogHandler(&stubCatalogService{}).CreateProduct(c)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCatalogHandler_CreateCategory_OptionalImage(t *testing.T) {
	e := newEcho(t)
	var got ports.CategoryInput
	stub := &stubCatalogService{
		createCategoryFn: func(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
			got = in
			return &domain.Category{ID: "c1", Name: in.Name}, nil
		},
	}

	c, rec := multipartContext(t, e, map[string]string{"name": "Phones", "categoryId": "root"}, nil)
	if err := NewCatalogHandler(stub).CreateCategory(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Name != "Phones" || got.ParentID != "root" || got.Image != nil {
		t.Fatalf("unexpected input: %+v", got)
	}
}
