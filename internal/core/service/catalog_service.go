package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/pkg/listing"
)

// CatalogService manages categories, producers and products.
type CatalogService struct {
	categories ports.CategoryRepository
	producers  ports.ProducerRepository
	products   ports.ProductRepository
	images     ports.ImageStore
	log        zerolog.Logger
	now        func() time.Time
}

func NewCatalogService(
	categories ports.CategoryRepository,
	producers ports.ProducerRepository,
	products ports.ProductRepository,
	images ports.ImageStore,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		producers:  producers,
		products:   products,
		images:     images,
		log:        log,
		now:        time.Now,
	}
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

func (s *CatalogService) Category(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id, false)
}

func (s *CatalogService) Categories(ctx context.Context, f listing.Filter, admin bool) (*ports.ListResult[*domain.Category], error) {
	items, total, err := s.categories.List(ctx, ports.ListQuery{Filter: f, IncludeHidden: admin})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return ports.NewListResult(items, f, total), nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if err := s.checkParent(ctx, in.ParentID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &domain.Category{Name: name, CategoryID: in.ParentID, CreatedAt: now, UpdatedAt: now}
	if in.Image != nil {
		url, err := s.saveImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		c.Image = url
	}

	created, err := s.categories.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.log.Info().Str("category_id", created.ID).Msg("category created")
	return created, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in ports.CategoryInput) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		c.Name = name
	}
	if in.ParentID != c.CategoryID {
		if in.ParentID == c.ID {
			return nil, fmt.Errorf("%w: a category cannot be its own parent", domain.ErrInvalidInput)
		}
		if err := s.checkParent(ctx, in.ParentID); err != nil {
			return nil, err
		}
		if err := s.checkAncestry(ctx, c.ID, in.ParentID); err != nil {
			return nil, err
		}
		c.CategoryID = in.ParentID
	}
	if in.Image != nil {
		url, err := s.saveImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		c.Image = url
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.setCategoryDeleted(ctx, id, true)
}

func (s *CatalogService) RestoreCategory(ctx context.Context, id string) error {
	return s.setCategoryDeleted(ctx, id, false)
}

func (s *CatalogService) setCategoryDeleted(ctx context.Context, id string, deleted bool) error {
	if _, err := s.categories.FindByID(ctx, id, true); err != nil {
		return err
	}
	if err := s.categories.SetDeleted(ctx, id, deleted); err != nil {
		return fmt.Errorf("set category deleted=%v: %w", deleted, err)
	}
	return nil
}

func (s *CatalogService) checkParent(ctx context.Context, parentID string) error {
	if parentID == "" {
		return nil
	}
	if _, err := s.categories.FindByID(ctx, parentID, false); err != nil {
		return fmt.Errorf("parent category: %w", err)
	}
	return nil
}

// maxCategoryDepth bounds the ancestry walk so a cycle already stored can
// not loop forever.
const maxCategoryDepth = 64

// checkAncestry rejects a parent whose chain of ancestors reaches id.
func (s *CatalogService) checkAncestry(ctx context.Context, id, parentID string) error {
	for depth := 0; parentID != ""; depth++ {
		if parentID == id {
			return fmt.Errorf("%w: a category cannot be nested under its own descendant", domain.ErrInvalidInput)
		}
		if depth == maxCategoryDepth {
			return fmt.Errorf("%w: category tree deeper than %d levels", domain.ErrInvalidInput, maxCategoryDepth)
		}
		parent, err := s.categories.FindByID(ctx, parentID, true)
		if err != nil {
			return fmt.Errorf("parent category: %w", err)
		}
		parentID = parent.CategoryID
	}
	return nil
}

// ---------------------------------------------------------------------------
// Producers
// ---------------------------------------------------------------------------

func (s *CatalogService) Producers(ctx context.Context, f listing.Filter) (*ports.ListResult[*domain.Producer], error) {
	items, total, err := s.producers.List(ctx, ports.ListQuery{Filter: f, IncludeHidden: true})
	if err != nil {
		return nil, fmt.Errorf("list producers: %w", err)
	}
	return ports.NewListResult(items, f, total), nil
}

func (s *CatalogService) CreateProducer(ctx context.Context, name string) (*domain.Producer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	now := s.now().UTC()
	p, err := s.producers.Create(ctx, &domain.Producer{Name: name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}
	return p, nil
}

func (s *CatalogService) DeleteProducer(ctx context.Context, id string) error {
	return s.setProducerDeleted(ctx, id, true)
}

func (s *CatalogService) RestoreProducer(ctx context.Context, id string) error {
	return s.setProducerDeleted(ctx, id, false)
}

func (s *CatalogService) setProducerDeleted(ctx context.Context, id string, deleted bool) error {
	if _, err := s.producers.FindByID(ctx, id, true); err != nil {
		return err
	}
	if err := s.producers.SetDeleted(ctx, id, deleted); err != nil {
		return fmt.Errorf("set producer deleted=%v: %w", deleted, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

func (s *CatalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) Products(ctx context.Context, f listing.Filter, admin bool) (*ports.ListResult[*domain.Product], error) {
	items, total, err := s.products.List(ctx, ports.ListQuery{Filter: f, IncludeHidden: admin})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return ports.NewListResult(items, f, total), nil
}

// CreateProduct stores a new active product. The first image is required.
func (s *CatalogService) CreateProduct(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	// 1. Referenced category and producer must exist and not be deleted.
	if _, err := s.categories.FindByID(ctx, in.CategoryID, false); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if _, err := s.producers.FindByID(ctx, in.ProducerID, false); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	now := s.now().UTC()
	p := &domain.Product{
		Name:             strings.TrimSpace(in.Name),
		Description:      strings.TrimSpace(in.Description),
		Price:            in.Price,
		PromotionalPrice: in.PromotionalPrice,
		Quantity:         in.Quantity,
		CategoryID:       in.CategoryID,
		ProducerID:       in.ProducerID,
		IsActive:         true,
		ListImages:       make([]string, len(in.Images)),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// 2. Validate before uploading anything; image slots are filled below.
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// 3. Upload images in slot order.
	for i, img := range in.Images {
		url, err := s.saveImage(ctx, img)
		if err != nil {
			return nil, err
		}
		p.ListImages[i] = url
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info().Str("product_id", created.ID).Int("images", len(created.ListImages)).Msg("product created")
	return created, nil
}

func (s *CatalogService) SetProductActive(ctx context.Context, id string, active bool) (*domain.Product, error) {
	p, err := s.products.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", id).Bool("active", active).Msg("product activation changed")
	return p, nil
}

func (s *CatalogService) saveImage(ctx context.Context, u ports.Upload) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(u.Filename))
	url, err := s.images.Save(ctx, name, u.Body)
	if err != nil {
		return "", fmt.Errorf("save image %q: %w", u.Filename, err)
	}
	return url, nil
}
