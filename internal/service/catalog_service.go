package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	apperrors "github.com/bazaarhq/marketplace/pkg/util/errorutil"
)

// ProductInput carries writable product fields.
type ProductInput struct {
	Name              string
	Description       string
	Price             int64
	QuantityAvailable int
	CategoryID        *string
}

// CatalogService manages products and categories of the service's own tenant.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	tenantID   string
}

// NewCatalogService binds the catalogue to tenantID.
func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, tenantID string) *CatalogService {
	return &CatalogService{products: products, categories: categories, tenantID: tenantID}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListByTenant(ctx, s.tenantID)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, s.tenantID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
	}
	return p, err
}

// GetManyProducts returns the products among ids that exist; unknown ids are skipped.
func (s *CatalogService) GetManyProducts(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("product ids are required", nil)
	}
	return s.products.GetMany(ctx, s.tenantID, ids)
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.products.ListByCategory(ctx, s.tenantID, categoryID)
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.ensureProductNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	p := &domain.Product{
		TenantID:          s.tenantID,
		Name:              name,
		Description:       in.Description,
		Price:             in.Price,
		QuantityAvailable: in.QuantityAvailable,
		CategoryID:        in.CategoryID,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.ensureProductNameFree(ctx, name, id); err != nil {
		return nil, err
	}
	p := &domain.Product{
		ID:                id,
		TenantID:          s.tenantID,
		Name:              name,
		Description:       in.Description,
		Price:             in.Price,
		QuantityAvailable: in.QuantityAvailable,
		CategoryID:        in.CategoryID,
	}
	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, s.tenantID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListByTenant(ctx, s.tenantID)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if err := s.ensureCategoryNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	c := &domain.Category{TenantID: s.tenantID, Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if err := s.ensureCategoryNameFree(ctx, name, id); err != nil {
		return nil, err
	}
	c := &domain.Category{ID: id, TenantID: s.tenantID, Name: name}
	if err := s.categories.Update(ctx, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, s.tenantID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// ensureProductNameFree fails with a conflict when another product of the tenant already uses name.
func (s *CatalogService) ensureProductNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.products.GetByName(ctx, s.tenantID, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperrors.NewConflict("product with this name already exists", map[string]any{"name": name})
}

func (s *CatalogService) ensureCategoryNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.categories.GetByName(ctx, s.tenantID, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperrors.NewConflict("category with this name already exists", map[string]any{"name": name})
}
