package service

import (
	"context"

	"github.com/bazaarhq/marketplace/internal/domain"
	apperrors "github.com/bazaarhq/marketplace/pkg/util/errorutil"
)

// ProductCatalog resolves product ids against the products service.
type ProductCatalog interface {
	GetMany(ctx context.Context, ids []string) ([]domain.Product, error)
}

// lookupProducts indexes the catalogue answer by id. Lookup faults become DependencyUnavailable.
func lookupProducts(ctx context.Context, catalog ProductCatalog, ids []string) (map[string]domain.Product, error) {
	products, err := catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, apperrors.NewDependencyUnavailable("product lookup failed", err)
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func lookupProduct(ctx context.Context, catalog ProductCatalog, id string) (*domain.Product, error) {
	byID, err := lookupProducts(ctx, catalog, []string{id})
	if err != nil {
		return nil, err
	}
	p, ok := byID[id]
	if !ok {
		return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
	}
	return &p, nil
}

func requireUser(userID string) error {
	if userID == "" {
		return apperrors.NewUnauthorized("caller has no id")
	}
	return nil
}
