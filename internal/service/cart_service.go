package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	apperrors "github.com/bazaarhq/marketplace/pkg/util/errorutil"
)

// CartService manages the carts of a tenant's users.
type CartService struct {
	carts    repository.CartRepository
	catalog  ProductCatalog
	tenantID string
}

// NewCartService binds carts to tenantID.
func NewCartService(carts repository.CartRepository, catalog ProductCatalog, tenantID string) *CartService {
	return &CartService{carts: carts, catalog: catalog, tenantID: tenantID}
}

func (s *CartService) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.carts.ListByUser(ctx, s.tenantID, userID)
}

// Add puts quantity units of a product into the cart, merging with an existing line.
func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int) (*domain.CartItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", map[string]any{"quantity": quantity})
	}
	product, err := lookupProduct(ctx, s.catalog, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.carts.GetByProduct(ctx, s.tenantID, userID, productID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if err := checkStock(product, quantity); err != nil {
			return nil, err
		}
		item := &domain.CartItem{TenantID: s.tenantID, UserID: userID, ProductID: productID, Quantity: quantity}
		if err := s.carts.Create(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	case err != nil:
		return nil, err
	}

	existing.Quantity += quantity
	if err := checkStock(product, existing.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.UpdateQuantity(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Edit sets the quantity of one of the caller's cart lines.
func (s *CartService) Edit(ctx context.Context, userID, cartID string, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", map[string]any{"quantity": quantity})
	}
	item, err := s.ownedItem(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}
	product, err := lookupProduct(ctx, s.catalog, item.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(product, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := s.carts.UpdateQuantity(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove drops the caller's line for productID.
func (s *CartService) Remove(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	item, err := s.carts.GetByProduct(ctx, s.tenantID, userID, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("cart item", map[string]any{"product_id": productID})
	}
	if err != nil {
		return nil, err
	}
	if err := s.carts.Delete(ctx, s.tenantID, item.ID); err != nil {
		return nil, err
	}
	return item, nil
}

// ownedItem hides other users' lines behind a 404.
func (s *CartService) ownedItem(ctx context.Context, userID, cartID string) (*domain.CartItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	item, err := s.carts.GetByID(ctx, s.tenantID, cartID)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && item.UserID != userID) {
		return nil, apperrors.NewNotFound("cart item", map[string]any{"cart_id": cartID})
	}
	return item, err
}

func checkStock(product *domain.Product, quantity int) error {
	if quantity > product.QuantityAvailable {
		return apperrors.NewValidationError("not enough stock", map[string]any{
			"product_id": product.ID,
			"available":  product.QuantityAvailable,
			"requested":  quantity,
		})
	}
	return nil
}
