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

// WishlistService manages users' wishlists within one tenant.
type WishlistService struct {
	wishlists repository.WishlistRepository
	catalog   ProductCatalog
	tenantID  string
}

// NewWishlistService binds wishlists to tenantID.
func NewWishlistService(wishlists repository.WishlistRepository, catalog ProductCatalog, tenantID string) *WishlistService {
	return &WishlistService{wishlists: wishlists, catalog: catalog, tenantID: tenantID}
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.Wishlist, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.wishlists.ListByUser(ctx, s.tenantID, userID)
}

// Get returns one of the caller's wishlists with its products.
func (s *WishlistService) Get(ctx context.Context, userID, id string) (*domain.Wishlist, error) {
	w, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if w.Details, err = s.wishlists.ListDetails(ctx, w.ID); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WishlistService) Create(ctx context.Context, userID, name string) (*domain.Wishlist, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	w := &domain.Wishlist{TenantID: s.tenantID, UserID: userID, Name: name}
	if err := s.wishlists.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WishlistService) Rename(ctx context.Context, userID, id, name string) (*domain.Wishlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	w, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	w.Name = name
	if err := s.wishlists.Rename(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a wishlist together with its products.
func (s *WishlistService) Delete(ctx context.Context, userID, id string) (*domain.Wishlist, error) {
	w, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.wishlists.Delete(ctx, s.tenantID, id); err != nil {
		return nil, err
	}
	return w, nil
}

// AddProduct links a catalogue product to one of the caller's wishlists.
func (s *WishlistService) AddProduct(ctx context.Context, userID, wishlistID, productID string) (*domain.WishlistDetail, error) {
	w, err := s.owned(ctx, userID, wishlistID)
	if err != nil {
		return nil, err
	}
	if _, err := lookupProduct(ctx, s.catalog, productID); err != nil {
		return nil, err
	}

	details, err := s.wishlists.ListDetails(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		if d.ProductID == productID {
			return nil, apperrors.NewConflict("product already in wishlist", map[string]any{"product_id": productID})
		}
	}

	detail := &domain.WishlistDetail{WishlistID: w.ID, ProductID: productID}
	if err := s.wishlists.AddDetail(ctx, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// RemoveProduct unlinks a wishlist entry of the caller.
func (s *WishlistService) RemoveProduct(ctx context.Context, userID, detailID string) (*domain.WishlistDetail, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	detail, err := s.wishlists.GetDetail(ctx, detailID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("wishlist item", map[string]any{"id": detailID})
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, detail.WishlistID); err != nil {
		return nil, err
	}
	if err := s.wishlists.RemoveDetail(ctx, detailID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *WishlistService) owned(ctx context.Context, userID, id string) (*domain.Wishlist, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	w, err := s.wishlists.GetByID(ctx, s.tenantID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("wishlist", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	if !w.OwnedBy(userID) {
		return nil, apperrors.NewUnauthorized("you are not authorized to access this wishlist")
	}
	return w, nil
}
