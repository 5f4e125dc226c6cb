package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaarhq/marketplace/internal/domain"
)

// WishlistRepository manages wishlists and the products linked to them.
type WishlistRepository interface {
	Create(ctx context.Context, wishlist *domain.Wishlist) error
	Rename(ctx context.Context, wishlist *domain.Wishlist) error
	Delete(ctx context.Context, tenantID, id string) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Wishlist, error)
	ListByUser(ctx context.Context, tenantID, userID string) ([]domain.Wishlist, error)

	AddDetail(ctx context.Context, detail *domain.WishlistDetail) error
	GetDetail(ctx context.Context, id string) (*domain.WishlistDetail, error)
	RemoveDetail(ctx context.Context, id string) error
	ListDetails(ctx context.Context, wishlistID string) ([]domain.WishlistDetail, error)
}

type wishlistRepository struct {
	pool *pgxpool.Pool
}

// NewWishlistRepository builds the repository.
func NewWishlistRepository(pool *pgxpool.Pool) WishlistRepository {
	return &wishlistRepository{pool: pool}
}

const wishlistColumns = `id::text, tenant_id, user_id, name, created_at, updated_at`

func (r *wishlistRepository) Create(ctx context.Context, w *domain.Wishlist) error {
	const query = `
        INSERT INTO wishlists (tenant_id, user_id, name) VALUES ($1,$2,$3)
        RETURNING id::text, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, w.TenantID, w.UserID, w.Name).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

func (r *wishlistRepository) Rename(ctx context.Context, w *domain.Wishlist) error {
	const query = `
        UPDATE wishlists SET name=$1, updated_at=NOW()
        WHERE tenant_id=$2 AND id=$3
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, w.Name, w.TenantID, w.ID).Scan(&w.UpdatedAt)
}

func (r *wishlistRepository) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM wishlists WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *wishlistRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Wishlist, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlists WHERE tenant_id=$1 AND id=$2`
	return scanWishlist(r.pool.QueryRow(ctx, query, tenantID, id))
}

func (r *wishlistRepository) ListByUser(ctx context.Context, tenantID, userID string) ([]domain.Wishlist, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlists WHERE tenant_id=$1 AND user_id=$2 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Wishlist{}
	for rows.Next() {
		w, err := scanWishlist(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

func (r *wishlistRepository) AddDetail(ctx context.Context, d *domain.WishlistDetail) error {
	const query = `
        INSERT INTO wishlist_details (wishlist_id, product_id) VALUES ($1,$2)
        RETURNING id::text, created_at`
	return r.pool.QueryRow(ctx, query, d.WishlistID, d.ProductID).Scan(&d.ID, &d.CreatedAt)
}

func (r *wishlistRepository) GetDetail(ctx context.Context, id string) (*domain.WishlistDetail, error) {
	const query = `SELECT id::text, wishlist_id::text, product_id, created_at FROM wishlist_details WHERE id=$1`
	return scanWishlistDetail(r.pool.QueryRow(ctx, query, id))
}

func (r *wishlistRepository) RemoveDetail(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM wishlist_details WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *wishlistRepository) ListDetails(ctx context.Context, wishlistID string) ([]domain.WishlistDetail, error) {
	const query = `
        SELECT id::text, wishlist_id::text, product_id, created_at
        FROM wishlist_details WHERE wishlist_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, wishlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.WishlistDetail{}
	for rows.Next() {
		d, err := scanWishlistDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

func scanWishlist(row pgx.Row) (*domain.Wishlist, error) {
	var w domain.Wishlist
	if err := row.Scan(&w.ID, &w.TenantID, &w.UserID, &w.Name, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWishlistDetail(row pgx.Row) (*domain.WishlistDetail, error) {
	var d domain.WishlistDetail
	if err := row.Scan(&d.ID, &d.WishlistID, &d.ProductID, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
