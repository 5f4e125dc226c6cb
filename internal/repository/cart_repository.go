package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaarhq/marketplace/internal/domain"
)

// CartRepository manages cart lines of users in one tenant.
type CartRepository interface {
	Create(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, item *domain.CartItem) error
	Delete(ctx context.Context, tenantID, id string) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.CartItem, error)
	GetByProduct(ctx context.Context, tenantID, userID, productID string) (*domain.CartItem, error)
	ListByUser(ctx context.Context, tenantID, userID string) ([]domain.CartItem, error)
}

type cartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository builds the repository.
func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &cartRepository{pool: pool}
}

const cartColumns = `id::text, tenant_id, user_id, product_id, quantity, created_at, updated_at`

func (r *cartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	const query = `
        INSERT INTO cart_items (tenant_id, user_id, product_id, quantity)
        VALUES ($1,$2,$3,$4)
        RETURNING id::text, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.TenantID,
		item.UserID,
		item.ProductID,
		item.Quantity,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, item *domain.CartItem) error {
	const query = `
        UPDATE cart_items SET quantity=$1, updated_at=NOW()
        WHERE tenant_id=$2 AND id=$3
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, item.Quantity, item.TenantID, item.ID).Scan(&item.UpdatedAt)
}

func (r *cartRepository) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *cartRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE tenant_id=$1 AND id=$2`
	return scanCartItem(r.pool.QueryRow(ctx, query, tenantID, id))
}

func (r *cartRepository) GetByProduct(ctx context.Context, tenantID, userID, productID string) (*domain.CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE tenant_id=$1 AND user_id=$2 AND product_id=$3`
	return scanCartItem(r.pool.QueryRow(ctx, query, tenantID, userID, productID))
}

func (r *cartRepository) ListByUser(ctx context.Context, tenantID, userID string) ([]domain.CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE tenant_id=$1 AND user_id=$2 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := row.Scan(
		&item.ID,
		&item.TenantID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
