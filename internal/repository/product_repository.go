package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaarhq/marketplace/internal/domain"
)

// ProductRepository manages tenant-scoped products. Every call is bound to one tenant.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, tenantID, id string) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Product, error)
	GetByName(ctx context.Context, tenantID, name string) (*domain.Product, error)
	GetMany(ctx context.Context, tenantID string, ids []string) ([]domain.Product, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Product, error)
	ListByCategory(ctx context.Context, tenantID, categoryID string) ([]domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository builds the repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id::text, tenant_id, name, description, price, quantity_available, category_id::text, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	const query = `
        INSERT INTO products (tenant_id, name, description, price, quantity_available, category_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id::text, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.TenantID,
		p.Name,
		p.Description,
		p.Price,
		p.QuantityAvailable,
		p.CategoryID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	const query = `
        UPDATE products SET name=$1, description=$2, price=$3, quantity_available=$4, category_id=$5, updated_at=NOW()
        WHERE tenant_id=$6 AND id=$7
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.QuantityAvailable,
		p.CategoryID,
		p.TenantID,
		p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id=$1 AND id=$2`
	return scanProduct(r.pool.QueryRow(ctx, query, tenantID, id))
}

func (r *productRepository) GetByName(ctx context.Context, tenantID, name string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id=$1 AND name=$2`
	return scanProduct(r.pool.QueryRow(ctx, query, tenantID, name))
}

func (r *productRepository) GetMany(ctx context.Context, tenantID string, ids []string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id=$1 AND id::text = ANY($2)`
	return r.list(ctx, query, tenantID, ids)
}

func (r *productRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id=$1 ORDER BY created_at`
	return r.list(ctx, query, tenantID)
}

func (r *productRepository) ListByCategory(ctx context.Context, tenantID, categoryID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id=$1 AND category_id=$2 ORDER BY created_at`
	return r.list(ctx, query, tenantID, categoryID)
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.QuantityAvailable,
		&p.CategoryID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
