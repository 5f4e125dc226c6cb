package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaarhq/marketplace/internal/domain"
)

// CategoryRepository manages tenant-scoped product categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, tenantID, id string) error
	GetByName(ctx context.Context, tenantID, name string) (*domain.Category, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	const query = `
        INSERT INTO categories (tenant_id, name) VALUES ($1,$2)
        RETURNING id::text, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, c.TenantID, c.Name).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	const query = `
        UPDATE categories SET name=$1, updated_at=NOW()
        WHERE tenant_id=$2 AND id=$3
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query, c.Name, c.TenantID, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *categoryRepository) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByName(ctx context.Context, tenantID, name string) (*domain.Category, error) {
	const query = `
        SELECT id::text, tenant_id, name, created_at, updated_at
        FROM categories WHERE tenant_id=$1 AND name=$2`
	var c domain.Category
	if err := r.pool.QueryRow(ctx, query, tenantID, name).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Category, error) {
	const query = `
        SELECT id::text, tenant_id, name, created_at, updated_at
        FROM categories WHERE tenant_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
