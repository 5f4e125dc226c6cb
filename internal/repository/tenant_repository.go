package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaarhq/marketplace/internal/domain"
)

// TenantRepository manages tenants together with their detail rows.
type TenantRepository interface {
	Create(ctx context.Context, record *domain.TenantOwnership) error
	Get(ctx context.Context, tenantID string) (*domain.TenantOwnership, error)
	Replace(ctx context.Context, oldTenantID string, record *domain.TenantOwnership) error
	Delete(ctx context.Context, tenantID string) error
}

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository builds the repository.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

func (r *tenantRepository) Create(ctx context.Context, record *domain.TenantOwnership) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const tenantQuery = `
            INSERT INTO tenants (owner_id) VALUES ($1)
            RETURNING id::text, created_at, updated_at`
		if err := tx.QueryRow(ctx, tenantQuery, record.Tenant.OwnerID).Scan(
			&record.Tenant.ID,
			&record.Tenant.CreatedAt,
			&record.Tenant.UpdatedAt,
		); err != nil {
			return err
		}

		const detailQuery = `
            INSERT INTO tenant_details (tenant_id, name) VALUES ($1, $2)
            RETURNING id::text, tenant_id::text`
		return tx.QueryRow(ctx, detailQuery, record.Tenant.ID, record.Detail.Name).Scan(
			&record.Detail.ID,
			&record.Detail.TenantID,
		)
	})
}

func (r *tenantRepository) Get(ctx context.Context, tenantID string) (*domain.TenantOwnership, error) {
	const query = `
        SELECT t.id::text, t.owner_id, t.created_at, t.updated_at, d.id::text, d.tenant_id::text, d.name
        FROM tenants t
        JOIN tenant_details d ON d.tenant_id = t.id
        WHERE t.id=$1`

	var rec domain.TenantOwnership
	if err := r.pool.QueryRow(ctx, query, tenantID).Scan(
		&rec.Tenant.ID,
		&rec.Tenant.OwnerID,
		&rec.Tenant.CreatedAt,
		&rec.Tenant.UpdatedAt,
		&rec.Detail.ID,
		&rec.Detail.TenantID,
		&rec.Detail.Name,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Replace moves a tenant to a new id, owner and name. The detail row follows through ON UPDATE CASCADE.
func (r *tenantRepository) Replace(ctx context.Context, oldTenantID string, record *domain.TenantOwnership) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const tenantQuery = `
            UPDATE tenants SET id=$1, owner_id=$2, updated_at=NOW()
            WHERE id=$3
            RETURNING created_at, updated_at`
		if err := tx.QueryRow(ctx, tenantQuery, record.Tenant.ID, record.Tenant.OwnerID, oldTenantID).Scan(
			&record.Tenant.CreatedAt,
			&record.Tenant.UpdatedAt,
		); err != nil {
			return err
		}

		const detailQuery = `
            UPDATE tenant_details SET name=$1 WHERE tenant_id=$2
            RETURNING id::text, tenant_id::text`
		return tx.QueryRow(ctx, detailQuery, record.Detail.Name, record.Tenant.ID).Scan(
			&record.Detail.ID,
			&record.Detail.TenantID,
		)
	})
}

func (r *tenantRepository) Delete(ctx context.Context, tenantID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tenants WHERE id=$1`, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
