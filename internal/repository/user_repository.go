package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaarhq/marketplace/internal/domain"
)

// UserRepository defines persistence access for marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, tenantID, username string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id::text, tenant_id, username, email, password_hash, full_name, address, phone_number, role, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (tenant_id, username, email, password_hash, full_name, address, phone_number, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id::text, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.TenantID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Address,
		user.PhoneNumber,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, tenantID, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id=$1 AND username=$2`
	return r.scanOne(ctx, query, tenantID, username)
}

func (r *userRepository) scanOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.TenantID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Address,
		&user.PhoneNumber,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
