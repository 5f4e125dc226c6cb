package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazaarhq/marketplace/internal/domain"
)

// OrderRepository manages orders, their items and payments.
type OrderRepository interface {
	// Place stores the order with its items and empties the user's cart in one transaction.
	Place(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, tenantID, userID string) ([]domain.Order, error)
	// Transition moves an order from one status to another. pgx.ErrNoRows means the order is not in from.
	Transition(ctx context.Context, tenantID, id string, from, to domain.OrderStatus) error
	// Pay records the payment and marks a pending order paid in one transaction.
	Pay(ctx context.Context, payment *domain.Payment) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository builds the repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id::text, tenant_id, user_id, status, shipping_provider, total_amount, created_at, updated_at`

func (r *orderRepository) Place(ctx context.Context, order *domain.Order) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const orderQuery = `
            INSERT INTO orders (tenant_id, user_id, status, shipping_provider, total_amount)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id::text, created_at, updated_at`
		if err := tx.QueryRow(ctx, orderQuery,
			order.TenantID,
			order.UserID,
			order.Status,
			order.ShippingProvider,
			order.TotalAmount,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return err
		}

		const itemQuery = `
            INSERT INTO order_items (order_id, product_id, quantity, unit_price)
            VALUES ($1,$2,$3,$4)
            RETURNING id::text`
		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if err := tx.QueryRow(ctx, itemQuery, order.ID, item.ProductID, item.Quantity, item.UnitPrice).Scan(&item.ID); err != nil {
				return err
			}
		}

		_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE tenant_id=$1 AND user_id=$2`, order.TenantID, order.UserID)
		return err
	})
}

func (r *orderRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id=$1 AND id=$2`
	order, err := scanOrder(r.pool.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id::text, order_id::text, product_id, quantity, unit_price
        FROM order_items WHERE order_id=$1 ORDER BY id`, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *orderRepository) ListByUser(ctx context.Context, tenantID, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id=$1 AND user_id=$2 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) Transition(ctx context.Context, tenantID, id string, from, to domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `
        UPDATE orders SET status=$1, updated_at=NOW()
        WHERE tenant_id=$2 AND id=$3 AND status=$4`, to, tenantID, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) Pay(ctx context.Context, payment *domain.Payment) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
            UPDATE orders SET status=$1, updated_at=NOW()
            WHERE tenant_id=$2 AND id=$3 AND status=$4`,
			domain.OrderPaid, payment.TenantID, payment.OrderID, domain.OrderPending)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		const query = `
            INSERT INTO payments (tenant_id, order_id, payment_method, payment_reference, amount)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id::text, created_at`
		return tx.QueryRow(ctx, query,
			payment.TenantID,
			payment.OrderID,
			payment.Method,
			payment.Reference,
			payment.Amount,
		).Scan(&payment.ID, &payment.CreatedAt)
	})
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID,
		&o.TenantID,
		&o.UserID,
		&o.Status,
		&o.ShippingProvider,
		&o.TotalAmount,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
