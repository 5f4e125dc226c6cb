package domain

import "time"

// OrderStatus tracks an order through payment.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
)

// CartItem is one product line in a user's cart.
type CartItem struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Order is a placed cart. Items keep the unit price at the time of ordering.
type Order struct {
	ID               string      `json:"id"`
	TenantID         string      `json:"tenant_id"`
	UserID           string      `json:"user_id"`
	Status           OrderStatus `json:"status"`
	ShippingProvider string      `json:"shipping_provider"`
	TotalAmount      int64       `json:"total_amount"`
	Items            []OrderItem `json:"items,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Payment settles an order.
type Payment struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	OrderID   string    `json:"order_id"`
	Method    string    `json:"payment_method"`
	Reference string    `json:"payment_reference"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether userID placed the order.
func (o *Order) OwnedBy(userID string) bool {
	return o != nil && userID != "" && o.UserID == userID
}
