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

// ShippingProviders lists the couriers an order may ship with.
var ShippingProviders = map[string]struct{}{
	"JNE":     {},
	"JNT":     {},
	"POS":     {},
	"SICEPAT": {},
	"TIKI":    {},
}

// PaymentInput carries a payment for an order.
type PaymentInput struct {
	Method    string
	Reference string
	Amount    int64
}

// OrderService turns carts into orders and tracks them through payment.
type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	catalog  ProductCatalog
	tenantID string
}

// NewOrderService binds orders to tenantID.
func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, catalog ProductCatalog, tenantID string) *OrderService {
	return &OrderService{orders: orders, carts: carts, catalog: catalog, tenantID: tenantID}
}

func (s *OrderService) List(ctx context.Context, userID string) ([]domain.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.orders.ListByUser(ctx, s.tenantID, userID)
}

// Get returns one of the caller's orders with its items.
func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(userID) {
		return nil, apperrors.NewUnauthorized("you are not authorized to view this order")
	}
	return order, nil
}

// Place prices the caller's cart at current catalogue prices and turns it into a pending order.
func (s *OrderService) Place(ctx context.Context, userID, shippingProvider string) (*domain.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	provider := strings.ToUpper(strings.TrimSpace(shippingProvider))
	if _, ok := ShippingProviders[provider]; !ok {
		return nil, apperrors.NewValidationError("invalid shipping provider", map[string]any{"shipping_provider": shippingProvider})
	}

	cart, err := s.carts.ListByUser(ctx, s.tenantID, userID)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, apperrors.NewValidationError("cart is empty", nil)
	}

	ids := make([]string, 0, len(cart))
	for _, item := range cart {
		ids = append(ids, item.ProductID)
	}
	products, err := lookupProducts(ctx, s.catalog, ids)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		TenantID:         s.tenantID,
		UserID:           userID,
		Status:           domain.OrderPending,
		ShippingProvider: provider,
		Items:            make([]domain.OrderItem, 0, len(cart)),
	}
	for _, item := range cart {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, apperrors.NewValidationError("product is no longer available", map[string]any{"product_id": item.ProductID})
		}
		if err := checkStock(&product, item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		order.TotalAmount += product.Price * int64(item.Quantity)
	}

	if err := s.orders.Place(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Pay settles a pending order. The amount must equal the order total.
func (s *OrderService) Pay(ctx context.Context, orderID string, in PaymentInput) (*domain.Payment, error) {
	if strings.TrimSpace(in.Method) == "" || strings.TrimSpace(in.Reference) == "" {
		return nil, apperrors.NewValidationError("payment_method and payment_reference are required", nil)
	}
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderPending {
		return nil, apperrors.NewConflict("order is not awaiting payment", map[string]any{"status": order.Status})
	}
	if in.Amount != order.TotalAmount {
		return nil, apperrors.NewValidationError("payment amount does not match order total", map[string]any{
			"amount": in.Amount,
			"total":  order.TotalAmount,
		})
	}

	payment := &domain.Payment{
		TenantID:  s.tenantID,
		OrderID:   order.ID,
		Method:    in.Method,
		Reference: in.Reference,
		Amount:    in.Amount,
	}
	if err := s.orders.Pay(ctx, payment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("order is not awaiting payment", nil)
		}
		return nil, err
	}
	return payment, nil
}

// Cancel withdraws one of the caller's unpaid orders.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(userID) {
		return nil, apperrors.NewUnauthorized("you are not authorized to cancel this order")
	}
	switch order.Status {
	case domain.OrderCancelled:
		return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID, "status": order.Status})
	case domain.OrderPaid:
		return nil, apperrors.NewConflict("paid orders cannot be cancelled", map[string]any{"order_id": orderID})
	}

	if err := s.orders.Transition(ctx, s.tenantID, orderID, domain.OrderPending, domain.OrderCancelled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("order changed while cancelling", map[string]any{"order_id": orderID})
		}
		return nil, err
	}
	order.Status = domain.OrderCancelled
	return order, nil
}

func (s *OrderService) find(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, s.tenantID, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
	}
	return order, err
}
