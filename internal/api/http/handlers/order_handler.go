package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bazaarhq/marketplace/internal/api/dto"
	"github.com/bazaarhq/marketplace/internal/service"
)

// OrderHandler exposes carts and orders of the calling user.
type OrderHandler struct {
	orders *service.OrderService
	carts  *service.CartService
}

// NewOrderHandler constructs handler.
func NewOrderHandler(orders *service.OrderService, carts *service.CartService) *OrderHandler {
	return &OrderHandler{orders: orders, carts: carts}
}

// List handles GET /order.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.UserContext(), callerID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, orders)
}

// Get handles GET /order/:orderId.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.orders.Get(c.UserContext(), callerID(c), c.Params("orderId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// Place handles POST /order.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req dto.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ShippingProvider == "" {
		return fiber.NewError(http.StatusBadRequest, "shipping_provider required")
	}
	order, err := h.orders.Place(c.UserContext(), callerID(c), req.ShippingProvider)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, order)
}

// Pay handles POST /order/:orderId/pay. The route carries no caller identity.
func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	var req dto.PayOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	payment, err := h.orders.Pay(c.UserContext(), c.Params("orderId"), service.PaymentInput{
		Method:    req.PaymentMethod,
		Reference: req.PaymentReference,
		Amount:    req.Amount,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, payment)
}

// Cancel handles POST /order/:orderId/cancel.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.orders.Cancel(c.UserContext(), callerID(c), c.Params("orderId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// ListCart handles GET /cart.
func (h *OrderHandler) ListCart(c *fiber.Ctx) error {
	items, err := h.carts.List(c.UserContext(), callerID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, items)
}

// AddToCart handles POST /cart.
func (h *OrderHandler) AddToCart(c *fiber.Ctx) error {
	var req dto.AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ProductID == "" {
		return fiber.NewError(http.StatusBadRequest, "product_id required")
	}
	item, err := h.carts.Add(c.UserContext(), callerID(c), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, item)
}

// EditCart handles PUT /cart.
func (h *OrderHandler) EditCart(c *fiber.Ctx) error {
	var req dto.EditCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CartID == "" {
		return fiber.NewError(http.StatusBadRequest, "cart_id required")
	}
	item, err := h.carts.Edit(c.UserContext(), callerID(c), req.CartID, req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, item)
}

// RemoveFromCart handles DELETE /cart.
func (h *OrderHandler) RemoveFromCart(c *fiber.Ctx) error {
	var req dto.DeleteCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ProductID == "" {
		return fiber.NewError(http.StatusBadRequest, "product_id required")
	}
	item, err := h.carts.Remove(c.UserContext(), callerID(c), req.ProductID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, item)
}
