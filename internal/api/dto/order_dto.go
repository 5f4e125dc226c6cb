package dto

// PlaceOrderRequest payload for POST /order.
type PlaceOrderRequest struct {
	ShippingProvider string `json:"shipping_provider"`
}

// PayOrderRequest payload for POST /order/:orderId/pay.
type PayOrderRequest struct {
	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference"`
	Amount           int64  `json:"amount"`
}

// AddCartItemRequest payload for POST /cart.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// EditCartItemRequest payload for PUT /cart.
type EditCartItemRequest struct {
	CartID   string `json:"cart_id"`
	Quantity int    `json:"quantity"`
}

// DeleteCartItemRequest payload for DELETE /cart.
type DeleteCartItemRequest struct {
	ProductID string `json:"product_id"`
}
