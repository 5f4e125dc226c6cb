package loadgen

import (
	"encoding/json"
	"strings"
)

// Service names a marketplace service an endpoint belongs to.
type Service string

const (
	ServiceAuth     Service = "auth"
	ServiceOrders   Service = "orders"
	ServiceProducts Service = "products"
	ServiceTenant   Service = "tenant"
	ServiceWishlist Service = "wishlist"
)

// Endpoint is one weighted request template.
type Endpoint struct {
	Name    string
	Method  string
	Service Service
	// Path may contain placeholders such as {id}; see Substitute.
	Path    string
	Payload json.RawMessage
	Weight  int
}

func (e Endpoint) effectiveWeight() int {
	if e.Weight <= 0 {
		return 1
	}
	return e.Weight
}

// BaseURLs maps each service to the origin it is reachable at.
type BaseURLs map[Service]string

// DefaultBaseURLs targets every service on localhost at its default port.
func DefaultBaseURLs() BaseURLs {
	return BaseURLs{
		ServiceAuth:     "http://localhost:5001",
		ServiceOrders:   "http://localhost:5002",
		ServiceProducts: "http://localhost:5003",
		ServiceTenant:   "http://localhost:5004",
		ServiceWishlist: "http://localhost:5005",
	}
}

// URL resolves the endpoint against bases with placeholders substituted.
func (b BaseURLs) URL(e Endpoint) string {
	return strings.TrimRight(b[e.Service], "/") + Substitute(e.Path)
}

var placeholders = strings.NewReplacer(
	"{orderId}", "order123",
	"{id}", "id123",
	"{category_id}", "cat123",
	"{tenant_id}", "tenant123",
	"{old_tenant_id}", "tenantOld",
)

// Substitute fills path placeholders with fixed sample ids.
func Substitute(path string) string {
	return placeholders.Replace(path)
}

func payload(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

type obj = map[string]any

var user1 = obj{"id": "user1"}

// DefaultEndpoints is the weighted traffic mix of the marketplace.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: "login", Method: "POST", Service: ServiceAuth, Path: "/auth/login", Weight: 10,
			Payload: payload(obj{"username": "user1", "password": "password123"})},
		{Name: "register", Method: "POST", Service: ServiceAuth, Path: "/auth/register", Weight: 5,
			Payload: payload(obj{
				"username":     "user2",
				"email":        "user2@example.com",
				"password":     "Password123",
				"full_name":    "User Two",
				"address":      "Jalan Raya 2",
				"phone_number": "0812345678",
			})},
		{Name: "verifyToken", Method: "POST", Service: ServiceAuth, Path: "/auth/verify", Weight: 5,
			Payload: payload(obj{"token": "dummy-token"})},
		{Name: "verifyAdminToken", Method: "POST", Service: ServiceAuth, Path: "/auth/verify-admin", Weight: 5,
			Payload: payload(obj{"token": "dummy-admin-token"})},

		{Name: "getAllOrders", Method: "GET", Service: ServiceOrders, Path: "/order", Weight: 15},
		{Name: "getOrderDetail", Method: "GET", Service: ServiceOrders, Path: "/order/{orderId}", Weight: 10},
		{Name: "placeOrder", Method: "POST", Service: ServiceOrders, Path: "/order", Weight: 15,
			Payload: payload(obj{"user": user1, "shipping_provider": "JNE"})},
		{Name: "payOrder", Method: "POST", Service: ServiceOrders, Path: "/order/{orderId}/pay", Weight: 5,
			Payload: payload(obj{"payment_method": "credit_card", "payment_reference": "ref123", "amount": 100000})},
		{Name: "cancelOrder", Method: "POST", Service: ServiceOrders, Path: "/order/{orderId}/cancel", Weight: 5,
			Payload: payload(obj{"user": user1})},

		{Name: "getAllProducts", Method: "GET", Service: ServiceProducts, Path: "/product", Weight: 10},
		{Name: "getAllCategory", Method: "GET", Service: ServiceProducts, Path: "/product/category", Weight: 10},
		{Name: "getProductById", Method: "GET", Service: ServiceProducts, Path: "/product/{id}", Weight: 5},
		{Name: "getManyProductDatasById", Method: "POST", Service: ServiceProducts, Path: "/product/many", Weight: 5,
			Payload: payload(obj{"productIds": []string{"prod1", "prod2"}})},
		{Name: "getProductByCategory", Method: "GET", Service: ServiceProducts, Path: "/product/category/{category_id}", Weight: 5},
		{Name: "createProduct", Method: "POST", Service: ServiceProducts, Path: "/product", Weight: 5,
			Payload: payload(obj{
				"name":               "New Product",
				"description":        "Deskripsi produk",
				"price":              50000,
				"quantity_available": 100,
				"category_id":        "cat1",
			})},
		{Name: "createCategory", Method: "POST", Service: ServiceProducts, Path: "/product/category", Weight: 5,
			Payload: payload(obj{"name": "New Category"})},
		{Name: "editProduct", Method: "PUT", Service: ServiceProducts, Path: "/product/{id}", Weight: 5,
			Payload: payload(obj{
				"name":               "Updated Product",
				"description":        "Deskripsi baru",
				"price":              55000,
				"quantity_available": 90,
				"category_id":        "cat1",
			})},
		{Name: "editCategory", Method: "PUT", Service: ServiceProducts, Path: "/product/category/{category_id}", Weight: 5,
			Payload: payload(obj{"name": "Updated Category"})},
		{Name: "deleteProduct", Method: "DELETE", Service: ServiceProducts, Path: "/product/{id}", Weight: 5},
		{Name: "deleteCategory", Method: "DELETE", Service: ServiceProducts, Path: "/product/category/{category_id}", Weight: 5},

		{Name: "getAllCartItems", Method: "GET", Service: ServiceOrders, Path: "/cart", Weight: 10},
		{Name: "addItemToCart", Method: "POST", Service: ServiceOrders, Path: "/cart", Weight: 10,
			Payload: payload(obj{"user": user1, "product_id": "prod1", "quantity": 2})},
		{Name: "editCartItem", Method: "PUT", Service: ServiceOrders, Path: "/cart", Weight: 5,
			Payload: payload(obj{"user": user1, "cart_id": "cart1", "quantity": 3})},
		{Name: "deleteCartItem", Method: "DELETE", Service: ServiceOrders, Path: "/cart", Weight: 5,
			Payload: payload(obj{"user": user1, "product_id": "prod1"})},

		{Name: "getTenant", Method: "GET", Service: ServiceTenant, Path: "/tenant/{tenant_id}", Weight: 5},
		{Name: "createTenant", Method: "POST", Service: ServiceTenant, Path: "/tenant", Weight: 5,
			Payload: payload(obj{"user": user1, "name": "New Tenant"})},
		{Name: "editTenant", Method: "PUT", Service: ServiceTenant, Path: "/tenant/{old_tenant_id}", Weight: 5,
			Payload: payload(obj{"user": user1, "tenant_id": "tenant2", "owner_id": "user1", "name": "Updated Tenant"})},
		{Name: "deleteTenant", Method: "DELETE", Service: ServiceTenant, Path: "/tenant", Weight: 5,
			Payload: payload(obj{"user": user1, "tenant_id": "tenant1"})},

		{Name: "getAllUserWishlist", Method: "GET", Service: ServiceWishlist, Path: "/wishlist", Weight: 10},
		{Name: "getWishlistById", Method: "GET", Service: ServiceWishlist, Path: "/wishlist/{id}", Weight: 5},
		{Name: "createWishlist", Method: "POST", Service: ServiceWishlist, Path: "/wishlist", Weight: 5,
			Payload: payload(obj{"user": user1, "name": "My Wishlist"})},
		{Name: "updateWishlist", Method: "PUT", Service: ServiceWishlist, Path: "/wishlist/{id}", Weight: 5,
			Payload: payload(obj{"name": "Updated Wishlist"})},
		{Name: "deleteWishlist", Method: "DELETE", Service: ServiceWishlist, Path: "/wishlist/{id}", Weight: 5},
		{Name: "addProductToWishlist", Method: "POST", Service: ServiceWishlist, Path: "/wishlist/add", Weight: 5,
			Payload: payload(obj{"user": user1, "wishlist_id": "wishlist1", "product_id": "prod1"})},
		{Name: "removeProductFromWishlist", Method: "DELETE", Service: ServiceWishlist, Path: "/wishlist/remove", Weight: 5,
			Payload: payload(obj{"user": user1, "id": "wishlistDetail1"})},
	}
}
