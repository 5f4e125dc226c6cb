package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bazaarhq/marketplace/internal/api/http/handlers"
	"github.com/bazaarhq/marketplace/internal/authz"
)

// RegisterHealthRoutes wires the health checks every service exposes.
func RegisterHealthRoutes(app *fiber.App, health *handlers.HealthHandler) {
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)
}

// RegisterAuthRoutes wires the auth service.
func RegisterAuthRoutes(app *fiber.App, h *handlers.AuthHandler) {
	group := app.Group("/auth")
	group.Post("/register", h.Register)
	group.Post("/login", h.Login)
	group.Post("/verify", h.Verify)
	group.Post("/verify-admin", h.VerifyAdmin)
	group.Post("/logout", h.Logout)
}

// RegisterTenantRoutes wires the tenant service. The lookup stays open for downstream ownership checks.
func RegisterTenantRoutes(app *fiber.App, h *handlers.TenantHandler, identity *authz.Middleware) {
	group := app.Group("/tenant")
	group.Get("/:tenant_id", h.Get)

	group.Post("", identity.Handle, h.Create)
	group.Put("/:old_tenant_id", identity.Handle, h.Edit)
	group.Delete("", identity.Handle, h.Delete)
}

// RegisterProductRoutes wires the products service. Writes require the tenant owner.
func RegisterProductRoutes(app *fiber.App, h *handlers.ProductHandler, owner *authz.Middleware) {
	group := app.Group("/product")
	group.Get("", h.List)
	group.Get("/category", h.ListCategories)
	group.Get("/category/:category_id", h.ByCategory)
	group.Post("/many", h.Many)
	group.Get("/:id", h.Get)

	group.Post("", owner.Handle, h.Create)
	group.Post("/category", owner.Handle, h.CreateCategory)
	group.Put("/category/:category_id", owner.Handle, h.EditCategory)
	group.Delete("/category/:category_id", owner.Handle, h.DeleteCategory)
	group.Put("/:id", owner.Handle, h.Edit)
	group.Delete("/:id", owner.Handle, h.Delete)
}

// RegisterOrderRoutes wires the orders service. Payment stays open so a payment provider can call back.
func RegisterOrderRoutes(app *fiber.App, h *handlers.OrderHandler, identity *authz.Middleware) {
	orders := app.Group("/order")
	orders.Get("", identity.Handle, h.List)
	orders.Post("", identity.Handle, h.Place)
	orders.Get("/:orderId", identity.Handle, h.Get)
	orders.Post("/:orderId/pay", h.Pay)
	orders.Post("/:orderId/cancel", identity.Handle, h.Cancel)

	cart := app.Group("/cart", identity.Handle)
	cart.Get("", h.ListCart)
	cart.Post("", h.AddToCart)
	cart.Put("", h.EditCart)
	cart.Delete("", h.RemoveFromCart)
}

// RegisterWishlistRoutes wires the wishlist service. Every route needs a verified caller.
func RegisterWishlistRoutes(app *fiber.App, h *handlers.WishlistHandler, identity *authz.Middleware) {
	group := app.Group("/wishlist", identity.Handle)
	group.Get("", h.List)
	group.Post("", h.Create)
	group.Post("/add", h.AddProduct)
	group.Delete("/remove", h.RemoveProduct)
	group.Get("/:id", h.Get)
	group.Put("/:id", h.Rename)
	group.Delete("/:id", h.Delete)
}
