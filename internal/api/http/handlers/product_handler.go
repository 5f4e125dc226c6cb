package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bazaarhq/marketplace/internal/api/dto"
	"github.com/bazaarhq/marketplace/internal/service"
)

// ProductHandler exposes the tenant's catalogue.
type ProductHandler struct {
	catalog *service.CatalogService
}

// NewProductHandler constructs handler.
func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /product.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, products)
}

// Get handles GET /product/:id.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product)
}

// Many handles POST /product/many.
func (h *ProductHandler) Many(c *fiber.Ctx) error {
	var req dto.ManyProductsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	products, err := h.catalog.GetManyProducts(c.UserContext(), req.ProductIDs)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, products)
}

// ByCategory handles GET /product/category/:category_id.
func (h *ProductHandler) ByCategory(c *fiber.Ctx) error {
	products, err := h.catalog.ListProductsByCategory(c.UserContext(), c.Params("category_id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, products)
}

// Create handles POST /product.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, err := parseProduct(c)
	if err != nil {
		return err
	}
	product, err := h.catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, product)
}

// Edit handles PUT /product/:id.
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	in, err := parseProduct(c)
	if err != nil {
		return err
	}
	product, err := h.catalog.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product)
}

// Delete handles DELETE /product/:id.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"id": id})
}

// ListCategories handles GET /product/category.
func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, categories)
}

// CreateCategory handles POST /product/category.
func (h *ProductHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}
	category, err := h.catalog.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, category)
}

// EditCategory handles PUT /product/category/:category_id.
func (h *ProductHandler) EditCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}
	category, err := h.catalog.UpdateCategory(c.UserContext(), c.Params("category_id"), req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, category)
}

// DeleteCategory handles DELETE /product/category/:category_id.
func (h *ProductHandler) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("category_id")
	if err := h.catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"id": id})
}

func parseProduct(c *fiber.Ctx) (service.ProductInput, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ProductInput{}, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return service.ProductInput{}, fiber.NewError(http.StatusBadRequest, "name required")
	}
	if req.Price < 0 || req.QuantityAvailable < 0 {
		return service.ProductInput{}, fiber.NewError(http.StatusBadRequest, "price and quantity must not be negative")
	}
	return service.ProductInput{
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		QuantityAvailable: req.QuantityAvailable,
		CategoryID:        req.CategoryID,
	}, nil
}
