package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bazaarhq/marketplace/internal/api/dto"
	"github.com/bazaarhq/marketplace/internal/service"
)

// WishlistHandler exposes the calling user's wishlists.
type WishlistHandler struct {
	wishlists *service.WishlistService
}

// NewWishlistHandler constructs handler.
func NewWishlistHandler(wishlists *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

// List handles GET /wishlist.
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	lists, err := h.wishlists.List(c.UserContext(), callerID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, lists)
}

// Get handles GET /wishlist/:id.
func (h *WishlistHandler) Get(c *fiber.Ctx) error {
	w, err := h.wishlists.Get(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, w)
}

// Create handles POST /wishlist.
func (h *WishlistHandler) Create(c *fiber.Ctx) error {
	var req dto.WishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	w, err := h.wishlists.Create(c.UserContext(), callerID(c), req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, w)
}

// Rename handles PUT /wishlist/:id.
func (h *WishlistHandler) Rename(c *fiber.Ctx) error {
	var req dto.WishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	w, err := h.wishlists.Rename(c.UserContext(), callerID(c), c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, w)
}

// Delete handles DELETE /wishlist/:id.
func (h *WishlistHandler) Delete(c *fiber.Ctx) error {
	w, err := h.wishlists.Delete(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, w)
}

// AddProduct handles POST /wishlist/add.
func (h *WishlistHandler) AddProduct(c *fiber.Ctx) error {
	var req dto.AddWishlistProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.WishlistID == "" || req.ProductID == "" {
		return fiber.NewError(http.StatusBadRequest, "wishlist_id and product_id required")
	}
	detail, err := h.wishlists.AddProduct(c.UserContext(), callerID(c), req.WishlistID, req.ProductID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, detail)
}

// RemoveProduct handles DELETE /wishlist/remove.
func (h *WishlistHandler) RemoveProduct(c *fiber.Ctx) error {
	var req dto.RemoveWishlistProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ID == "" {
		return fiber.NewError(http.StatusBadRequest, "id required")
	}
	detail, err := h.wishlists.RemoveProduct(c.UserContext(), callerID(c), req.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, detail)
}
