package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bazaarhq/marketplace/internal/api/dto"
	"github.com/bazaarhq/marketplace/internal/authz"
	"github.com/bazaarhq/marketplace/internal/service"
)

// TenantHandler exposes tenant lookup and owner management.
type TenantHandler struct {
	tenants *service.TenantService
}

// NewTenantHandler constructs handler.
func NewTenantHandler(tenants *service.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// Get handles GET /tenant/:tenant_id.
func (h *TenantHandler) Get(c *fiber.Ctx) error {
	rec, err := h.tenants.Get(c.UserContext(), c.Params("tenant_id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rec)
}

// Create handles POST /tenant.
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	rec, err := h.tenants.Create(c.UserContext(), callerID(c), req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, rec)
}

// Edit handles PUT /tenant/:old_tenant_id.
func (h *TenantHandler) Edit(c *fiber.Ctx) error {
	var req dto.EditTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TenantID == "" || req.OwnerID == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "tenant_id, owner_id, name required")
	}

	rec, err := h.tenants.Update(c.UserContext(), callerID(c), c.Params("old_tenant_id"), service.UpdateTenantInput{
		TenantID: req.TenantID,
		OwnerID:  req.OwnerID,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rec)
}

// Delete handles DELETE /tenant.
func (h *TenantHandler) Delete(c *fiber.Ctx) error {
	var req dto.DeleteTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TenantID == "" {
		return fiber.NewError(http.StatusBadRequest, "tenant_id required")
	}

	if err := h.tenants.Delete(c.UserContext(), callerID(c), req.TenantID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"tenant_id": req.TenantID})
}

func callerID(c *fiber.Ctx) string {
	identity, _ := authz.IdentityFromContext(c)
	return identity.UserID()
}
