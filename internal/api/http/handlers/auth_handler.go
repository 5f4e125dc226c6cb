package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bazaarhq/marketplace/internal/api/dto"
	"github.com/bazaarhq/marketplace/internal/service"
)

// AuthHandler exposes account and token endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username, email, password required")
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, fiber.Map{"user": user.Identity()})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{
		"user": user.Identity(),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Verify handles POST /auth/verify.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	return h.verify(c, false)
}

// VerifyAdmin handles POST /auth/verify-admin.
func (h *AuthHandler) VerifyAdmin(c *fiber.Ctx) error {
	return h.verify(c, true)
}

func (h *AuthHandler) verify(c *fiber.Ctx, admin bool) error {
	token := tokenFromRequest(c)
	if token == "" {
		return fiber.NewError(http.StatusUnauthorized, "token required")
	}
	user, err := h.auth.Verify(c.UserContext(), token, admin)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"user": user.Identity()})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := tokenFromRequest(c)
	if token == "" {
		return fiber.NewError(http.StatusUnauthorized, "token required")
	}
	if err := h.auth.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"logged_out": true})
}

// tokenFromRequest reads the token from the JSON body, falling back to the bearer header.
func tokenFromRequest(c *fiber.Ctx) string {
	var req dto.TokenRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err == nil && req.Token != "" {
			return req.Token
		}
	}
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.Envelope{Status: status, Data: data})
}
