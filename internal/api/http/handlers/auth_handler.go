package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendant-desk/internal/api/dto"
	"github.com/spec-kit/attendant-desk/internal/auth"
	"github.com/spec-kit/attendant-desk/internal/service"
)

// AuthHandler exposes the JSON auth endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	cookie SessionCookie
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	attendant, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Sector: req.Sector,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"attendant": dto.NewAttendantResponse(attendant)},
	})
}

// Login handles POST /api/auth/login. The token is returned and also set
// as the session cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	attendant, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.cookie.set(c, token, exp)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"attendant": dto.NewAttendantResponse(attendant),
			"auth":      dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if ok {
		if err := h.auth.Logout(c.UserContext(), principal.Claims); err != nil {
			return err
		}
	}
	h.cookie.clear(c)
	return c.SendStatus(http.StatusNoContent)
}
