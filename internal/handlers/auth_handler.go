package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/middleware"
	"github.com/jstyp/storefront-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	clientGuard *middleware.BruteForceProtection
	adminGuard  *middleware.BruteForceProtection
}

func NewAuthHandler(authService *services.AuthService, clientGuard, adminGuard *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{authService: authService, clientGuard: clientGuard, adminGuard: adminGuard}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create account")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.clientGuard.RecordFailure(c)
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return respondError(c, err, "Failed to log in")
	}
	h.clientGuard.RecordSuccess(c)
	return c.JSON(resp)
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.authService.AdminLogin(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.adminGuard.RecordFailure(c)
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		return respondError(c, err, "Failed to log in")
	}
	h.adminGuard.RecordSuccess(c)
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to refresh session")
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return respondError(c, err, "Failed to logout")
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}
