package handlers

import (
	"errors"

	"hemplife-wholesale/internal/adapters/http/middleware"
	"hemplife-wholesale/internal/core/services"
	"hemplife-wholesale/internal/pkg/response"
	"hemplife-wholesale/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles login for admins and members
// @Summary Login
// @Description Authenticate an admin or member and issue a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, services.ErrApplicationPending):
			return response.Forbidden(c, "Your application is still under review")
		case errors.Is(err, services.ErrApplicationDenied):
			return response.Forbidden(c, "Your application was not approved")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.Principal,
	})
}

// Logout handles logout
// @Summary Logout
// @Description Destroy the current session. Safe to repeat.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	if token != "" {
		_ = h.authService.Logout(c.Context(), token)
	}
	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the current principal
// @Summary Get current user
// @Description Get the currently authenticated admin or member
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": principal,
	})
}
