package middleware

import (
	"strings"

	"hemplife-wholesale/internal/core/domain"
	"hemplife-wholesale/internal/core/services"
	"hemplife-wholesale/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// bearerToken extracts the bearer token from the Authorization header
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware resolves the bearer token against the session store
// and puts the principal in the request context
func AuthMiddleware(sessionService *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		principal, err := sessionService.Validate(c.Context(), token)
		if err != nil {
			if err == services.ErrSessionExpired {
				return response.Unauthorized(c, "Session expired, please log in again")
			}
			return response.Unauthorized(c, "Invalid session")
		}

		c.Locals("principal", principal)
		c.Locals("token", token)

		return c.Next()
	}
}

// Principal returns the authenticated principal set by AuthMiddleware
func Principal(c *fiber.Ctx) (*domain.Principal, bool) {
	principal, ok := c.Locals("principal").(*domain.Principal)
	return principal, ok
}

// AdminOnly allows only admin principals
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := Principal(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if !principal.IsAdmin() {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

// ActiveMemberOnly allows only members whose application has been
// approved and not suspended or canceled since. Admins are not members
// and are rejected here.
func ActiveMemberOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := Principal(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if principal.IsAdmin() {
			return response.Forbidden(c, "This operation is for members")
		}
		if !principal.IsActiveMember() {
			return response.Forbidden(c, "Membership is not active")
		}
		return c.Next()
	}
}

// OptionalAuth sets the principal when a valid token is present but
// never rejects the request. Used by the public access gate so admins
// bypass the geo check.
func OptionalAuth(sessionService *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token != "" {
			if principal, err := sessionService.Validate(c.Context(), token); err == nil {
				c.Locals("principal", principal)
				c.Locals("token", token)
			}
		}
		return c.Next()
	}
}
