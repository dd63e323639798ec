package handlers

import (
	"hemplife-wholesale/internal/adapters/http/middleware"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/services"
	"hemplife-wholesale/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccessHandler handles the storefront access gate
type AccessHandler struct {
	geoService *services.GeoService
	stateRepo  repositories.RestrictedStateRepository
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(geoService *services.GeoService, stateRepo repositories.RestrictedStateRepository) *AccessHandler {
	return &AccessHandler{geoService: geoService, stateRepo: stateRepo}
}

// Check returns the advisory geo verdict for the caller's IP
// @Summary Access check
// @Description Advisory check whether the storefront should render for this visitor
// @Tags Access
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /access/check [get]
func (h *AccessHandler) Check(c *fiber.Ctx) error {
	isAdmin := false
	if principal, ok := middleware.Principal(c); ok {
		isAdmin = principal.IsAdmin()
	}

	decision := h.geoService.Check(c.Context(), c.IP(), isAdmin)

	return response.Success(c, "Access check complete", fiber.Map{
		"access": decision,
	})
}

// RestrictedStates lists the states we cannot serve
// @Summary List restricted states
// @Description Public list of states where wholesale accounts and shipping are unavailable
// @Tags Access
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /restricted-states [get]
func (h *AccessHandler) RestrictedStates(c *fiber.Ctx) error {
	states, err := h.stateRepo.ListAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list restricted states")
	}

	return response.Success(c, "Restricted states retrieved successfully", fiber.Map{
		"states": states,
	})
}
