package handlers

import (
	"strconv"

	"hemplife-wholesale/internal/core/services"
	"hemplife-wholesale/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	notifyService    *services.NotificationService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, notifyService *services.NotificationService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		notifyService:    notifyService,
	}
}

// GetStats returns the admin overview
// @Summary Admin dashboard
// @Description Member, order and invite counts by status plus total revenue
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", stats)
}

// Notifications returns recent email delivery attempts
// @Summary Notification log
// @Description Recent outbound email attempts and their outcomes
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 50)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/notifications [get]
func (h *DashboardHandler) Notifications(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	entries, err := h.notifyService.RecentLog(c.Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to get notification log")
	}

	return response.Success(c, "Notification log retrieved successfully", fiber.Map{
		"notifications": entries,
	})
}
