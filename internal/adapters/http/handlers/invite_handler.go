package handlers

import (
	"errors"

	"hemplife-wholesale/internal/adapters/http/middleware"
	"hemplife-wholesale/internal/core/services"
	"hemplife-wholesale/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InviteHandler handles invite code endpoints
type InviteHandler struct {
	inviteService *services.InviteService
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// GenerateRequest represents an admin batch generation request
type GenerateRequest struct {
	Quantity int `json:"quantity"`
}

// Generate creates a batch of admin invite codes
// @Summary Generate invite codes
// @Description Create up to 50 invite codes in one batch
// @Tags Invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateRequest true "Batch size"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /invites/generate [post]
func (h *InviteHandler) Generate(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	codes, err := h.inviteService.GenerateAdminCodes(c.Context(), req.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrTooManyInvites) {
			return response.BadRequest(c, "At most 50 codes per batch")
		}
		return response.InternalServerError(c, "Failed to generate invite codes")
	}

	return response.Created(c, "Invite codes generated", fiber.Map{
		"codes": codes,
		"count": len(codes),
	})
}

// MemberGenerate creates a referral code for the current member
// @Summary Generate referral code
// @Description Create an invite code attributed to the current member
// @Tags Invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /invites/member-generate [post]
func (h *InviteHandler) MemberGenerate(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	code, err := h.inviteService.GenerateMemberCode(c.Context(), principal.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate referral code")
	}

	return response.Created(c, "Referral code generated", fiber.Map{
		"code": code,
	})
}

// List returns invite codes visible to the principal
// @Summary List invite codes
// @Description Admins see all codes, members see their own
// @Tags Invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /invites [get]
func (h *InviteHandler) List(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	codes, err := h.inviteService.List(c.Context(), principal)
	if err != nil {
		return response.InternalServerError(c, "Failed to list invite codes")
	}

	return response.Success(c, "Invite codes retrieved successfully", fiber.Map{
		"codes": codes,
	})
}

// Validate checks whether a code can be redeemed
// @Summary Validate invite code
// @Description Public check used by the application form
// @Tags Invites
// @Accept json
// @Produce json
// @Param code path string true "Invite code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /invites/validate/{code} [get]
func (h *InviteHandler) Validate(c *fiber.Ctx) error {
	code := c.Params("code")

	invite, err := h.inviteService.Validate(c.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInviteNotFound):
			return response.NotFound(c, "Invite code not found")
		case errors.Is(err, services.ErrInviteUsed):
			return response.Conflict(c, "Invite code has already been used")
		default:
			return response.InternalServerError(c, "Failed to validate invite code")
		}
	}

	return response.Success(c, "Invite code is valid", fiber.Map{
		"code":   invite.Code,
		"status": invite.Status,
	})
}
