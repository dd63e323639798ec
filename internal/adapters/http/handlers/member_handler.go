package handlers

import (
	"errors"
	"strconv"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/core/domain"
	"hemplife-wholesale/internal/core/services"
	"hemplife-wholesale/internal/pkg/pagination"
	"hemplife-wholesale/internal/pkg/response"
	"hemplife-wholesale/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles membership endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// StatusChangeRequest represents a status change request body
type StatusChangeRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

// Apply handles a wholesale application
// @Summary Submit wholesale application
// @Description Apply for a wholesale account with a valid invite code
// @Tags Members
// @Accept json
// @Produce json
// @Param body body services.ApplyInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /members/apply [post]
func (h *MemberHandler) Apply(c *fiber.Ctx) error {
	var req services.ApplyInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	member, err := h.memberService.Apply(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStateRestricted):
			return response.Compliance(c, "We cannot serve wholesale accounts in your state")
		case errors.Is(err, services.ErrInviteUnavailable):
			return response.Conflict(c, "Invite code is invalid or already used")
		case errors.Is(err, services.ErrEmailTaken):
			return response.Conflict(c, "Email is already registered")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Application submitted, pending review", fiber.Map{
		"member": member.ToResponse(),
	})
}

// List lists members for admins
// @Summary List members
// @Description List members with optional status filter and search
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param search query string false "Search name, email or business"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := domain.MemberStatus(c.Query("status"))

	members, total, err := h.memberService.List(c.Context(), status, params.Search, params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return response.BadRequest(c, "Unknown member status")
		}
		return response.InternalServerError(c, "Failed to list members")
	}

	out := make([]*models.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, m.ToResponse())
	}

	return response.Success(c, "Members retrieved successfully", pagination.NewResponse(out, params, total))
}

// Get returns one member for admins
// @Summary Get member
// @Description Get a member by id
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member id")
	}

	member, err := h.memberService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// ChangeStatus moves a member through the approval workflow
// @Summary Change member status
// @Description Approve, deny, suspend, reactivate or cancel a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body StatusChangeRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/status [patch]
func (h *MemberHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member id")
	}

	var req StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	member, err := h.memberService.ChangeStatus(c.Context(), uint(id), domain.MemberStatus(req.Status), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, "Unknown member status")
		case errors.Is(err, services.ErrIllegalTransition):
			return response.BadRequest(c, "Status change is not allowed from the current status")
		default:
			return response.InternalServerError(c, "Failed to change member status")
		}
	}

	return response.Success(c, "Member status updated", fiber.Map{
		"member": member.ToResponse(),
	})
}

// Delete removes a member
// @Summary Delete member
// @Description Remove a member account
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [delete]
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member id")
	}

	if err := h.memberService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to delete member")
	}

	return response.Success(c, "Member deleted", nil)
}
