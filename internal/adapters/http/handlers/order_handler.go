package handlers

import (
	"errors"
	"strconv"

	"hemplife-wholesale/internal/adapters/http/middleware"
	"hemplife-wholesale/internal/core/domain"
	"hemplife-wholesale/internal/core/services"
	"hemplife-wholesale/internal/pkg/pagination"
	"hemplife-wholesale/internal/pkg/response"
	"hemplife-wholesale/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderStatusRequest represents an admin status change body
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Place creates an order for the current member
// @Summary Place order
// @Description Submit a wholesale order for review
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PlaceOrderInput true "Order data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req services.PlaceOrderInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	order, err := h.orderService.Place(c.Context(), principal.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotActive):
			return response.Forbidden(c, "Membership is not active")
		case errors.Is(err, services.ErrShipStateRestricted):
			return response.Compliance(c, "We cannot ship to the destination state")
		case errors.Is(err, services.ErrEmptyOrder):
			return response.BadRequest(c, "Order must contain at least one item")
		case errors.Is(err, services.ErrProductUnavailable):
			return response.BadRequest(c, "One or more products are not available")
		default:
			return response.InternalServerError(c, "Failed to place order")
		}
	}

	return response.Created(c, "Order submitted for review", fiber.Map{
		"order": order,
	})
}

// List returns the principal's orders
// @Summary List orders
// @Description Members see their own orders, admins see all with filters
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (admin)"
// @Param search query string false "Search order number or member (admin)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	params := pagination.GetParams(c)
	status := domain.OrderStatus(c.Query("status"))

	orders, total, err := h.orderService.List(c.Context(), principal, status, params.Search, params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrderStatus) {
			return response.BadRequest(c, "Unknown order status")
		}
		return response.InternalServerError(c, "Failed to list orders")
	}

	return response.Success(c, "Orders retrieved successfully", pagination.NewResponse(orders, params, total))
}

// Get returns one order
// @Summary Get order
// @Description Get an order by id; members can only read their own
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	order, err := h.orderService.Get(c.Context(), principal, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to get order")
	}

	return response.Success(c, "Order retrieved successfully", fiber.Map{
		"order": order,
	})
}

// ChangeStatus moves an order along the fulfillment chain
// @Summary Change order status
// @Description Advance an order or cancel it
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param body body OrderStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	var req OrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	order, err := h.orderService.ChangeStatus(c.Context(), uint(id), domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return response.NotFound(c, "Order not found")
		case errors.Is(err, services.ErrInvalidOrderStatus):
			return response.BadRequest(c, "Unknown order status")
		case errors.Is(err, services.ErrIllegalOrderMove):
			return response.BadRequest(c, "Status change is not allowed from the current status")
		default:
			return response.InternalServerError(c, "Failed to change order status")
		}
	}

	return response.Success(c, "Order status updated", fiber.Map{
		"order": order,
	})
}

// Cancel cancels the member's own pending order
// @Summary Cancel own order
// @Description Cancel an order that is still pending review
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id}/cancel [patch]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	// An admin principal id is not a member id; admins cancel through
	// the status endpoint
	if principal.IsAdmin() {
		return response.NotFound(c, "Order not found or cannot be canceled")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	if err := h.orderService.CancelOwn(c.Context(), uint(id), principal.ID); err != nil {
		if errors.Is(err, services.ErrCannotCancel) {
			return response.NotFound(c, "Order not found or cannot be canceled")
		}
		return response.InternalServerError(c, "Failed to cancel order")
	}

	return response.Success(c, "Order canceled", nil)
}
