package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"
)

// Order errors
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrMemberNotActive     = errors.New("membership is not active")
	ErrShipStateRestricted = errors.New("cannot ship to a restricted state")
	ErrEmptyOrder          = errors.New("order has no items")
	ErrProductUnavailable  = errors.New("product is not available")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrIllegalOrderMove    = errors.New("illegal order status transition")
	ErrCannotCancel        = errors.New("order not found or cannot be canceled")
)

// OrderService handles order business logic
type OrderService struct {
	orderRepo     *repositories.OrderRepository
	memberRepo    repositories.MemberRepository
	productRepo   repositories.ProductRepository
	stateRepo     repositories.RestrictedStateRepository
	notifyService *NotificationService
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo *repositories.OrderRepository,
	memberRepo repositories.MemberRepository,
	productRepo repositories.ProductRepository,
	stateRepo repositories.RestrictedStateRepository,
	notifyService *NotificationService,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		memberRepo:    memberRepo,
		productRepo:   productRepo,
		stateRepo:     stateRepo,
		notifyService: notifyService,
	}
}

// OrderItemInput represents one line of a new order
type OrderItemInput struct {
	ProductID   uint    `json:"product_id" validate:"required"`
	QuantityLbs float64 `json:"quantity_lbs" validate:"required,gt=0"`
}

// PlaceOrderInput represents a new order
type PlaceOrderInput struct {
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string           `json:"payment_method" validate:"max=30"`
	ShipState     string           `json:"ship_state" validate:"required,len=2"`
	Notes         string           `json:"notes"`
}

// PriceFor resolves the per-lb rate for a quantity. Tiers fall through:
// an order of 10 lb on a product with no 10 lb price still gets the
// 5 lb rate if one is set.
func PriceFor(product *models.Product, quantityLbs float64) float64 {
	if quantityLbs >= 10 && product.Price10Lb != nil {
		return *product.Price10Lb
	}
	if quantityLbs >= 5 && product.Price5Lb != nil {
		return *product.Price5Lb
	}
	return product.PricePerLb
}

// Place creates an order for an active member. Item rows snapshot the
// product so later catalog edits cannot rewrite order history.
func (s *OrderService) Place(ctx context.Context, memberID uint, input *PlaceOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	// 1. Member must be allowed to transact
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, ErrMemberNotActive
	}
	if member.Status != domain.MemberActive {
		return nil, ErrMemberNotActive
	}

	// 2. Destination must not be restricted
	shipState := strings.ToUpper(strings.TrimSpace(input.ShipState))
	restricted, err := s.stateRepo.IsRestricted(ctx, shipState)
	if err != nil {
		return nil, err
	}
	if restricted {
		return nil, ErrShipStateRestricted
	}

	// 3. Price every line against the current catalog
	items := make([]models.OrderItem, 0, len(input.Items))
	var total float64
	for _, line := range input.Items {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, ErrProductUnavailable
		}
		if product.Status != domain.ProductActive || !product.FarmBillCompliant {
			return nil, ErrProductUnavailable
		}

		rate := PriceFor(product, line.QuantityLbs)
		subtotal := rate * line.QuantityLbs
		total += subtotal

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			SKU:         product.SKU,
			ProductName: product.Name,
			QuantityLbs: line.QuantityLbs,
			PricePerLb:  rate,
			Subtotal:    subtotal,
		})
	}

	order := &models.Order{
		MemberID:      memberID,
		Status:        domain.OrderPendingReview,
		PaymentMethod: input.PaymentMethod,
		ShipState:     shipState,
		Notes:         input.Notes,
		Subtotal:      total,
		Total:         total,
	}

	// 4. Number + persist atomically
	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		return nil, err
	}

	log.Printf("Order placed: %s by member %d, total %.2f", order.OrderNumber, memberID, order.Total)

	// 5. Confirmations are best effort
	if s.notifyService != nil {
		go s.notifyService.NotifyOrderSubmitted(order, member)
	}

	return order, nil
}

// Get returns an order, restricted to its owner for members
func (s *OrderService) Get(ctx context.Context, principal *domain.Principal, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if !principal.IsAdmin() && order.MemberID != principal.ID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List returns the principal's orders. Members only ever see their own;
// the status filter and search apply to the admin view.
func (s *OrderService) List(ctx context.Context, principal *domain.Principal, status domain.OrderStatus, search string, offset, limit int) ([]*models.Order, int64, error) {
	if !principal.IsAdmin() {
		return s.orderRepo.ListByMember(ctx, principal.ID, offset, limit)
	}
	if status != "" && !domain.ValidOrderStatus(status) {
		return nil, 0, ErrInvalidOrderStatus
	}
	return s.orderRepo.ListAll(ctx, status, search, offset, limit)
}

// ChangeStatus moves an order along the fulfillment chain. Moves only
// go forward; canceled is reachable from any non-terminal status.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uint, newStatus domain.OrderStatus) (*models.Order, error) {
	if !domain.ValidOrderStatus(newStatus) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if !domain.CanOrderTransition(order.Status, newStatus) {
		return nil, ErrIllegalOrderMove
	}

	now := time.Now()
	updates := map[string]interface{}{"status": newStatus}
	switch newStatus {
	case domain.OrderApproved:
		updates["approved_at"] = now
	case domain.OrderShipped:
		updates["shipped_at"] = now
	case domain.OrderDelivered:
		updates["delivered_at"] = now
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, updates); err != nil {
		return nil, err
	}

	order, err = s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	log.Printf("Order %s status changed to %s", order.OrderNumber, newStatus)

	if s.notifyService != nil && order.Member != nil {
		go s.notifyService.NotifyOrderStatus(order, order.Member)
	}

	return order, nil
}

// CancelOwn lets a member cancel their own order while it is still
// pending review. The single uniform error keeps callers from probing
// which orders exist.
func (s *OrderService) CancelOwn(ctx context.Context, orderID, memberID uint) error {
	rows, err := s.orderRepo.CancelOwn(ctx, orderID, memberID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCannotCancel
	}
	log.Printf("Order %d canceled by member %d", orderID, memberID)
	return nil
}
