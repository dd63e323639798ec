package repositories

import (
	"context"
	"fmt"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/core/domain"

	"gorm.io/gorm"
)

// OrderRepository handles order-related database operations
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ============================================================
// Order Creation
// ============================================================

// CreateWithItems assigns the next order number and persists the order
// with its item snapshots in one transaction. The counter row is bumped
// with a relative UPDATE so concurrent placements never share a number.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderCounter{}).
			Where("name = ?", models.OrderCounterName).
			Update("value", gorm.Expr("value + 1")).Error; err != nil {
			return err
		}

		var counter models.OrderCounter
		if err := tx.Where("name = ?", models.OrderCounterName).First(&counter).Error; err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("HLF-%04d", counter.Value)

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

// EnsureCounter creates the counter row if it does not exist yet
func (r *OrderRepository) EnsureCounter(ctx context.Context) error {
	var counter models.OrderCounter
	err := r.db.WithContext(ctx).Where("name = ?", models.OrderCounterName).First(&counter).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(&models.OrderCounter{Name: models.OrderCounterName}).Error
	}
	return err
}

// ============================================================
// Order Queries
// ============================================================

// GetByID returns an order with its items and member
func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Member").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByMember returns a member's own orders, newest first
func (r *OrderRepository) ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("member_id = ?", memberID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// ListAll returns all orders with optional status filter and search over
// order number or member name, newest first
func (r *OrderRepository) ListAll(ctx context.Context, status domain.OrderStatus, search string, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Joins("JOIN members ON members.id = orders.member_id")
	if status != "" {
		query = query.Where("orders.status = ?", status)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"LOWER(orders.order_number) LIKE LOWER(?) OR LOWER(members.full_name) LIKE LOWER(?) OR LOWER(members.business_name) LIKE LOWER(?)",
			like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items").
		Preload("Member").
		Order("orders.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// CountByStatus returns order counts grouped by status
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	type result struct {
		Status domain.OrderStatus
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.OrderStatus]int64)
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}

// SumRevenue returns the total of all non-canceled orders
func (r *OrderRepository) SumRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("status <> ?", domain.OrderCanceled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	return revenue, err
}

// ============================================================
// Status Updates
// ============================================================

// UpdateStatus applies a status change plus timestamp stamps
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// CancelOwn cancels a member's own order only while it is still pending
// review. The conditional WHERE keeps the check and the write atomic;
// zero rows means the order does not exist, belongs to someone else, or
// has already progressed, and the caller cannot tell which.
func (r *OrderRepository) CancelOwn(ctx context.Context, orderID, memberID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND member_id = ? AND status = ?", orderID, memberID, domain.OrderPendingReview).
		Update("status", domain.OrderCanceled)
	return result.RowsAffected, result.Error
}
