package repositories

import (
	"context"

	"hemplife-wholesale/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// notificationLogRepository implements NotificationLogRepository interface
type notificationLogRepository struct {
	db *gorm.DB
}

// NewNotificationLogRepository creates a new notification log repository
func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

// Create records one outbound notification attempt
func (r *notificationLogRepository) Create(ctx context.Context, entry *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecent returns the newest log entries
func (r *notificationLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.NotificationLog, error) {
	var entries []*models.NotificationLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
