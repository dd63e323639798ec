package repositories

import (
	"context"
	"errors"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCodeUnavailable is returned when an invite code redemption races
// with another application and loses.
var ErrCodeUnavailable = errors.New("invite code unavailable")

// inviteRepository implements InviteRepository interface
type inviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

// CreateBatch inserts codes, silently skipping duplicates. Returns how
// many rows were actually inserted.
func (r *inviteRepository) CreateBatch(ctx context.Context, codes []*models.InviteCode) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&codes)
	return result.RowsAffected, result.Error
}

// Create creates a single invite code
func (r *inviteRepository) Create(ctx context.Context, code *models.InviteCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// GetByCode gets an invite code by its code string
func (r *inviteRepository) GetByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	var invite models.InviteCode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListAll returns every invite code, newest first
func (r *inviteRepository) ListAll(ctx context.Context) ([]*models.InviteCode, error) {
	var codes []*models.InviteCode
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&codes).Error
	return codes, err
}

// ListByCreator returns codes generated by one member
func (r *inviteRepository) ListByCreator(ctx context.Context, memberID uint) ([]*models.InviteCode, error) {
	var codes []*models.InviteCode
	err := r.db.WithContext(ctx).
		Where("created_by = ?", memberID).
		Order("created_at DESC").
		Find(&codes).Error
	return codes, err
}

// CountByStatus returns invite code counts grouped by status
func (r *inviteRepository) CountByStatus(ctx context.Context) (map[domain.InviteStatus]int64, error) {
	type result struct {
		Status domain.InviteStatus
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&models.InviteCode{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.InviteStatus]int64)
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}
