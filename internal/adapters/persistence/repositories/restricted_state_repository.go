package repositories

import (
	"context"
	"strings"

	"hemplife-wholesale/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// restrictedStateRepository implements RestrictedStateRepository interface
type restrictedStateRepository struct {
	db *gorm.DB
}

// NewRestrictedStateRepository creates a new restricted state repository
func NewRestrictedStateRepository(db *gorm.DB) RestrictedStateRepository {
	return &restrictedStateRepository{db: db}
}

// IsRestricted checks whether a state code is on the restricted list
func (r *restrictedStateRepository) IsRestricted(ctx context.Context, stateCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RestrictedState{}).
		Where("state_code = ?", strings.ToUpper(stateCode)).
		Count(&count).Error
	return count > 0, err
}

// ListAll returns all restricted states
func (r *restrictedStateRepository) ListAll(ctx context.Context) ([]*models.RestrictedState, error) {
	var states []*models.RestrictedState
	err := r.db.WithContext(ctx).Order("state_code ASC").Find(&states).Error
	return states, err
}

// Upsert inserts or leaves an existing restricted state untouched
func (r *restrictedStateRepository) Upsert(ctx context.Context, state *models.RestrictedState) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(state).Error
}
