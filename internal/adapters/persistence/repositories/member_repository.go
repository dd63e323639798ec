package repositories

import (
	"context"
	"time"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/core/domain"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// CreateWithInvite creates the member and redeems the invite code in
// one transaction. If another application claimed the code first, the
// conditional update hits zero rows and the whole transaction rolls
// back with ErrCodeUnavailable.
func (r *memberRepository) CreateWithInvite(ctx context.Context, member *models.Member, inviteCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		now := time.Now()
		result := tx.Model(&models.InviteCode{}).
			Where("code = ? AND status = ?", inviteCode, domain.InviteAvailable).
			Updates(map[string]interface{}{
				"status":  domain.InviteUsed,
				"used_by": member.ID,
				"used_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCodeUnavailable
		}
		return nil
	})
}

// GetByID gets a member by ID
func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByEmail gets a member by email
func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update updates a member
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete soft deletes a member
func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Member{}, id).Error
}

// List lists members with optional status filter and search, paginated.
// Search matches name, email and business name case-insensitively.
func (r *memberRepository) List(ctx context.Context, status domain.MemberStatus, search string, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Member{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"LOWER(full_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(business_name) LIKE LOWER(?)",
			like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("applied_at DESC").Offset(offset).Limit(limit).Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// ExistsByEmail checks if email exists
func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByRefCode checks if a personal referral code exists
func (r *memberRepository) ExistsByRefCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("personal_ref_code = ?", code).Count(&count).Error
	return count > 0, err
}

// CountByStatus returns member counts grouped by status
func (r *memberRepository) CountByStatus(ctx context.Context) (map[domain.MemberStatus]int64, error) {
	type result struct {
		Status domain.MemberStatus
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&models.Member{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.MemberStatus]int64)
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}
