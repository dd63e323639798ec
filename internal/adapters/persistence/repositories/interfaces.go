package repositories

import (
	"context"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/core/domain"
)

// MemberRepository defines member repository interface
type MemberRepository interface {
	// CreateWithInvite creates the member and redeems the invite code in
	// one transaction. Returns ErrCodeUnavailable if the code was taken
	// by a concurrent application.
	CreateWithInvite(ctx context.Context, member *models.Member, inviteCode string) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, status domain.MemberStatus, search string, offset, limit int) ([]*models.Member, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRefCode(ctx context.Context, code string) (bool, error)
	CountByStatus(ctx context.Context) (map[domain.MemberStatus]int64, error)
}

// AdminRepository defines admin repository interface
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListEmails(ctx context.Context) ([]string, error)
}

// SessionRepository defines session repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// InviteRepository defines invite code repository interface
type InviteRepository interface {
	CreateBatch(ctx context.Context, codes []*models.InviteCode) (int64, error)
	Create(ctx context.Context, code *models.InviteCode) error
	GetByCode(ctx context.Context, code string) (*models.InviteCode, error)
	ListAll(ctx context.Context) ([]*models.InviteCode, error)
	ListByCreator(ctx context.Context, memberID uint) ([]*models.InviteCode, error)
	CountByStatus(ctx context.Context) (map[domain.InviteStatus]int64, error)
}

// ProductRepository defines product repository interface
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	ListActiveCompliant(ctx context.Context) ([]*models.Product, error)
	ListFeatured(ctx context.Context) ([]*models.Product, error)
	ListAll(ctx context.Context) ([]*models.Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}

// RestrictedStateRepository defines restricted state repository interface
type RestrictedStateRepository interface {
	IsRestricted(ctx context.Context, stateCode string) (bool, error)
	ListAll(ctx context.Context) ([]*models.RestrictedState, error)
	Upsert(ctx context.Context, state *models.RestrictedState) error
}

// NotificationLogRepository defines notification log repository interface
type NotificationLogRepository interface {
	Create(ctx context.Context, entry *models.NotificationLog) error
	ListRecent(ctx context.Context, limit int) ([]*models.NotificationLog, error)
}
