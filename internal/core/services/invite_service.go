package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"

	"gorm.io/gorm"
)

// Invite errors
var (
	ErrInviteNotFound   = errors.New("invite code not found")
	ErrInviteUsed       = errors.New("invite code already used")
	ErrTooManyInvites   = errors.New("too many invite codes requested")
	ErrInviteGeneration = errors.New("could not generate a unique invite code")
)

const (
	invitePrefix   = "HLF-INV-"
	maxInviteBatch = 50
	inviteRetryCap = 20
)

// InviteService handles invite code business logic
type InviteService struct {
	inviteRepo repositories.InviteRepository
}

// NewInviteService creates a new invite service
func NewInviteService(inviteRepo repositories.InviteRepository) *InviteService {
	return &InviteService{inviteRepo: inviteRepo}
}

// GenerateAdminCodes creates up to qty admin-issued codes. Collisions
// with existing codes are skipped rather than retried, so the returned
// slice may be shorter than requested.
func (s *InviteService) GenerateAdminCodes(ctx context.Context, qty int) ([]*models.InviteCode, error) {
	if qty < 1 {
		qty = 1
	}
	if qty > maxInviteBatch {
		return nil, ErrTooManyInvites
	}

	codes := make([]*models.InviteCode, 0, qty)
	seen := make(map[string]bool, qty)
	for len(codes) < qty {
		code, err := randomCode()
		if err != nil {
			return nil, err
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, &models.InviteCode{
			Code:           code,
			Status:         domain.InviteAvailable,
			CreatedByAdmin: true,
		})
	}

	inserted, err := s.inviteRepo.CreateBatch(ctx, codes)
	if err != nil {
		return nil, err
	}

	log.Printf("Generated %d invite codes (requested %d)", inserted, qty)

	// Drop the ones the database skipped as duplicates
	if int(inserted) < len(codes) {
		kept := make([]*models.InviteCode, 0, inserted)
		for _, c := range codes {
			if c.ID != 0 {
				kept = append(kept, c)
			}
		}
		return kept, nil
	}
	return codes, nil
}

// GenerateMemberCode creates a single referral code attributed to a
// member, retrying on collision.
func (s *InviteService) GenerateMemberCode(ctx context.Context, memberID uint) (*models.InviteCode, error) {
	for i := 0; i < inviteRetryCap; i++ {
		code, err := randomCode()
		if err != nil {
			return nil, err
		}

		invite := &models.InviteCode{
			Code:           code,
			Status:         domain.InviteAvailable,
			CreatedByAdmin: false,
			CreatedBy:      &memberID,
		}
		if err := s.inviteRepo.Create(ctx, invite); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, err
		}
		return invite, nil
	}
	return nil, ErrInviteGeneration
}

// Validate checks whether a code can still be redeemed. Comparison is
// case-insensitive; codes are stored upper-case.
func (s *InviteService) Validate(ctx context.Context, code string) (*models.InviteCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	invite, err := s.inviteRepo.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	if invite.Status != domain.InviteAvailable {
		return nil, ErrInviteUsed
	}
	return invite, nil
}

// List returns all codes for admins, or the principal's own codes
func (s *InviteService) List(ctx context.Context, principal *domain.Principal) ([]*models.InviteCode, error) {
	if principal.IsAdmin() {
		return s.inviteRepo.ListAll(ctx)
	}
	return s.inviteRepo.ListByCreator(ctx, principal.ID)
}

// randomCode builds HLF-INV- plus a 4-digit suffix
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", invitePrefix, n.Int64()), nil
}
