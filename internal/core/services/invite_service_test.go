package services

import (
	"strings"
	"testing"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInviteEnv(t *testing.T) (*InviteService, repositories.InviteRepository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := repositories.NewInviteRepository(db)
	return NewInviteService(repo), repo, db
}

func TestGenerateAdminCodes(t *testing.T) {
	svc, _, _ := newInviteEnv(t)

	codes, err := svc.GenerateAdminCodes(testCtx(), 5)
	require.NoError(t, err)
	require.Len(t, codes, 5)

	for _, c := range codes {
		assert.True(t, strings.HasPrefix(c.Code, "HLF-INV-"))
		assert.Equal(t, domain.InviteAvailable, c.Status)
		assert.True(t, c.CreatedByAdmin)
		assert.Nil(t, c.CreatedBy)
	}

	// Zero is bumped to one, over the cap is rejected
	one, err := svc.GenerateAdminCodes(testCtx(), 0)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = svc.GenerateAdminCodes(testCtx(), 51)
	assert.ErrorIs(t, err, ErrTooManyInvites)
}

func TestGenerateMemberCode(t *testing.T) {
	svc, _, db := newInviteEnv(t)
	member := seedMember(t, db, "referrer@example.com", domain.MemberActive)

	code, err := svc.GenerateMemberCode(testCtx(), member.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code.Code, "HLF-INV-"))
	assert.False(t, code.CreatedByAdmin)
	require.NotNil(t, code.CreatedBy)
	assert.Equal(t, member.ID, *code.CreatedBy)

	// Attribution drives the member's own listing
	own, err := svc.List(testCtx(), memberPrincipal(member))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, code.Code, own[0].Code)
}

func TestValidateInvite(t *testing.T) {
	svc, _, db := newInviteEnv(t)
	seedInvite(t, db, "HLF-INV-7777", domain.InviteAvailable)
	seedInvite(t, db, "HLF-INV-8888", domain.InviteUsed)

	// Lookup is case-insensitive
	invite, err := svc.Validate(testCtx(), "  hlf-inv-7777 ")
	require.NoError(t, err)
	assert.Equal(t, "HLF-INV-7777", invite.Code)

	_, err = svc.Validate(testCtx(), "HLF-INV-8888")
	assert.ErrorIs(t, err, ErrInviteUsed)

	_, err = svc.Validate(testCtx(), "HLF-INV-0000")
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestRedeemExactlyOnce(t *testing.T) {
	_, repo, db := newInviteEnv(t)
	memberRepo := repositories.NewMemberRepository(db)
	seedInvite(t, db, "HLF-INV-5555", domain.InviteAvailable)

	applicant := func(email, refCode string) *models.Member {
		return &models.Member{
			FullName:        "Test Farmer",
			Email:           email,
			PasswordHash:    "irrelevant",
			BusinessName:    "Test Farms LLC",
			ShippingState:   "CO",
			Status:          domain.MemberPending,
			PersonalRefCode: refCode,
		}
	}

	winner := applicant("first@example.com", "HLF-INV-W001")
	require.NoError(t, memberRepo.CreateWithInvite(testCtx(), winner, "HLF-INV-5555"))

	// A second application finds no available row and rolls back
	loser := applicant("second@example.com", "HLF-INV-W002")
	err := memberRepo.CreateWithInvite(testCtx(), loser, "HLF-INV-5555")
	require.ErrorIs(t, err, repositories.ErrCodeUnavailable)

	var count int64
	require.NoError(t, db.Model(&models.Member{}).Where("email = ?", "second@example.com").Count(&count).Error)
	assert.Zero(t, count)

	invite, err := repo.GetByCode(testCtx(), "HLF-INV-5555")
	require.NoError(t, err)
	require.NotNil(t, invite.UsedBy)
	assert.Equal(t, winner.ID, *invite.UsedBy)
}
