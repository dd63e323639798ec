package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMemberEnv(t *testing.T) (*MemberService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	svc := NewMemberService(
		repositories.NewMemberRepository(db),
		repositories.NewRestrictedStateRepository(db),
		NewInviteService(repositories.NewInviteRepository(db)),
		nil,
	)
	return svc, db
}

func applyInput(email, inviteCode string) *ApplyInput {
	return &ApplyInput{
		FullName:      "Jordan Greene",
		Email:         email,
		Password:      "longenough",
		BusinessName:  "Greene Distribution",
		ShippingState: "tn",
		InviteCode:    inviteCode,
	}
}

func TestApply(t *testing.T) {
	svc, db := newMemberEnv(t)
	seedInvite(t, db, "HLF-INV-1234", domain.InviteAvailable)

	member, err := svc.Apply(testCtx(), applyInput("Jordan@Example.com", "hlf-inv-1234"))
	require.NoError(t, err)

	assert.Equal(t, domain.MemberPending, member.Status)
	assert.Equal(t, "jordan@example.com", member.Email)
	assert.Equal(t, "TN", member.ShippingState)
	assert.Equal(t, "HLF-INV-1234", member.InviteCodeUsed)
	assert.True(t, strings.HasPrefix(member.PersonalRefCode, "HLF-INV-"))
	assert.Nil(t, member.ApprovedAt)
	assert.False(t, member.MonthlyActive)

	// Redemption happened in the same transaction
	var invite models.InviteCode
	require.NoError(t, db.Where("code = ?", "HLF-INV-1234").First(&invite).Error)
	assert.Equal(t, domain.InviteUsed, invite.Status)
	require.NotNil(t, invite.UsedBy)
	assert.Equal(t, member.ID, *invite.UsedBy)
	assert.NotNil(t, invite.UsedAt)
}

func TestApplyEmailTaken(t *testing.T) {
	svc, db := newMemberEnv(t)
	seedInvite(t, db, "HLF-INV-0001", domain.InviteAvailable)
	seedInvite(t, db, "HLF-INV-0002", domain.InviteAvailable)

	_, err := svc.Apply(testCtx(), applyInput("dup@example.com", "HLF-INV-0001"))
	require.NoError(t, err)

	_, err = svc.Apply(testCtx(), applyInput("dup@example.com", "HLF-INV-0002"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	// The second code was never consumed
	var invite models.InviteCode
	require.NoError(t, db.Where("code = ?", "HLF-INV-0002").First(&invite).Error)
	assert.Equal(t, domain.InviteAvailable, invite.Status)
}

func TestApplyRestrictedState(t *testing.T) {
	svc, db := newMemberEnv(t)
	seedInvite(t, db, "HLF-INV-0001", domain.InviteAvailable)
	seedRestrictedState(t, db, "OR")

	input := applyInput("portland@example.com", "HLF-INV-0001")
	input.ShippingState = "or"

	_, err := svc.Apply(testCtx(), input)
	assert.ErrorIs(t, err, ErrStateRestricted)

	var count int64
	require.NoError(t, db.Model(&models.Member{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyInviteUnavailable(t *testing.T) {
	svc, db := newMemberEnv(t)
	seedInvite(t, db, "HLF-INV-0001", domain.InviteUsed)

	_, err := svc.Apply(testCtx(), applyInput("late@example.com", "HLF-INV-0001"))
	assert.ErrorIs(t, err, ErrInviteUnavailable)

	_, err = svc.Apply(testCtx(), applyInput("lost@example.com", "HLF-INV-9999"))
	assert.ErrorIs(t, err, ErrInviteUnavailable)
}

// racingMemberRepo consumes the invite code right before the insert,
// like a concurrent application winning the code first.
type racingMemberRepo struct {
	repositories.MemberRepository
	db *gorm.DB
}

func (r *racingMemberRepo) CreateWithInvite(ctx context.Context, member *models.Member, inviteCode string) error {
	r.db.Model(&models.InviteCode{}).
		Where("code = ?", inviteCode).
		Update("status", domain.InviteUsed)
	return r.MemberRepository.CreateWithInvite(ctx, member, inviteCode)
}

func TestApplyLosesInviteRace(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(
		&racingMemberRepo{MemberRepository: repositories.NewMemberRepository(db), db: db},
		repositories.NewRestrictedStateRepository(db),
		NewInviteService(repositories.NewInviteRepository(db)),
		nil,
	)
	seedInvite(t, db, "HLF-INV-0001", domain.InviteAvailable)

	_, err := svc.Apply(testCtx(), applyInput("loser@example.com", "HLF-INV-0001"))
	assert.ErrorIs(t, err, ErrInviteUnavailable)

	// The member insert rolled back with the failed redemption
	var count int64
	require.NoError(t, db.Model(&models.Member{}).Count(&count).Error)
	assert.Zero(t, count)
}

// recordingSender captures outbound emails for assertions
type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) Send(to, subject, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+" "+subject)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func TestReinstatementNotifiesMember(t *testing.T) {
	db := newTestDB(t)
	sender := &recordingSender{}
	notify := NewNotificationService(
		sender,
		repositories.NewNotificationLogRepository(db),
		repositories.NewAdminRepository(db),
	)
	svc := NewMemberService(
		repositories.NewMemberRepository(db),
		repositories.NewRestrictedStateRepository(db),
		NewInviteService(repositories.NewInviteRepository(db)),
		notify,
	)
	member := seedMember(t, db, "grower@example.com", domain.MemberPending)

	_, err := svc.ChangeStatus(testCtx(), member.ID, domain.MemberActive, "")
	require.NoError(t, err)
	_, err = svc.ChangeStatus(testCtx(), member.ID, domain.MemberSuspended, "late payment")
	require.NoError(t, err)

	// Coming back from suspension mails the member again
	_, err = svc.ChangeStatus(testCtx(), member.ID, domain.MemberActive, "")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return sender.count() == 2
	}, 2*time.Second, 10*time.Millisecond)
	for _, line := range sender.lines() {
		assert.Contains(t, line, member.Email)
	}

	// Every attempt lands in the notification log
	assert.Eventually(t, func() bool {
		entries, err := notify.RecentLog(testCtx(), 10)
		return err == nil && len(entries) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMemberStatusFlow(t *testing.T) {
	svc, db := newMemberEnv(t)
	member := seedMember(t, db, "applicant@example.com", domain.MemberPending)

	// Approval stamps ApprovedAt and enables transacting
	approved, err := svc.ChangeStatus(testCtx(), member.ID, domain.MemberActive, "")
	require.NoError(t, err)
	assert.True(t, approved.MonthlyActive)
	require.NotNil(t, approved.ApprovedAt)
	firstApproval := *approved.ApprovedAt

	// Suspension turns the flag off
	suspended, err := svc.ChangeStatus(testCtx(), member.ID, domain.MemberSuspended, "late payment")
	require.NoError(t, err)
	assert.False(t, suspended.MonthlyActive)
	assert.Equal(t, "late payment", suspended.StatusReason)

	// Reactivation keeps the original approval timestamp
	reactivated, err := svc.ChangeStatus(testCtx(), member.ID, domain.MemberActive, "")
	require.NoError(t, err)
	assert.True(t, reactivated.MonthlyActive)
	require.NotNil(t, reactivated.ApprovedAt)
	assert.Equal(t, firstApproval.Unix(), reactivated.ApprovedAt.Unix())

	// Canceled is terminal
	_, err = svc.ChangeStatus(testCtx(), member.ID, domain.MemberCanceled, "closed shop")
	require.NoError(t, err)
	_, err = svc.ChangeStatus(testCtx(), member.ID, domain.MemberActive, "")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestMemberStatusIllegalMoves(t *testing.T) {
	svc, db := newMemberEnv(t)
	member := seedMember(t, db, "applicant@example.com", domain.MemberPending)

	// Pending can only be approved or denied
	_, err := svc.ChangeStatus(testCtx(), member.ID, domain.MemberSuspended, "")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = svc.ChangeStatus(testCtx(), member.ID, domain.MemberStatus("frozen"), "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.ChangeStatus(testCtx(), 9999, domain.MemberActive, "")
	assert.ErrorIs(t, err, ErrMemberNotFound)

	// Denied is terminal
	_, err = svc.ChangeStatus(testCtx(), member.ID, domain.MemberDenied, "no license")
	require.NoError(t, err)
	_, err = svc.ChangeStatus(testCtx(), member.ID, domain.MemberActive, "")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestMemberListFilters(t *testing.T) {
	svc, db := newMemberEnv(t)
	seedMember(t, db, "a@example.com", domain.MemberPending)
	active := seedMember(t, db, "b@example.com", domain.MemberActive)
	require.NoError(t, db.Model(active).Update("business_name", "Blue Ridge Hemp").Error)

	pending, total, err := svc.List(testCtx(), domain.MemberPending, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, "a@example.com", pending[0].Email)

	found, total, err := svc.List(testCtx(), "", "blue ridge", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, active.ID, found[0].ID)

	_, _, err = svc.List(testCtx(), domain.MemberStatus("bogus"), "", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
