package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"
	"hemplife-wholesale/internal/pkg/password"

	"gorm.io/gorm"
)

// Member errors
var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrStateRestricted   = errors.New("state is not eligible for wholesale accounts")
	ErrInviteUnavailable = errors.New("invite code is not available")
	ErrInvalidStatus     = errors.New("invalid member status")
	ErrIllegalTransition = errors.New("illegal member status transition")
	ErrRefCodeGeneration = errors.New("could not generate a unique referral code")
)

const refCodePrefix = "HLF-INV-"

// MemberService handles membership business logic
type MemberService struct {
	memberRepo    repositories.MemberRepository
	stateRepo     repositories.RestrictedStateRepository
	inviteService *InviteService
	notifyService *NotificationService
}

// NewMemberService creates a new member service
func NewMemberService(
	memberRepo repositories.MemberRepository,
	stateRepo repositories.RestrictedStateRepository,
	inviteService *InviteService,
	notifyService *NotificationService,
) *MemberService {
	return &MemberService{
		memberRepo:    memberRepo,
		stateRepo:     stateRepo,
		inviteService: inviteService,
		notifyService: notifyService,
	}
}

// ApplyInput represents a wholesale application
type ApplyInput struct {
	FullName       string `json:"full_name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"max=30"`
	Password       string `json:"password" validate:"required,min=8"`
	BusinessName   string `json:"business_name" validate:"required,max=150"`
	BusinessType   string `json:"business_type" validate:"max=50"`
	LicenseNumber  string `json:"license_number" validate:"max=60"`
	EIN            string `json:"ein" validate:"max=20"`
	BillingStreet  string `json:"billing_street" validate:"max=200"`
	BillingCity    string `json:"billing_city" validate:"max=80"`
	BillingState   string `json:"billing_state" validate:"omitempty,len=2"`
	BillingZip     string `json:"billing_zip" validate:"max=12"`
	ShippingStreet string `json:"shipping_street" validate:"max=200"`
	ShippingCity   string `json:"shipping_city" validate:"max=80"`
	ShippingState  string `json:"shipping_state" validate:"required,len=2"`
	ShippingZip    string `json:"shipping_zip" validate:"max=12"`
	HowHeard       string `json:"how_heard" validate:"max=200"`
	InviteCode     string `json:"invite_code" validate:"required"`
}

// Apply processes a wholesale application. The new member starts as
// pending; invite redemption happens in the same transaction as the
// insert so a code is consumed exactly once.
func (s *MemberService) Apply(ctx context.Context, input *ApplyInput) (*models.Member, error) {
	shipState := strings.ToUpper(strings.TrimSpace(input.ShippingState))

	// 1. Applicants in restricted states cannot hold accounts
	restricted, err := s.stateRepo.IsRestricted(ctx, shipState)
	if err != nil {
		return nil, err
	}
	if restricted {
		return nil, ErrStateRestricted
	}

	// 2. Invite code must be redeemable
	invite, err := s.inviteService.Validate(ctx, input.InviteCode)
	if err != nil {
		if errors.Is(err, ErrInviteNotFound) || errors.Is(err, ErrInviteUsed) {
			return nil, ErrInviteUnavailable
		}
		return nil, err
	}

	// 3. Email must be unused
	email := strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.memberRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	// 4. Hash password
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 5. Unique personal referral code
	refCode, err := s.uniqueRefCode(ctx)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		FullName:        strings.TrimSpace(input.FullName),
		Email:           email,
		Phone:           strings.TrimSpace(input.Phone),
		PasswordHash:    hashed,
		BusinessName:    strings.TrimSpace(input.BusinessName),
		BusinessType:    input.BusinessType,
		LicenseNumber:   strings.TrimSpace(input.LicenseNumber),
		EIN:             strings.TrimSpace(input.EIN),
		BillingStreet:   input.BillingStreet,
		BillingCity:     input.BillingCity,
		BillingState:    strings.ToUpper(strings.TrimSpace(input.BillingState)),
		BillingZip:      input.BillingZip,
		ShippingStreet:  input.ShippingStreet,
		ShippingCity:    input.ShippingCity,
		ShippingState:   shipState,
		ShippingZip:     input.ShippingZip,
		HowHeard:        input.HowHeard,
		Status:          domain.MemberPending,
		PersonalRefCode: refCode,
		InviteCodeUsed:  invite.Code,
		InvitedBy:       invite.CreatedBy,
	}

	// 6. Create member + redeem code atomically
	if err := s.memberRepo.CreateWithInvite(ctx, member, invite.Code); err != nil {
		if errors.Is(err, repositories.ErrCodeUnavailable) {
			return nil, ErrInviteUnavailable
		}
		return nil, err
	}

	log.Printf("Application received: %s (%s)", member.BusinessName, member.Email)

	// 7. Tell the admins, best effort
	if s.notifyService != nil {
		go s.notifyService.NotifyNewApplication(member)
	}

	return member, nil
}

// Get returns a member by id
func (s *MemberService) Get(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// List lists members with filters, paginated
func (s *MemberService) List(ctx context.Context, status domain.MemberStatus, search string, offset, limit int) ([]*models.Member, int64, error) {
	if status != "" && !domain.ValidMemberStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.memberRepo.List(ctx, status, search, offset, limit)
}

// ChangeStatus moves a member through the membership state machine.
// Activation stamps ApprovedAt and turns on the transacting flag;
// suspension and cancellation turn it off.
func (s *MemberService) ChangeStatus(ctx context.Context, id uint, newStatus domain.MemberStatus, reason string) (*models.Member, error) {
	if !domain.ValidMemberStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanMemberTransition(member.Status, newStatus) {
		return nil, ErrIllegalTransition
	}

	member.Status = newStatus
	member.StatusReason = reason

	switch newStatus {
	case domain.MemberActive:
		member.MonthlyActive = true
		if member.ApprovedAt == nil {
			now := time.Now()
			member.ApprovedAt = &now
		}
	case domain.MemberSuspended, domain.MemberCanceled:
		member.MonthlyActive = false
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	log.Printf("Member %d status changed to %s", member.ID, newStatus)

	// Every entry into active mails the member, so a reinstatement
	// from suspended reads like a fresh approval
	if s.notifyService != nil {
		switch newStatus {
		case domain.MemberActive:
			go s.notifyService.NotifyApplicationApproved(member)
		case domain.MemberDenied:
			go s.notifyService.NotifyApplicationDenied(member, reason)
		}
	}

	return member, nil
}

// Delete removes a member
func (s *MemberService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, id)
}

// uniqueRefCode generates a referral code that is not yet assigned
func (s *MemberService) uniqueRefCode(ctx context.Context) (string, error) {
	for i := 0; i < inviteRetryCap; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("%s%04d", refCodePrefix, n.Int64())

		exists, err := s.memberRepo.ExistsByRefCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrRefCodeGeneration
}
