package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"
	"hemplife-wholesale/internal/pkg/password"

	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrApplicationPending = errors.New("application still under review")
	ErrApplicationDenied  = errors.New("application was denied")
)

// AuthService handles authentication business logic
type AuthService struct {
	memberRepo     repositories.MemberRepository
	adminRepo      repositories.AdminRepository
	sessionService *SessionService
}

// NewAuthService creates a new auth service
func NewAuthService(
	memberRepo repositories.MemberRepository,
	adminRepo repositories.AdminRepository,
	sessionService *SessionService,
) *AuthService {
	return &AuthService{
		memberRepo:     memberRepo,
		adminRepo:      adminRepo,
		sessionService: sessionService,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult represents a successful login
type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Principal *domain.Principal `json:"user"`
}

// Login authenticates against the admin table first, then the member
// table. Members whose application is still pending or was denied get
// a distinct error and no session.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 1. Try admin
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err == nil {
		if !password.Verify(input.Password, admin.PasswordHash) {
			return nil, ErrInvalidCredentials
		}
		session, err := s.sessionService.Create(ctx, admin.ID, true)
		if err != nil {
			return nil, err
		}
		log.Printf("Admin logged in: %s", admin.Email)
		return &LoginResult{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			Principal: &domain.Principal{
				Kind:  domain.PrincipalAdmin,
				ID:    admin.ID,
				Email: admin.Email,
				Name:  admin.Name,
			},
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. Fall back to member
	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, member.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// 3. Gate on application outcome. Suspended and canceled members may
	// still log in; transacting operations are blocked elsewhere.
	switch member.Status {
	case domain.MemberPending:
		return nil, ErrApplicationPending
	case domain.MemberDenied:
		return nil, ErrApplicationDenied
	}

	session, err := s.sessionService.Create(ctx, member.ID, false)
	if err != nil {
		return nil, err
	}

	log.Printf("Member logged in: %s (status: %s)", member.Email, member.Status)

	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Principal: &domain.Principal{
			Kind:         domain.PrincipalMember,
			ID:           member.ID,
			Email:        member.Email,
			Name:         member.FullName,
			MemberStatus: member.Status,
		},
	}, nil
}

// Logout destroys the session, idempotently
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessionService.Destroy(ctx, token)
}
