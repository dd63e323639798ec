package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"

	"gorm.io/gorm"
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

const (
	sessionTokenBytes = 48
	sessionLifetime   = 7 * 24 * time.Hour
)

// SessionService issues and validates opaque bearer tokens backed by
// the sessions table.
type SessionService struct {
	sessionRepo repositories.SessionRepository
	memberRepo  repositories.MemberRepository
	adminRepo   repositories.AdminRepository
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repositories.SessionRepository,
	memberRepo repositories.MemberRepository,
	adminRepo repositories.AdminRepository,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		memberRepo:  memberRepo,
		adminRepo:   adminRepo,
	}
}

// Create issues a new session for a principal
func (s *SessionService) Create(ctx context.Context, principalID uint, isAdmin bool) (*models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:       token,
		PrincipalID: principalID,
		IsAdmin:     isAdmin,
		ExpiresAt:   time.Now().Add(sessionLifetime),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate resolves a bearer token to its principal. The session row's
// is_admin flag decides which table is consulted, so a member and an
// admin with colliding ids can never be confused.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.IsExpired() {
		// Lazy cleanup; the hourly job catches the rest
		_ = s.sessionRepo.DeleteByToken(ctx, token)
		return nil, ErrSessionExpired
	}

	if session.IsAdmin {
		admin, err := s.adminRepo.GetByID(ctx, session.PrincipalID)
		if err != nil {
			return nil, ErrSessionNotFound
		}
		return &domain.Principal{
			Kind:  domain.PrincipalAdmin,
			ID:    admin.ID,
			Email: admin.Email,
			Name:  admin.Name,
		}, nil
	}

	member, err := s.memberRepo.GetByID(ctx, session.PrincipalID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return &domain.Principal{
		Kind:         domain.PrincipalMember,
		ID:           member.ID,
		Email:        member.Email,
		Name:         member.FullName,
		MemberStatus: member.Status,
	}, nil
}

// Destroy deletes a session. Unknown tokens are a no-op, so repeated
// logouts succeed.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// CleanupExpired removes expired sessions, invoked hourly by cron
func (s *SessionService) CleanupExpired(ctx context.Context) error {
	count, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Session cleanup: removed %d expired sessions", count)
	}
	return nil
}

// generateToken returns 48 random bytes hex-encoded (96 chars)
func generateToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
