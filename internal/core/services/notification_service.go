package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"

	"github.com/google/uuid"
)

// EmailSender sends one email. Implementations must be safe for
// concurrent use.
type EmailSender interface {
	Send(to, subject, html string) error
}

// resendSender posts to the Resend HTTP API
type resendSender struct {
	apiKey string
	from   string
	client *http.Client
}

// NewResendSender creates the production email adapter. With no API key
// configured it returns nil and the notification service runs disabled.
func NewResendSender() EmailSender {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil
	}
	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "Hemp Life Farmers <orders@hemplifefarmers.com>"
	}
	return &resendSender{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *resendSender) Send(to, subject, html string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"from":    s.from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend returned status %d", resp.StatusCode)
	}
	return nil
}

// NotificationService sends best-effort emails and records every
// attempt in the notification log. Failures never reach callers.
type NotificationService struct {
	sender    EmailSender
	logRepo   repositories.NotificationLogRepository
	adminRepo repositories.AdminRepository
	enabled   bool
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	sender EmailSender,
	logRepo repositories.NotificationLogRepository,
	adminRepo repositories.AdminRepository,
) *NotificationService {
	return &NotificationService{
		sender:    sender,
		logRepo:   logRepo,
		adminRepo: adminRepo,
		enabled:   sender != nil,
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// send delivers one email and logs the outcome. Called from goroutines;
// uses a background context so a finished request cannot cancel it.
func (s *NotificationService) send(to, subject, html, entityType string, entityID uint) {
	if !s.enabled {
		return
	}

	entry := &models.NotificationLog{
		EventID:    uuid.New().String(),
		Recipient:  to,
		Subject:    subject,
		Status:     models.NotifySent,
		EntityType: entityType,
		EntityID:   entityID,
	}

	if err := s.sender.Send(to, subject, html); err != nil {
		entry.Status = models.NotifyFailed
		entry.Error = err.Error()
		log.Printf("Email to %s failed: %v", to, err)
	}

	if err := s.logRepo.Create(context.Background(), entry); err != nil {
		log.Printf("Notification log write failed: %v", err)
	}
}

// sendToAdmins fans one message out to every admin
func (s *NotificationService) sendToAdmins(subject, html, entityType string, entityID uint) {
	if !s.enabled {
		return
	}
	emails, err := s.adminRepo.ListEmails(context.Background())
	if err != nil {
		log.Printf("Admin email lookup failed: %v", err)
		return
	}
	for _, email := range emails {
		s.send(email, subject, html, entityType, entityID)
	}
}

// NotifyNewApplication tells admins a wholesale application arrived
func (s *NotificationService) NotifyNewApplication(member *models.Member) {
	html := fmt.Sprintf(
		"<p>New wholesale application received.</p><p><strong>%s</strong> (%s)<br>Business: %s<br>License: %s</p><p>Review it in the admin dashboard.</p>",
		member.FullName, member.Email, member.BusinessName, member.LicenseNumber,
	)
	s.sendToAdmins("New wholesale application: "+member.BusinessName, html, "member", member.ID)
}

// NotifyApplicationApproved welcomes a newly activated member
func (s *NotificationService) NotifyApplicationApproved(member *models.Member) {
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your wholesale application has been approved. You can now log in and place orders.</p><p>Your referral code: <strong>%s</strong></p>",
		member.FullName, member.PersonalRefCode,
	)
	s.send(member.Email, "Your wholesale application was approved", html, "member", member.ID)
}

// NotifyApplicationDenied informs an applicant of the outcome
func (s *NotificationService) NotifyApplicationDenied(member *models.Member, reason string) {
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>We were unable to approve your wholesale application at this time.</p>",
		member.FullName,
	)
	if reason != "" {
		html += fmt.Sprintf("<p>Reason: %s</p>", reason)
	}
	s.send(member.Email, "Update on your wholesale application", html, "member", member.ID)
}

// NotifyOrderSubmitted confirms a new order to the member and alerts
// the admins
func (s *NotificationService) NotifyOrderSubmitted(order *models.Order, member *models.Member) {
	memberHTML := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received your order <strong>%s</strong> for $%.2f. It is pending review and we will confirm shortly.</p>",
		member.FullName, order.OrderNumber, order.Total,
	)
	s.send(member.Email, "Order received: "+order.OrderNumber, memberHTML, "order", order.ID)

	adminHTML := fmt.Sprintf(
		"<p>New order <strong>%s</strong> from %s (%s) for $%.2f, awaiting review.</p>",
		order.OrderNumber, member.BusinessName, member.Email, order.Total,
	)
	s.sendToAdmins("New order: "+order.OrderNumber, adminHTML, "order", order.ID)
}

// NotifyOrderStatus tells the member their order moved
func (s *NotificationService) NotifyOrderStatus(order *models.Order, member *models.Member) {
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order <strong>%s</strong> is now: <strong>%s</strong>.</p>",
		member.FullName, order.OrderNumber, order.Status,
	)
	s.send(member.Email, fmt.Sprintf("Order %s: %s", order.OrderNumber, order.Status), html, "order", order.ID)
}

// RecentLog returns the newest delivery attempts for the admin view.
// Available even when sending is disabled.
func (s *NotificationService) RecentLog(ctx context.Context, limit int) ([]*models.NotificationLog, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.logRepo.ListRecent(ctx, limit)
}

// SendPendingDigest mails admins the daily count of applications
// waiting for review
func (s *NotificationService) SendPendingDigest(pendingCount int64) {
	if pendingCount == 0 {
		return
	}
	html := fmt.Sprintf(
		"<p>There are <strong>%d</strong> wholesale applications waiting for review.</p>",
		pendingCount,
	)
	s.sendToAdmins("Pending applications digest", html, "digest", 0)
}
