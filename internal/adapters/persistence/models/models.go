package models

import (
	"time"

	"gorm.io/gorm"

	"hemplife-wholesale/internal/core/domain"
)

// ============================================================
// Membership & Auth Tables
// ============================================================

// Member represents the members table. A row starts as a pending
// application and carries the full intake form.
type Member struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	FullName        string              `gorm:"size:100;not null" json:"full_name"`
	Email           string              `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone           string              `gorm:"size:30" json:"phone"`
	PasswordHash    string              `gorm:"size:255;not null" json:"-"`
	BusinessName    string              `gorm:"size:150;not null" json:"business_name"`
	BusinessType    string              `gorm:"size:50" json:"business_type"`
	LicenseNumber   string              `gorm:"size:60" json:"license_number"`
	EIN             string              `gorm:"size:20" json:"ein"`
	BillingStreet   string              `gorm:"size:200" json:"billing_street"`
	BillingCity     string              `gorm:"size:80" json:"billing_city"`
	BillingState    string              `gorm:"size:2" json:"billing_state"`
	BillingZip      string              `gorm:"size:12" json:"billing_zip"`
	ShippingStreet  string              `gorm:"size:200" json:"shipping_street"`
	ShippingCity    string              `gorm:"size:80" json:"shipping_city"`
	ShippingState   string              `gorm:"size:2;index" json:"shipping_state"`
	ShippingZip     string              `gorm:"size:12" json:"shipping_zip"`
	HowHeard        string              `gorm:"size:200" json:"how_heard"`
	Status          domain.MemberStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	StatusReason    string              `gorm:"type:text" json:"status_reason"`
	PersonalRefCode string              `gorm:"uniqueIndex;size:20" json:"personal_ref_code"`
	InviteCodeUsed  string              `gorm:"size:20" json:"invite_code_used"`
	InvitedBy       *uint               `json:"invited_by"`
	MonthlyActive   bool                `gorm:"default:false" json:"monthly_active"`
	AppliedAt       time.Time           `gorm:"autoCreateTime" json:"applied_at"`
	ApprovedAt      *time.Time          `json:"approved_at"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

// MemberResponse DTO
type MemberResponse struct {
	ID              uint                `json:"id"`
	FullName        string              `json:"full_name"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	BusinessName    string              `json:"business_name"`
	BusinessType    string              `json:"business_type"`
	LicenseNumber   string              `json:"license_number"`
	ShippingState   string              `json:"shipping_state"`
	Status          domain.MemberStatus `json:"status"`
	StatusReason    string              `json:"status_reason,omitempty"`
	PersonalRefCode string              `json:"personal_ref_code"`
	MonthlyActive   bool                `json:"monthly_active"`
	AppliedAt       time.Time           `json:"applied_at"`
	ApprovedAt      *time.Time          `json:"approved_at"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:              m.ID,
		FullName:        m.FullName,
		Email:           m.Email,
		Phone:           m.Phone,
		BusinessName:    m.BusinessName,
		BusinessType:    m.BusinessType,
		LicenseNumber:   m.LicenseNumber,
		ShippingState:   m.ShippingState,
		Status:          m.Status,
		StatusReason:    m.StatusReason,
		PersonalRefCode: m.PersonalRefCode,
		MonthlyActive:   m.MonthlyActive,
		AppliedAt:       m.AppliedAt,
		ApprovedAt:      m.ApprovedAt,
	}
}

// Admin represents the admins table. Admins are not members and live in
// a disjoint table.
type Admin struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Admin) TableName() string {
	return "admins"
}

// Session represents the sessions table. Tokens are opaque random hex;
// the is_admin flag decides which table the principal is resolved from.
type Session struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Token       string    `gorm:"uniqueIndex;size:96;not null" json:"-"`
	PrincipalID uint      `gorm:"not null;index" json:"principal_id"`
	IsAdmin     bool      `gorm:"not null;default:false" json:"is_admin"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// InviteCode represents the invite_codes table
type InviteCode struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	Code           string              `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Status         domain.InviteStatus `gorm:"size:20;not null;default:'available';index" json:"status"`
	CreatedByAdmin bool                `gorm:"default:false" json:"created_by_admin"`
	CreatedBy      *uint               `gorm:"index" json:"created_by"`
	UsedBy         *uint               `json:"used_by"`
	UsedAt         *time.Time          `json:"used_at"`
	CreatedAt      time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (InviteCode) TableName() string {
	return "invite_codes"
}

// ============================================================
// Compliance & Observability Tables
// ============================================================

// RestrictedState represents the restricted_states table. Orders may not
// ship into these states and applicants there are rejected.
type RestrictedState struct {
	StateCode string    `gorm:"primaryKey;size:2" json:"state_code"`
	Reason    string    `gorm:"size:200" json:"reason"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RestrictedState) TableName() string {
	return "restricted_states"
}

// NotificationLog represents the notification_logs table. One row per
// outbound email attempt, sent or failed.
type NotificationLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     string    `gorm:"size:36;uniqueIndex;not null" json:"event_id"`
	Recipient   string    `gorm:"size:100;not null" json:"recipient"`
	Subject     string    `gorm:"size:200;not null" json:"subject"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	Error       string    `gorm:"type:text" json:"error,omitempty"`
	EntityType  string    `gorm:"size:30;index" json:"entity_type"`
	EntityID    uint      `gorm:"index" json:"entity_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}

// Notification statuses
const (
	NotifySent   = "sent"
	NotifyFailed = "failed"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Membership & auth
		&Member{},
		&Admin{},
		&Session{},
		&InviteCode{},
		// Catalog & orders
		&Product{},
		&Order{},
		&OrderItem{},
		&OrderCounter{},
		// Compliance & observability
		&RestrictedState{},
		&NotificationLog{},
	)
}
