package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/core/domain"
	"hemplife-wholesale/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory database with all tables migrated.
// Each call gets its own named memory DB so tests cannot see each other.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func lbRate(v float64) *float64 {
	return &v
}

func seedMember(t *testing.T, db *gorm.DB, email string, status domain.MemberStatus) *models.Member {
	t.Helper()

	hashed, err := password.Hash("secret-pass")
	require.NoError(t, err)

	member := &models.Member{
		FullName:        "Test Farmer",
		Email:           email,
		PasswordHash:    hashed,
		BusinessName:    "Test Farms LLC",
		ShippingState:   "CO",
		Status:          status,
		PersonalRefCode: fmt.Sprintf("HLF-INV-T%03d", testDBSeq.Add(1)%1000),
		MonthlyActive:   status == domain.MemberActive,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, perLb float64, p5, p10 *float64) *models.Product {
	t.Helper()

	product := &models.Product{
		SKU:               sku,
		Name:              "Strain " + sku,
		Delta9THCPct:      0.2,
		FarmBillCompliant: true,
		Status:            domain.ProductActive,
		PricePerLb:        perLb,
		Price5Lb:          p5,
		Price10Lb:         p10,
		InventoryLbs:      500,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedInvite(t *testing.T, db *gorm.DB, code string, status domain.InviteStatus) *models.InviteCode {
	t.Helper()

	invite := &models.InviteCode{
		Code:           code,
		Status:         status,
		CreatedByAdmin: true,
	}
	require.NoError(t, db.Create(invite).Error)
	return invite
}

func seedRestrictedState(t *testing.T, db *gorm.DB, stateCode string) {
	t.Helper()
	require.NoError(t, db.Create(&models.RestrictedState{
		StateCode: stateCode,
		Reason:    "test restriction",
	}).Error)
}

func memberPrincipal(m *models.Member) *domain.Principal {
	return &domain.Principal{
		Kind:         domain.PrincipalMember,
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.FullName,
		MemberStatus: m.Status,
	}
}

func adminPrincipal(id uint) *domain.Principal {
	return &domain.Principal{
		Kind:  domain.PrincipalAdmin,
		ID:    id,
		Email: "admin@hemplifefarmers.com",
		Name:  "Admin",
	}
}

func testCtx() context.Context {
	return context.Background()
}
