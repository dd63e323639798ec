package config

import (
	"context"
	"log"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/pkg/password"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeder handles database seeding
type Seeder struct {
	db        *gorm.DB
	cfg       *Config
	stateRepo repositories.RestrictedStateRepository
	adminRepo repositories.AdminRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{
		db:        db,
		cfg:       cfg,
		stateRepo: repositories.NewRestrictedStateRepository(db),
		adminRepo: repositories.NewAdminRepository(db),
	}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("Running database seeders...")

	if err := s.seedRestrictedStates(); err != nil {
		return err
	}
	if err := s.seedOrderCounter(); err != nil {
		return err
	}
	if err := s.seedAdmin(); err != nil {
		log.Printf("Admin seeder skipped: %v", err)
	}
	if s.cfg.IsDev() {
		if err := s.seedDemoProducts(); err != nil {
			return err
		}
	}

	log.Println("Database seeding completed")
	return nil
}

// seedRestrictedStates seeds the states we cannot serve
func (s *Seeder) seedRestrictedStates() error {
	ctx := context.Background()
	states := []models.RestrictedState{
		{StateCode: "ID", Reason: "State law prohibits hemp flower"},
		{StateCode: "OR", Reason: "State law restricts out-of-state hemp sales"},
		{StateCode: "SD", Reason: "State law prohibits hemp flower"},
	}
	for i := range states {
		if err := s.stateRepo.Upsert(ctx, &states[i]); err != nil {
			return err
		}
	}
	return nil
}

// seedOrderCounter makes sure the order number sequence row exists
func (s *Seeder) seedOrderCounter() error {
	counter := models.OrderCounter{Name: models.OrderCounterName}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error
}

// seedAdmin creates the default admin from env. Skipped when the env
// vars are unset or the account already exists.
func (s *Seeder) seedAdmin() error {
	if s.cfg.Admin.Email == "" || s.cfg.Admin.Password == "" {
		log.Println("ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	ctx := context.Background()
	exists, err := s.adminRepo.ExistsByEmail(ctx, s.cfg.Admin.Email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashed, err := password.Hash(s.cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Name:         s.cfg.Admin.Name,
		Email:        s.cfg.Admin.Email,
		PasswordHash: hashed,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("Admin account created: %s", admin.Email)
	return nil
}

// seedDemoProducts inserts a small dev catalog
func (s *Seeder) seedDemoProducts() error {
	var count int64
	s.db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	lb := func(v float64) *float64 { return &v }

	products := []models.Product{
		{
			SKU:                 "HLF-SD-001",
			Name:                "Sour Diesel",
			StrainType:          "sativa",
			Category:            "flower",
			CultivationMethod:   "greenhouse",
			CultivationLocation: "Southern Oregon",
			Delta9THCPct:        0.18,
			THCAPct:             18.4,
			CBDPct:              0.6,
			PricePerLb:          1000,
			Price5Lb:            lb(900),
			Price10Lb:           lb(800),
			InventoryLbs:        120,
			Featured:            true,
			DisplayOrder:        1,
			Description:         "Classic sativa with a sharp diesel nose.",
			ComplianceStatement: "Contains less than 0.3% Delta-9 THC on a dry weight basis.",
		},
		{
			SKU:                 "HLF-GG-002",
			Name:                "Gorilla Glue",
			StrainType:          "hybrid",
			Category:            "flower",
			CultivationMethod:   "indoor",
			CultivationLocation: "Humboldt County",
			Delta9THCPct:        0.22,
			THCAPct:             21.0,
			CBDPct:              0.4,
			PricePerLb:          1200,
			Price5Lb:            lb(1100),
			InventoryLbs:        60,
			Featured:            true,
			DisplayOrder:        2,
			Description:         "Heavy resin producer, dense indoor buds.",
			ComplianceStatement: "Contains less than 0.3% Delta-9 THC on a dry weight basis.",
		},
	}
	if err := s.db.Create(&products).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d demo products", len(products))
	return nil
}
