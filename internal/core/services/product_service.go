package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"

	"gorm.io/gorm"
)

// Product errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUTaken        = errors.New("sku already exists")
	ErrTHCLimit        = errors.New("delta-9 THC exceeds the 0.3% limit")
)

// ProductService handles catalog business logic
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput represents a new product
type ProductInput struct {
	SKU                 string   `json:"sku" validate:"required,max=40"`
	Name                string   `json:"name" validate:"required,max=150"`
	StrainType          string   `json:"strain_type" validate:"max=40"`
	Category            string   `json:"category" validate:"max=40"`
	CultivationMethod   string   `json:"cultivation_method" validate:"max=60"`
	CultivationLocation string   `json:"cultivation_location" validate:"max=100"`
	Delta9THCPct        float64  `json:"delta9_thc_pct" validate:"min=0"`
	THCAPct             float64  `json:"thca_pct" validate:"min=0"`
	CBDPct              float64  `json:"cbd_pct" validate:"min=0"`
	Status              string   `json:"status" validate:"omitempty,oneof=active inactive"`
	PricePerLb          float64  `json:"price_per_lb" validate:"required,gt=0"`
	Price5Lb            *float64 `json:"price_5lb" validate:"omitempty,gt=0"`
	Price10Lb           *float64 `json:"price_10lb" validate:"omitempty,gt=0"`
	InventoryLbs        float64  `json:"inventory_lbs" validate:"min=0"`
	Featured            bool     `json:"featured"`
	DisplayOrder        int      `json:"display_order"`
	Description         string   `json:"description"`
	ImageURL            string   `json:"image_url" validate:"max=300"`
	RestrictedStates    string   `json:"restricted_states" validate:"max=200"`
	ComplianceStatement string   `json:"compliance_statement"`
}

// ProductPatch carries a partial update. Pointer fields distinguish
// "leave alone" (nil) from "set to zero value".
type ProductPatch struct {
	Name                *string  `json:"name" validate:"omitempty,max=150"`
	StrainType          *string  `json:"strain_type" validate:"omitempty,max=40"`
	Category            *string  `json:"category" validate:"omitempty,max=40"`
	CultivationMethod   *string  `json:"cultivation_method" validate:"omitempty,max=60"`
	CultivationLocation *string  `json:"cultivation_location" validate:"omitempty,max=100"`
	Delta9THCPct        *float64 `json:"delta9_thc_pct" validate:"omitempty,min=0"`
	THCAPct             *float64 `json:"thca_pct" validate:"omitempty,min=0"`
	CBDPct              *float64 `json:"cbd_pct" validate:"omitempty,min=0"`
	FarmBillCompliant   *bool    `json:"farm_bill_compliant"`
	Status              *string  `json:"status" validate:"omitempty,oneof=active inactive"`
	PricePerLb          *float64 `json:"price_per_lb" validate:"omitempty,gt=0"`
	Price5Lb            *float64 `json:"price_5lb" validate:"omitempty,gt=0"`
	Price10Lb           *float64 `json:"price_10lb" validate:"omitempty,gt=0"`
	InventoryLbs        *float64 `json:"inventory_lbs" validate:"omitempty,min=0"`
	Featured            *bool    `json:"featured"`
	DisplayOrder        *int     `json:"display_order"`
	Description         *string  `json:"description"`
	ImageURL            *string  `json:"image_url" validate:"omitempty,max=300"`
	RestrictedStates    *string  `json:"restricted_states" validate:"omitempty,max=200"`
	ComplianceStatement *string  `json:"compliance_statement"`
}

// ListForMember returns the member-facing catalog
func (s *ProductService) ListForMember(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.ListActiveCompliant(ctx)
}

// ListForAdmin returns every product
func (s *ProductService) ListForAdmin(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.ListAll(ctx)
}

// PublicList returns featured products without wholesale pricing
func (s *ProductService) PublicList(ctx context.Context) ([]*models.PublicProductResponse, error) {
	products, err := s.productRepo.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.PublicProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, p.ToPublicResponse())
	}
	return out, nil
}

// Get returns a product by id
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Create adds a product. The THC limit is checked before anything is
// written; a product over the limit never reaches storage.
func (s *ProductService) Create(ctx context.Context, input *ProductInput) (*models.Product, error) {
	if input.Delta9THCPct > domain.MaxDelta9THCPct {
		return nil, ErrTHCLimit
	}

	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	exists, err := s.productRepo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSKUTaken
	}

	status := domain.ProductStatus(input.Status)
	if status == "" {
		status = domain.ProductActive
	}

	product := &models.Product{
		SKU:                 sku,
		Name:                strings.TrimSpace(input.Name),
		StrainType:          input.StrainType,
		Category:            input.Category,
		CultivationMethod:   input.CultivationMethod,
		CultivationLocation: input.CultivationLocation,
		Delta9THCPct:        input.Delta9THCPct,
		THCAPct:             input.THCAPct,
		CBDPct:              input.CBDPct,
		FarmBillCompliant:   true,
		Status:              status,
		PricePerLb:          input.PricePerLb,
		Price5Lb:            input.Price5Lb,
		Price10Lb:           input.Price10Lb,
		InventoryLbs:        input.InventoryLbs,
		Featured:            input.Featured,
		DisplayOrder:        input.DisplayOrder,
		Description:         input.Description,
		ImageURL:            input.ImageURL,
		RestrictedStates:    strings.ToUpper(input.RestrictedStates),
		ComplianceStatement: input.ComplianceStatement,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSKUTaken
		}
		return nil, err
	}

	log.Printf("Product created: %s (%s)", product.Name, product.SKU)
	return product, nil
}

// Update applies a partial update, with the same THC guard as Create
func (s *ProductService) Update(ctx context.Context, id uint, patch *ProductPatch) (*models.Product, error) {
	if patch.Delta9THCPct != nil && *patch.Delta9THCPct > domain.MaxDelta9THCPct {
		return nil, ErrTHCLimit
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.StrainType != nil {
		product.StrainType = *patch.StrainType
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.CultivationMethod != nil {
		product.CultivationMethod = *patch.CultivationMethod
	}
	if patch.CultivationLocation != nil {
		product.CultivationLocation = *patch.CultivationLocation
	}
	if patch.Delta9THCPct != nil {
		product.Delta9THCPct = *patch.Delta9THCPct
	}
	if patch.THCAPct != nil {
		product.THCAPct = *patch.THCAPct
	}
	if patch.CBDPct != nil {
		product.CBDPct = *patch.CBDPct
	}
	if patch.FarmBillCompliant != nil {
		product.FarmBillCompliant = *patch.FarmBillCompliant
	}
	if patch.Status != nil {
		product.Status = domain.ProductStatus(*patch.Status)
	}
	if patch.PricePerLb != nil {
		product.PricePerLb = *patch.PricePerLb
	}
	if patch.Price5Lb != nil {
		product.Price5Lb = patch.Price5Lb
	}
	if patch.Price10Lb != nil {
		product.Price10Lb = patch.Price10Lb
	}
	if patch.InventoryLbs != nil {
		product.InventoryLbs = *patch.InventoryLbs
	}
	if patch.Featured != nil {
		product.Featured = *patch.Featured
	}
	if patch.DisplayOrder != nil {
		product.DisplayOrder = *patch.DisplayOrder
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	if patch.RestrictedStates != nil {
		product.RestrictedStates = strings.ToUpper(*patch.RestrictedStates)
	}
	if patch.ComplianceStatement != nil {
		product.ComplianceStatement = *patch.ComplianceStatement
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	log.Printf("Product updated: %s (%s)", product.Name, product.SKU)
	return product, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
