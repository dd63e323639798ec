package repositories

import (
	"context"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/core/domain"

	"gorm.io/gorm"
)

// productRepository implements ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID gets a product by ID
func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update updates a product
func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft deletes a product
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

// ListActiveCompliant returns the member-facing catalog
func (r *productRepository) ListActiveCompliant(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Where("status = ? AND farm_bill_compliant = ?", domain.ProductActive, true).
		Order("display_order ASC, name ASC").
		Find(&products).Error
	return products, err
}

// ListFeatured returns featured active compliant products for the
// public storefront
func (r *productRepository) ListFeatured(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Where("featured = ? AND status = ? AND farm_bill_compliant = ?", true, domain.ProductActive, true).
		Order("display_order ASC, name ASC").
		Find(&products).Error
	return products, err
}

// ListAll returns every product for the admin catalog view
func (r *productRepository) ListAll(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Order("display_order ASC, name ASC").
		Find(&products).Error
	return products, err
}

// ExistsBySKU checks if a SKU exists
func (r *productRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku).Count(&count).Error
	return count > 0, err
}
