package models

import (
	"time"

	"gorm.io/gorm"

	"hemplife-wholesale/internal/core/domain"
)

// ============================================================
// Catalog Tables
// ============================================================

// Product represents the products table. Tier prices are per-lb rates
// that apply once the quantity break is reached; nil means the tier is
// not offered for that product.
type Product struct {
	ID                  uint                 `gorm:"primaryKey" json:"id"`
	SKU                 string               `gorm:"uniqueIndex;size:40;not null" json:"sku"`
	Name                string               `gorm:"size:150;not null" json:"name"`
	StrainType          string               `gorm:"size:40" json:"strain_type"`
	Category            string               `gorm:"size:40;index" json:"category"`
	CultivationMethod   string               `gorm:"size:60" json:"cultivation_method"`
	CultivationLocation string               `gorm:"size:100" json:"cultivation_location"`
	Delta9THCPct        float64              `gorm:"type:decimal(5,3);not null" json:"delta9_thc_pct"`
	THCAPct             float64              `gorm:"type:decimal(5,2)" json:"thca_pct"`
	CBDPct              float64              `gorm:"type:decimal(5,2)" json:"cbd_pct"`
	FarmBillCompliant   bool                 `gorm:"default:true" json:"farm_bill_compliant"`
	Status              domain.ProductStatus `gorm:"size:20;not null;default:'active';index" json:"status"`
	PricePerLb          float64              `gorm:"type:decimal(10,2);not null" json:"price_per_lb"`
	Price5Lb            *float64             `gorm:"type:decimal(10,2)" json:"price_5lb"`
	Price10Lb           *float64             `gorm:"type:decimal(10,2)" json:"price_10lb"`
	InventoryLbs        float64              `gorm:"type:decimal(10,2);default:0" json:"inventory_lbs"`
	Featured            bool                 `gorm:"default:false;index" json:"featured"`
	DisplayOrder        int                  `gorm:"default:0" json:"display_order"`
	Description         string               `gorm:"type:text" json:"description"`
	ImageURL            string               `gorm:"size:300" json:"image_url"`
	RestrictedStates    string               `gorm:"size:200" json:"restricted_states"`
	ComplianceStatement string               `gorm:"type:text" json:"compliance_statement"`
	CreatedAt           time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// PublicProductResponse DTO for the unauthenticated storefront.
// Wholesale pricing and inventory are members-only.
type PublicProductResponse struct {
	ID                  uint    `json:"id"`
	SKU                 string  `json:"sku"`
	Name                string  `json:"name"`
	StrainType          string  `json:"strain_type"`
	Category            string  `json:"category"`
	CultivationMethod   string  `json:"cultivation_method"`
	CultivationLocation string  `json:"cultivation_location"`
	Delta9THCPct        float64 `json:"delta9_thc_pct"`
	CBDPct              float64 `json:"cbd_pct"`
	Description         string  `json:"description"`
	ImageURL            string  `json:"image_url"`
	ComplianceStatement string  `json:"compliance_statement"`
}

func (p *Product) ToPublicResponse() *PublicProductResponse {
	return &PublicProductResponse{
		ID:                  p.ID,
		SKU:                 p.SKU,
		Name:                p.Name,
		StrainType:          p.StrainType,
		Category:            p.Category,
		CultivationMethod:   p.CultivationMethod,
		CultivationLocation: p.CultivationLocation,
		Delta9THCPct:        p.Delta9THCPct,
		CBDPct:              p.CBDPct,
		Description:         p.Description,
		ImageURL:            p.ImageURL,
		ComplianceStatement: p.ComplianceStatement,
	}
}

// ============================================================
// Order Tables
// ============================================================

// Order represents the orders table
type Order struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	OrderNumber   string             `gorm:"uniqueIndex;size:20;not null" json:"order_number"`
	MemberID      uint               `gorm:"not null;index" json:"member_id"`
	Status        domain.OrderStatus `gorm:"size:20;not null;default:'pending_review';index" json:"status"`
	PaymentMethod string             `gorm:"size:30" json:"payment_method"`
	ShipState     string             `gorm:"size:2;not null" json:"ship_state"`
	Notes         string             `gorm:"type:text" json:"notes"`
	Subtotal      float64            `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Total         float64            `gorm:"type:decimal(12,2);not null" json:"total"`
	ApprovedAt    *time.Time         `json:"approved_at"`
	ShippedAt     *time.Time         `json:"shipped_at"`
	DeliveredAt   *time.Time         `json:"delivered_at"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Member *Member     `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Items  []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem represents the order_items table. Fields are a snapshot of
// the product at order time and never change afterwards.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ProductID   uint      `gorm:"not null" json:"product_id"`
	SKU         string    `gorm:"size:40;not null" json:"sku"`
	ProductName string    `gorm:"size:150;not null" json:"product_name"`
	QuantityLbs float64   `gorm:"type:decimal(10,2);not null" json:"quantity_lbs"`
	PricePerLb  float64   `gorm:"type:decimal(10,2);not null" json:"price_per_lb"`
	Subtotal    float64   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderCounter represents the order_counters table. A single named row
// incremented inside the order-creation transaction so order numbers
// stay unique and gapless under concurrent placement.
type OrderCounter struct {
	Name      string    `gorm:"primaryKey;size:20" json:"name"`
	Value     uint      `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OrderCounter) TableName() string {
	return "order_counters"
}

// OrderCounterName is the row key for the wholesale order sequence
const OrderCounterName = "orders"
