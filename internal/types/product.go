package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/money"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusInactive ProductStatus = "INACTIVE"
)

// Category forms a tree through ParentID only; there is no parent object
// pointer, so serialization never cycles.
type Category struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index;column:parent_id" json:"parent_id,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string { return "category" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"not null;column:name" json:"name"`
	Description   string         `gorm:"column:description" json:"description"`
	SKU           string         `gorm:"uniqueIndex;not null;column:sku" json:"sku"`
	Price         money.Money    `gorm:"type:decimal(12,2);not null;column:price" json:"price"`
	StockQuantity int            `gorm:"not null;default:0;column:stock_quantity" json:"stock_quantity"`
	Status        ProductStatus  `gorm:"not null;column:status" json:"status"`
	StoreID       uuid.UUID      `gorm:"type:uuid;not null;index;column:store_id" json:"store_id"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index;column:category_id" json:"category_id,omitempty"`
	Images        []ProductImage `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID" json:"images,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProductStatusActive
	}
	return nil
}

type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	URL       string    `gorm:"not null;column:url" json:"url"`
	AltText   string    `gorm:"column:alt_text" json:"alt_text,omitempty"`
	IsPrimary bool      `gorm:"not null;default:false;column:is_primary" json:"is_primary"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ProductImage) TableName() string { return "product_image" }

func (pi *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}
