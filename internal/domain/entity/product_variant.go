package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is a sellable stock-keeping unit with its current stock level
type ProductVariant struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	SKU             string          `gorm:"column:sku;size:100;not null" json:"sku"`
	CurrentQuantity decimal.Decimal `gorm:"type:decimal(15,3);default:0" json:"current_quantity"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"unit_cost"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product variant
func (p *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}

// StockValue returns quantity x unit cost
func (p *ProductVariant) StockValue() decimal.Decimal {
	return p.CurrentQuantity.Mul(p.UnitCost)
}
