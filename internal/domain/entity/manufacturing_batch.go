package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ManufacturingBatch represents one production run
type ManufacturingBatch struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BatchNo          string          `gorm:"size:100;not null" json:"batch_no"`
	ExtractionDate   time.Time       `gorm:"not null;index" json:"extraction_date"`
	QuantityProduced decimal.Decimal `gorm:"type:decimal(15,3);default:0" json:"quantity_produced"`
	QualityPassed    bool            `gorm:"default:false" json:"quality_passed"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new batch
func (b *ManufacturingBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ManufacturingBatch model
func (ManufacturingBatch) TableName() string {
	return "manufacturing_batches"
}
