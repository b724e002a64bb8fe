package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Campaign represents a marketing campaign and its attributed results
type Campaign struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Channel     string          `gorm:"size:50" json:"channel"`
	StartDate   time.Time       `gorm:"not null;index" json:"start_date"`
	Spend       decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"spend"`
	Impressions int64           `gorm:"default:0" json:"impressions"`
	Clicks      int64           `gorm:"default:0" json:"clicks"`
	Conversions int64           `gorm:"default:0" json:"conversions"`
	Revenue     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"revenue"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new campaign
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}
