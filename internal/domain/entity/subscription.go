package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Subscription represents a recurring customer plan
type Subscription struct {
	ID              uuid.UUID               `gorm:"type:uuid;primary_key" json:"id"`
	TenantID        uuid.UUID               `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CustomerID      *uuid.UUID              `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Status          enum.SubscriptionStatus `gorm:"default:0" json:"status"`
	RecurringAmount decimal.Decimal         `gorm:"type:decimal(15,2);default:0" json:"recurring_amount"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	DeletedAt       gorm.DeletedAt          `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new subscription
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}
