package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a customer in the CRM.
// TotalOrders, TotalSpent and LastOrderDate are cached aggregates and may be stale or NULL.
type Customer struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Phone            *string          `gorm:"size:50" json:"phone,omitempty"`
	RegistrationDate time.Time        `gorm:"not null" json:"registration_date"`
	TotalOrders      *int             `json:"total_orders,omitempty"`
	TotalSpent       *decimal.Decimal `gorm:"type:decimal(15,2)" json:"total_spent,omitempty"`
	LastOrderDate    *time.Time       `json:"last_order_date,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// HasLifetimeTotals reports whether the cached aggregate columns are populated
func (c *Customer) HasLifetimeTotals() bool {
	return c.TotalSpent != nil && c.TotalOrders != nil
}
