package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SplitTolerance is the rounding slack allowed between payment splits and the invoice total
var SplitTolerance = decimal.New(1, -2)

// Sale represents a sales invoice
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	InvoiceNo      string          `gorm:"size:100;not null" json:"invoice_no"`
	InvoiceDate    time.Time       `gorm:"not null;index" json:"invoice_date"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"discount_amount"`
	AmountCash     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_cash"`
	AmountUPI      decimal.Decimal `gorm:"column:amount_upi;type:decimal(15,2);default:0" json:"amount_upi"`
	AmountCard     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_card"`
	AmountCredit   decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_credit"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// PaidAmount returns the settled part of the invoice (cash + upi + card)
func (s *Sale) PaidAmount() decimal.Decimal {
	return s.AmountCash.Add(s.AmountUPI).Add(s.AmountCard)
}

// BalanceDue returns what the customer still owes. Negative means overpaid.
func (s *Sale) BalanceDue() decimal.Decimal {
	return s.TotalAmount.Sub(s.PaidAmount())
}

// SplitsWithinTotal reports whether cash+upi+card+credit stays within the invoice total
func (s *Sale) SplitsWithinTotal() bool {
	splits := s.PaidAmount().Add(s.AmountCredit)
	return splits.LessThanOrEqual(s.TotalAmount.Add(SplitTolerance))
}

// SaleItem represents a line item in a sale
type SaleItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductVariantID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_variant_id"`
	Quantity         decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// LineTotal returns quantity x unit price
func (si *SaleItem) LineTotal() decimal.Decimal {
	return si.Quantity.Mul(si.UnitPrice)
}
