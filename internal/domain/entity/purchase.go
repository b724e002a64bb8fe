package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase represents a purchase invoice from a vendor
type Purchase struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	VendorID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendor_id"`
	InvoiceNo   string          `gorm:"size:100;not null" json:"invoice_no"`
	InvoiceDate time.Time       `gorm:"not null;index" json:"invoice_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	AmountCash  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_cash"`
	AmountUPI   decimal.Decimal `gorm:"column:amount_upi;type:decimal(15,2);default:0" json:"amount_upi"`
	AmountCard  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_card"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}

// PaidAmount returns cash + upi + card
func (p *Purchase) PaidAmount() decimal.Decimal {
	return p.AmountCash.Add(p.AmountUPI).Add(p.AmountCard)
}

// BalanceDue is the amount still owed to the vendor. Negative values are overpayments.
func (p *Purchase) BalanceDue() decimal.Decimal {
	return p.TotalAmount.Sub(p.PaidAmount())
}

// Expense represents an operating expense paid to a vendor
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Category    string          `gorm:"size:100" json:"category"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	AmountCash  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_cash"`
	AmountUPI   decimal.Decimal `gorm:"column:amount_upi;type:decimal(15,2);default:0" json:"amount_upi"`
	AmountCard  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_card"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}

// PaidAmount returns cash + upi + card
func (e *Expense) PaidAmount() decimal.Decimal {
	return e.AmountCash.Add(e.AmountUPI).Add(e.AmountCard)
}
