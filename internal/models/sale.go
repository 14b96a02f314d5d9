package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale statuses
const (
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Payment methods accepted at the till
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodMobile   = "mobile"
	PaymentMethodTransfer = "bank_transfer"
)

// Sale - the cash sale header
type Sale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	SaleNumber    string          `gorm:"uniqueIndex;size:40;not null" json:"sale_number"`
	BranchID      uint            `gorm:"index" json:"branch_id"`
	UserID        uint            `json:"user_id"` // Who processed it
	CustomerID    *uint           `json:"customer_id"`
	Customer      *Customer       `json:"customer,omitempty"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod string          `gorm:"size:20;not null" json:"payment_method"`
	Status        string          `gorm:"size:20;not null" json:"status"`
	SaleTime      time.Time       `gorm:"index" json:"sale_time"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID" json:"items"`
}

// SaleItem - one cart line. TotalPrice is always Quantity * UnitPrice,
// recomputed whenever the quantity changes, never edited on its own.
type SaleItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	SaleID     uint            `gorm:"index" json:"sale_id"`
	ProductID  uint            `json:"product_id"`
	Product    Product         `json:"product"` // Preload product details
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"` // Snapshot at sale time
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
}
