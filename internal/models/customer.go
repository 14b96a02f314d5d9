package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer types
const (
	CustomerTypeCash         = "cash"
	CustomerTypeHirePurchase = "hire-purchase"
)

// Customer - a buyer. Hire-purchase customers carry the extra credit-check
// fields; cash customers usually just have a name and phone.
type Customer struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Type    string `gorm:"size:20;not null;default:cash" json:"type"`
	Name    string `gorm:"size:200;not null" json:"name"`
	Phone   string `gorm:"size:30;not null;index" json:"phone"`
	Email   string `gorm:"size:200" json:"email"`
	Address string `json:"address"`
	City    string `gorm:"size:100" json:"city"`
	Region  string `gorm:"size:100" json:"region"`

	// Hire-purchase applicant details
	NationalID    string          `gorm:"size:50" json:"national_id"`
	Occupation    string          `gorm:"size:100" json:"occupation"`
	MonthlyIncome decimal.Decimal `gorm:"type:decimal(12,2)" json:"monthly_income"`
	References    string          `json:"references"`

	Images    []CustomerImage `gorm:"foreignKey:CustomerID" json:"images"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CustomerImage - gallery entry; at most one per customer is primary.
// Primary resolution happens at read time, it is not denormalized onto Customer.
type CustomerImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	URL        string    `gorm:"not null" json:"url"`
	IsPrimary  bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
}
