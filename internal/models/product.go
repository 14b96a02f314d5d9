package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product - one catalog item owned by one branch.
// The same furniture piece stocked at two branches is two rows sharing a Code.
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:200;not null" json:"name"`
	Code          string          `gorm:"size:64;index:idx_products_code_branch,unique" json:"code"`
	BranchID      uint            `gorm:"index:idx_products_code_branch,unique" json:"branch_id"`
	Category      string          `gorm:"size:100" json:"category"`
	Brand         string          `gorm:"size:100" json:"brand"`
	Model         string          `gorm:"size:100" json:"model"`
	Description   string          `json:"description"`
	Location      string          `gorm:"size:100" json:"location"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	MinStockLevel int             `gorm:"not null;default:0" json:"min_stock_level"`
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
