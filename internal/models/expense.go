package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense categories written by the system itself
const (
	ExpenseCategoryCostOfGoods = "cost_of_goods"
)

// BranchExpense - money spent by a branch. Receiving stock records one of
// these automatically, tagged with the product, so purchases show up in the
// expense ledger without double entry.
type BranchExpense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BranchID    uint            `gorm:"index" json:"branch_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `json:"description"`
	Category    string          `gorm:"size:50;not null" json:"category"`
	ExpenseDate time.Time       `gorm:"index" json:"expense_date"`
	ProductID   *uint           `gorm:"index" json:"product_id"`
	CreatedBy   uint            `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}
