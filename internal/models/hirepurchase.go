package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Contract statuses
const (
	ContractStatusActive    = "active"
	ContractStatusCompleted = "completed"
	ContractStatusDefaulted = "defaulted"
	ContractStatusCancelled = "cancelled"
)

// Installment statuses. Overdue is not a stored status: it is derived from
// due_date + pending/partial wherever rows are surfaced.
const (
	InstallmentStatusPending = "pending"
	InstallmentStatusPartial = "partial"
	InstallmentStatusPaid    = "paid"
)

// HirePurchaseContract - the credit agreement header. Totals are fixed at
// creation time from the financing quote; only RemainingAmount and Status
// change afterwards.
type HirePurchaseContract struct {
	ID               uint                 `gorm:"primaryKey" json:"id"`
	ContractNumber   string               `gorm:"uniqueIndex;size:40;not null" json:"contract_number"`
	BranchID         uint                 `gorm:"index" json:"branch_id"`
	UserID           uint                 `json:"user_id"`
	CustomerID       uint                 `gorm:"index;not null" json:"customer_id"`
	Customer         Customer             `json:"customer"`
	Subtotal         decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DownPayment      decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"down_payment"`
	FinancedAmount   decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"financed_amount"`
	InterestRate     decimal.Decimal      `gorm:"type:decimal(5,2);not null" json:"interest_rate"` // annual %
	TotalInterest    decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"total_interest"`
	TotalAmount      decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	MonthlyPayment   decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"monthly_payment"`
	RemainingAmount  decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"remaining_amount"`
	TermMonths       int                  `gorm:"not null" json:"term_months"`
	FirstPaymentDate time.Time            `json:"first_payment_date"`
	Status           string               `gorm:"size:20;not null" json:"status"`
	Items            []HirePurchaseItem   `gorm:"foreignKey:ContractID" json:"items"`
	Installments     []InstallmentPayment `gorm:"foreignKey:ContractID" json:"installments"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// contractTransitions - the only legal status moves. Everything else is a bug
// at the call site, so Transition rejects it instead of trusting the caller.
var contractTransitions = map[string][]string{
	ContractStatusActive: {ContractStatusCompleted, ContractStatusDefaulted, ContractStatusCancelled},
}

// Transition moves the contract to a new status, rejecting illegal moves.
func (c *HirePurchaseContract) Transition(to string) error {
	for _, allowed := range contractTransitions[c.Status] {
		if allowed == to {
			c.Status = to
			return nil
		}
	}
	return fmt.Errorf("contract %s cannot move from %s to %s", c.ContractNumber, c.Status, to)
}

// HirePurchaseItem - one financed cart line
type HirePurchaseItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ContractID uint            `gorm:"index" json:"contract_id"`
	ProductID  uint            `json:"product_id"`
	Product    Product         `json:"product"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

// InstallmentPayment - one row of the repayment schedule.
// Numbers run 1..TermMonths and are unique per contract.
type InstallmentPayment struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ContractID        uint            `gorm:"index:idx_installments_contract_number,unique" json:"contract_id"`
	InstallmentNumber int             `gorm:"index:idx_installments_contract_number,unique" json:"installment_number"`
	DueDate           time.Time       `gorm:"index" json:"due_date"`
	AmountDue         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_due"`
	AmountPaid        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_paid"`
	Status            string          `gorm:"size:20;not null" json:"status"`
	PaymentDate       *time.Time      `json:"payment_date"`
	PaymentMethod     string          `gorm:"size:20" json:"payment_method"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InstallmentReceipt - one received payment against one installment.
// AmountPaid on the installment is a lifetime accumulator; receipts carry the
// per-payment amounts so period collection figures stay accurate.
type InstallmentReceipt struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ContractID    uint            `gorm:"index" json:"contract_id"`
	InstallmentID uint            `gorm:"index" json:"installment_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:20;not null" json:"payment_method"`
	PaidAt        time.Time       `gorm:"index" json:"paid_at"`
	ReceivedBy    uint            `json:"received_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ApplyPayment adds a received amount to the row. Overpayment is absorbed:
// AmountPaid may end up above AmountDue and the row is simply marked paid.
func (i *InstallmentPayment) ApplyPayment(amount decimal.Decimal, method string, on time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("payment amount must be positive")
	}
	if i.Status == InstallmentStatusPaid {
		return fmt.Errorf("installment %d is already paid", i.InstallmentNumber)
	}
	i.AmountPaid = i.AmountPaid.Add(amount)
	if i.AmountPaid.GreaterThanOrEqual(i.AmountDue) {
		i.Status = InstallmentStatusPaid
	} else {
		i.Status = InstallmentStatusPartial
	}
	i.PaymentDate = &on
	i.PaymentMethod = method
	return nil
}
