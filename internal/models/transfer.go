package models

import (
	"fmt"
	"time"
)

// Transfer statuses
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// ProductTransfer - a two-phase move of stock between branches.
// The origin loses the quantity at creation; the destination gains it only
// at confirmed completion. In between the quantity is counted nowhere.
type ProductTransfer struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProductID    uint       `gorm:"index;not null" json:"product_id"`
	Product      Product    `json:"product"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	FromBranchID uint       `gorm:"index;not null" json:"from_branch_id"`
	ToBranchID   uint       `gorm:"index;not null" json:"to_branch_id"`
	Status       string     `gorm:"size:20;not null" json:"status"`
	Notes        string     `json:"notes"`
	InitiatedBy  uint       `json:"initiated_by"`
	CompletedBy  *uint      `json:"completed_by"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MarkCompleted flips a pending transfer to completed. Completing an
// already-completed or cancelled transfer is rejected.
func (t *ProductTransfer) MarkCompleted(by uint, at time.Time) error {
	if t.Status != TransferStatusPending {
		return fmt.Errorf("transfer %d is %s, only pending transfers can be completed", t.ID, t.Status)
	}
	t.Status = TransferStatusCompleted
	t.CompletedBy = &by
	t.CompletedAt = &at
	return nil
}

// MarkCancelled flips a pending transfer to cancelled so the origin stock
// can be restored. Completed transfers stay completed.
func (t *ProductTransfer) MarkCancelled() error {
	if t.Status != TransferStatusPending {
		return fmt.Errorf("transfer %d is %s, only pending transfers can be cancelled", t.ID, t.Status)
	}
	t.Status = TransferStatusCancelled
	return nil
}
