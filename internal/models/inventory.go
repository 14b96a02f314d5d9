package models

import (
	"time"
)

// Movement types. Quantity is signed: positive for 'in', negative for 'out'
// and 'product_removed'.
const (
	MovementTypeIn      = "in"
	MovementTypeOut     = "out"
	MovementTypeRemoved = "product_removed"
)

// Reference types tying a movement back to the document that caused it
const (
	MovementRefSale     = "sale"
	MovementRefContract = "hire_purchase_contract"
	MovementRefTransfer = "transfer"
	MovementRefReceive  = "receiving"
	MovementRefRemoval  = "removal"
)

// InventoryMovement - append-only stock audit row. Written in the same
// transaction as the stock change it records, so the log always reconciles.
type InventoryMovement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"index" json:"product_id"`
	BranchID      uint      `gorm:"index" json:"branch_id"`
	Type          string    `gorm:"size:30;not null" json:"type"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	Notes         string    `json:"notes"`
	ReferenceType string    `gorm:"size:40" json:"reference_type"`
	ReferenceID   uint      `json:"reference_id"`
	CreatedBy     uint      `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}
