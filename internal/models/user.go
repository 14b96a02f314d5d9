package models

import (
	"time"
)

// User - staff member operating the till or the back office
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'manager', 'cashier'
	BranchID     uint      `json:"branch_id"`
	CreatedAt    time.Time `json:"created_at"`
}
