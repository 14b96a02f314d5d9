package models

import (
	"time"
)

// Branch - a physical shop location
type Branch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Address   string    `json:"address"`
	Phone     string    `gorm:"size:30" json:"phone"`
	ManagerID *uint     `json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
