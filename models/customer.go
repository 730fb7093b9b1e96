package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a loyalty-program member. Walk-in sales carry no customer.
type Customer struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"index" json:"email"`
	Phone         string         `gorm:"index" json:"phone"`
	LoyaltyPoints int            `gorm:"default:0" json:"loyalty_points"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
