package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	GenericName string         `json:"generic_name"`
	Brand       string         `json:"brand"`
	Category    string         `json:"category"` // e.g. "OTC", "prescription", "supplement"
	Unit        string         `json:"unit"`     // e.g. "tablet", "bottle", "box"
	Price       float64        `gorm:"not null" json:"price"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Suppliers   []Supplier     `gorm:"many2many:product_suppliers;" json:"suppliers,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
