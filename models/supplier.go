package models

import "time"

type Supplier struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductSupplier is the join row carrying the negotiated unit cost.
type ProductSupplier struct {
	ProductID  uint    `gorm:"primaryKey" json:"product_id"`
	SupplierID uint    `gorm:"primaryKey" json:"supplier_id"`
	UnitCost   float64 `json:"unit_cost"`
}
