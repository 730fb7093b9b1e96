package models

import "time"

// Lot is a received batch of a product with its own cost and expiry.
// The amount recorded at receipt never changes; current availability is
// derived from the stock transaction ledger.
type Lot struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LotNumber     string    `gorm:"not null;index" json:"lot_number"`
	ProductID     uint      `gorm:"not null;index" json:"product_id"`
	Product       Product   `gorm:"foreignKey:ProductID" json:"product"`
	InitialAmount int       `gorm:"not null" json:"initial_amount"`
	Cost          float64   `json:"cost"`
	AddedDate     time.Time `json:"added_date"`
	ExpiryDate    time.Time `gorm:"index" json:"expiry_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
