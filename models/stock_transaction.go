package models

import "time"

type StockTransactionType string

const (
	StockIn     StockTransactionType = "IN"
	StockOut    StockTransactionType = "OUT"
	StockAdjust StockTransactionType = "ADJUST"
)

// StockTransaction is an append-only ledger entry against a lot. Rows are
// never updated or deleted; on-hand quantity is a sum over the ledger.
type StockTransaction struct {
	ID        uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      StockTransactionType `gorm:"type:VARCHAR(10);not null;index" json:"type"`
	Quantity  int                  `gorm:"not null" json:"quantity"`
	Date      time.Time            `gorm:"index" json:"date"`
	RefNo     string               `gorm:"index" json:"ref_no"`
	Note      string               `json:"note"`
	LotID     uint                 `gorm:"not null;index" json:"lot_id"`
	Lot       Lot                  `gorm:"foreignKey:LotID" json:"lot"`
	CreatedAt time.Time            `json:"created_at"`
}
