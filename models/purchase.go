package models

import (
	"time"

	"gorm.io/gorm"
)

// POSignature is an uploaded signature image attached to a purchase document.
type POSignature struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SignerName string    `json:"signer_name"`
	FileName   string    `gorm:"not null" json:"file_name"`
	FileURL    string    `gorm:"not null" json:"file_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// PurchaseDocument is the metadata record behind a generated PO PDF. The
// rendered file itself lives with the external rendering service.
type PurchaseDocument struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentNo    string       `gorm:"uniqueIndex;not null" json:"document_no"`
	SupplierID    uint         `gorm:"not null" json:"supplier_id"`
	Supplier      Supplier     `gorm:"foreignKey:SupplierID" json:"supplier"`
	IssueDate     time.Time    `json:"issue_date"`
	Status        string       `gorm:"type:VARCHAR(20);default:'draft'" json:"status"`
	Total         float64      `json:"total"`
	FileURL       string       `json:"file_url"`
	POSignatureID *uint        `json:"po_signature_id,omitempty"`
	POSignature   *POSignature `gorm:"foreignKey:POSignatureID" json:"po_signature,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func SavePOSignature(db *gorm.DB, signerName, fileName, fileURL string) (*POSignature, error) {
	sig := &POSignature{
		SignerName: signerName,
		FileName:   fileName,
		FileURL:    fileURL,
	}
	if err := db.Create(sig).Error; err != nil {
		return nil, err
	}
	return sig, nil
}
