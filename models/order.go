package models

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING" // created at checkout, awaiting payment
	OrderStatusPaid    OrderStatus = "PAID"    // gateway reported a succeeded charge
	OrderStatusFailed  OrderStatus = "FAILED"  // a gateway step failed after the row was persisted
)

type Order struct {
	ID                uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderRef          string      `gorm:"uniqueIndex;not null" json:"order_ref"`
	EmployeeID        uint        `gorm:"not null" json:"employee_id"`
	Employee          Employee    `gorm:"foreignKey:EmployeeID" json:"employee"`
	CustomerID        *uint       `json:"customer_id,omitempty"`
	Customer          *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items             []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount       float64     `json:"total_amount"`
	TotalPrice        float64     `json:"total_price"`
	Status            OrderStatus `gorm:"type:VARCHAR(20);default:'PENDING';index" json:"status"`
	PaymentMethodType string      `json:"payment_method_type"`
	CreatedAt         time.Time   `gorm:"index" json:"created_at"`
}

type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index" json:"order_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}
