package models

import (
	"time"
)

// Order is created exactly once per imported history row or intake request and
// never updated afterwards. CreatedAt is left zero when the source purchase
// date is unparseable so the import time applies instead.
type Order struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerName string    `gorm:"type:varchar(255)" json:"customer_name"`
	Mobile       string    `gorm:"type:varchar(20)" json:"mobile"`
	TotalPrice   float64   `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status       string    `gorm:"type:varchar(50);default:'completed'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem captures the medicine's price at the moment the line was written,
// independent of later catalog price changes.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"not null;index" json:"order_id"`
	MedicineID  uint    `gorm:"not null;index" json:"medicine_id"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	PriceAtTime float64 `gorm:"type:decimal(10,2);not null" json:"price_at_time"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
