package models

import (
	"time"
)

// Alert is schema-only here: rows are produced by the alerting service, the
// import pipeline just owns the table's lifecycle.
type Alert struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MedicineID uint      `gorm:"index" json:"medicine_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Type       string    `gorm:"type:varchar(50)" json:"type"`
	IsResolved bool      `gorm:"default:false" json:"is_resolved"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Alert) TableName() string {
	return "alerts"
}
