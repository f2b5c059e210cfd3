package models

import (
	"time"

	"gorm.io/gorm"
)

// Medicine is a sellable catalog entry. Name is the natural key: imports
// reconcile against it, so it carries the unique index the upsert relies on.
type Medicine struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ProductCode       string     `gorm:"column:product_id_str;type:varchar(50)" json:"product_code"`
	Name              string     `gorm:"type:varchar(255);uniqueIndex:idx_medicines_name;not null" json:"name"`
	Category          string     `gorm:"type:varchar(100)" json:"category"`
	Brand             string     `gorm:"type:varchar(255)" json:"brand"`
	Description       string     `gorm:"type:text" json:"description"`
	StockPackets      int        `gorm:"not null;default:0" json:"stock_packets"`
	TabletsPerPacket  int        `gorm:"not null" json:"tablets_per_packet"`
	TotalTablets      int        `gorm:"not null;default:0" json:"total_tablets"`
	PricePerTablet    float64    `gorm:"type:decimal(10,2);not null;default:0" json:"price_per_tablet"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	LowStockThreshold int        `gorm:"default:30" json:"low_stock_threshold"`
	IsDeleted         bool       `gorm:"default:false" json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (Medicine) TableName() string {
	return "medicines"
}

// BeforeSave keeps total_tablets derived from its two factors. The column is
// never written directly; every insert and update recomputes it here.
func (m *Medicine) BeforeSave(tx *gorm.DB) error {
	m.TotalTablets = m.StockPackets * m.TabletsPerPacket
	return nil
}
