package importer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/pharmstock/pkg/models"
)

// ImportedHistoryCategory marks medicines created implicitly because an order
// row referenced a name the catalog had never seen.
const ImportedHistoryCategory = "Imported History"

// rowCheckpoint is a nested transactional boundary scoped to one input row.
// Rolling it back undoes only that row's writes; sibling rows are unaffected.
type rowCheckpoint struct {
	tx   *gorm.DB
	name string
}

func beginRowCheckpoint(tx *gorm.DB, row int) (*rowCheckpoint, error) {
	cp := &rowCheckpoint{tx: tx, name: fmt.Sprintf("row_%d", row)}
	if err := tx.SavePoint(cp.name).Error; err != nil {
		return nil, fmt.Errorf("failed to create savepoint %s: %w", cp.name, err)
	}
	return cp, nil
}

func (cp *rowCheckpoint) Commit() error {
	// Names are generated internally, never taken from input rows.
	return cp.tx.Exec("RELEASE SAVEPOINT " + cp.name).Error
}

func (cp *rowCheckpoint) Rollback() error {
	return cp.tx.RollbackTo(cp.name).Error
}

// OrderImporter loads order-history rows. Each row runs inside its own
// checkpoint: the order header and its line commit together or roll back
// together, and one malformed row never aborts the batch.
type OrderImporter struct {
	db      *gorm.DB
	logger  *zap.Logger
	columns FieldMap
}

func NewOrderImporter(db *gorm.DB, logger *zap.Logger, columns FieldMap) *OrderImporter {
	if columns == nil {
		columns = DefaultOrderColumns()
	}
	return &OrderImporter{db: db, logger: logger, columns: columns}
}

func (oi *OrderImporter) Import(ctx context.Context, table *Table) (*Report, error) {
	report := &Report{Attempted: len(table.Rows)}

	err := oi.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, row := range table.Rows {
			name, _ := CleanString(row.Get(oi.columns.Column(FieldName)), "")
			if name == "" {
				report.Skipped++
				continue
			}

			cp, err := beginRowCheckpoint(tx, i)
			if err != nil {
				// Cannot isolate rows anymore; abort the batch.
				return err
			}

			if err := oi.importRow(tx, row, name); err != nil {
				if rbErr := cp.Rollback(); rbErr != nil {
					return fmt.Errorf("failed to roll back row %d: %w", i, rbErr)
				}
				report.Failed++
				oi.logger.Warn("Order row failed",
					zap.Int("row", i),
					zap.String("product", name),
					zap.Error(err))
				continue
			}

			if err := cp.Commit(); err != nil {
				return err
			}
			report.Imported++
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("order import aborted: %w", err)
	}

	return report, nil
}

func (oi *OrderImporter) importRow(tx *gorm.DB, row Record, name string) error {
	cols := oi.columns

	// Resolve the medicine first; its current price is captured into the line
	// and never re-read afterwards.
	var med models.Medicine
	err := tx.Where("name = ?", name).First(&med).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		med = models.Medicine{
			Name:             name,
			Category:         ImportedHistoryCategory,
			TabletsPerPacket: 1,
		}
		if err := tx.Create(&med).Error; err != nil {
			return fmt.Errorf("failed to create medicine %q: %w", name, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to look up medicine %q: %w", name, err)
	}

	quantity, _, err := CleanInt(row.Get(cols.Column(FieldQuantity)), 1)
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	if quantity < 1 {
		quantity = 1
	}
	totalPrice, _, err := CleanFloat(row.Get(cols.Column(FieldTotalPrice)), 0)
	if err != nil {
		return fmt.Errorf("total price: %w", err)
	}

	customer, _ := CleanString(row.Get(cols.Column(FieldCustomerName)), "")
	mobile, _ := CleanString(row.Get(cols.Column(FieldMobile)), "")

	order := models.Order{
		CustomerName: customer,
		Mobile:       mobile,
		TotalPrice:   totalPrice,
		Status:       "completed",
	}
	// An unparseable purchase date leaves CreatedAt zero so the import time
	// applies; the row itself still goes through.
	if purchased, ok := ParseTimestamp(row.Get(cols.Column(FieldPurchaseDate))); ok {
		order.CreatedAt = purchased
	}

	if err := tx.Create(&order).Error; err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	item := models.OrderItem{
		OrderID:     order.ID,
		MedicineID:  med.ID,
		Quantity:    quantity,
		PriceAtTime: med.PricePerTablet,
	}
	if err := tx.Create(&item).Error; err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}

	return nil
}
