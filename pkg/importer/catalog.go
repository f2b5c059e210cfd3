package importer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/pharmstock/pkg/models"
)

// medicineUpsertColumns are the mutable attributes overwritten on a name
// conflict. Last writer wins for every one of them; there is no per-field
// merge, a re-import with a blank category blanks the stored category.
var medicineUpsertColumns = []string{
	"product_id_str",
	"category",
	"brand",
	"description",
	"stock_packets",
	"tablets_per_packet",
	"total_tablets",
	"price_per_tablet",
	"expiry_date",
}

// CatalogImporter loads product rows and reconciles them against the catalog
// by name. The write is a single bulk upsert: the whole batch commits or none
// of it does, because a half-imported catalog corrupts every later order
// lookup.
type CatalogImporter struct {
	db      *gorm.DB
	logger  *zap.Logger
	columns FieldMap
}

func NewCatalogImporter(db *gorm.DB, logger *zap.Logger, columns FieldMap) *CatalogImporter {
	if columns == nil {
		columns = DefaultProductColumns()
	}
	return &CatalogImporter{db: db, logger: logger, columns: columns}
}

func (ci *CatalogImporter) Import(ctx context.Context, table *Table) (*Report, error) {
	report := &Report{Attempted: len(table.Rows)}

	batch := make([]models.Medicine, 0, len(table.Rows))
	for i, row := range table.Rows {
		name, _ := CleanString(row.Get(ci.columns.Column(FieldName)), "")
		if name == "" {
			report.Skipped++
			continue
		}

		med, err := ci.normalizeRow(row, name)
		if err != nil {
			report.Failed++
			ci.logger.Warn("Skipping product row",
				zap.Int("row", i),
				zap.String("name", name),
				zap.Error(err))
			continue
		}
		batch = append(batch, med)
	}

	if len(batch) == 0 {
		return report, nil
	}

	err := ci.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns(medicineUpsertColumns),
		}).Create(&batch).Error
	})
	if err != nil {
		// All-or-nothing: the rollback leaves zero rows committed.
		report.Imported = 0
		report.Failed += len(batch)
		return report, fmt.Errorf("catalog upsert failed, batch rolled back: %w", err)
	}

	report.Imported = len(batch)
	return report, nil
}

func (ci *CatalogImporter) normalizeRow(row Record, name string) (models.Medicine, error) {
	cols := ci.columns

	tabletsPerPacket, _, err := CleanInt(row.Get(cols.Column(FieldTabletsPerPacket)), 1)
	if err != nil {
		return models.Medicine{}, fmt.Errorf("tablets per packet: %w", err)
	}
	stockPackets, _, err := CleanInt(row.Get(cols.Column(FieldStockPackets)), 0)
	if err != nil {
		return models.Medicine{}, fmt.Errorf("stock packets: %w", err)
	}
	pricePerTablet, _, err := CleanFloat(row.Get(cols.Column(FieldPricePerTablet)), 0)
	if err != nil {
		return models.Medicine{}, fmt.Errorf("price per tablet: %w", err)
	}
	pricePerPacket, _, err := CleanFloat(row.Get(cols.Column(FieldPricePerPacket)), 0)
	if err != nil {
		return models.Medicine{}, fmt.Errorf("price per packet: %w", err)
	}

	productCode, _ := CleanString(row.Get(cols.Column(FieldProductCode)), "")
	category, _ := CleanString(row.Get(cols.Column(FieldCategory)), "")
	brand, _ := CleanString(row.Get(cols.Column(FieldBrand)), "Generic")
	description, _ := CleanString(row.Get(cols.Column(FieldDescription)), "")

	med := models.Medicine{
		ProductCode:      productCode,
		Name:             name,
		Category:         category,
		Brand:            brand,
		Description:      description,
		StockPackets:     stockPackets,
		TabletsPerPacket: tabletsPerPacket,
		PricePerTablet:   DeriveUnitPrice(pricePerTablet, pricePerPacket, tabletsPerPacket),
	}

	if expiry, ok := ParseTimestamp(row.Get(cols.Column(FieldExpiryDate))); ok {
		med.ExpiryDate = &expiry
	}

	return med, nil
}
