package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/example/pharmstock/pkg/config"
	"github.com/example/pharmstock/pkg/models"
)

// Connect opens the Postgres store and applies pool limits. A connection
// failure is fatal to the caller; no importer runs without a reachable store.
func Connect(cfg *config.PostgresConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 20
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("Database connection established",
		zap.String("database", cfg.Database),
		zap.Int("max_open_conns", maxOpen))

	return db, nil
}

// Init ensures the four tables exist with their declared columns and
// constraints. The unique index on medicines.name is checked explicitly
// because earlier deployments created the table without it and every catalog
// upsert depends on it.
func Init(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Medicine{},
		&models.Order{},
		&models.OrderItem{},
		&models.Alert{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	migrator := db.Migrator()
	if !migrator.HasIndex(&models.Medicine{}, "idx_medicines_name") {
		if err := migrator.CreateIndex(&models.Medicine{}, "idx_medicines_name"); err != nil {
			return fmt.Errorf("failed to create unique index on medicines.name: %w", err)
		}
	}

	return nil
}

// Reset wipes all rows in dependency order so no import merges against stale
// data. Irreversible; only the explicit init mode calls it.
func Reset(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"order_items", "orders", "alerts", "medicines"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}
