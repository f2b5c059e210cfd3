package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&Medicine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMedicineTotalTabletsDerived(t *testing.T) {
	db := openTestDB(t)

	med := Medicine{Name: "Paracetamol", StockPackets: 4, TabletsPerPacket: 25}
	if err := db.Create(&med).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if med.TotalTablets != 100 {
		t.Fatalf("total tablets = %d, want 100", med.TotalTablets)
	}

	med.StockPackets = 7
	if err := db.Save(&med).Error; err != nil {
		t.Fatalf("save: %v", err)
	}
	if med.TotalTablets != 175 {
		t.Fatalf("total tablets after update = %d, want 175", med.TotalTablets)
	}
}

func TestMedicineTotalTabletsNotWritable(t *testing.T) {
	db := openTestDB(t)

	// A caller-supplied value is discarded; the hook always recomputes.
	med := Medicine{Name: "Ibuprofen", StockPackets: 2, TabletsPerPacket: 10, TotalTablets: 999}
	if err := db.Create(&med).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	var stored Medicine
	if err := db.Where("name = ?", "Ibuprofen").First(&stored).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.TotalTablets != 20 {
		t.Fatalf("total tablets = %d, want 20", stored.TotalTablets)
	}
}
