package importer

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/pharmstock/pkg/database"
)

// openTestDB gives each test its own in-memory store with the full schema.
// The pool is pinned to one connection so every statement sees the same
// in-memory database.
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

	if err := database.Init(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

// makeTable builds a Table the way ReadTable would, without a file.
func makeTable(headers []string, rows ...[]string) *Table {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	table := &Table{Path: "test.csv", Headers: normalized}
	for _, raw := range rows {
		row := make(Record, len(normalized))
		for i, cell := range raw {
			row[normalized[i]] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
