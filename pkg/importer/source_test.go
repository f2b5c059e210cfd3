package importer

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestReadTableNormalizesHeaders(t *testing.T) {
	path := writeTempCSV(t, "Product Name ,'Quantity'\nParacetamol,3\n")

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	if got := table.Rows[0].Get("Product Name"); got != "Paracetamol" {
		t.Errorf("Product Name = %q", got)
	}
	if got := table.Rows[0].Get("Quantity"); got != "3" {
		t.Errorf("Quantity = %q", got)
	}
}

func TestReadTableRejectsRaggedRows(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,2\n3\n")
	if _, err := ReadTable(path); err == nil {
		t.Fatal("expected error for ragged row")
	}
}

func TestReadTableMissingFile(t *testing.T) {
	if _, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFieldMapMerge(t *testing.T) {
	columns := DefaultProductColumns().Merge(map[string]string{
		FieldName:       "Medicine",
		FieldExpiryDate: "",
	})
	if got := columns.Column(FieldName); got != "Medicine" {
		t.Errorf("override ignored: %q", got)
	}
	// Empty overrides keep the default.
	if got := columns.Column(FieldExpiryDate); got != "Expiray Date" {
		t.Errorf("empty override replaced default: %q", got)
	}
	// Unmapped fields resolve to themselves.
	if got := columns.Column("whatever"); got != "whatever" {
		t.Errorf("fallback = %q", got)
	}
}
