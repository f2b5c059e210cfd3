package importer

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Logical import fields. The mapping from these to source column names lives
// in configuration; the defaults below match the historical exports.
const (
	FieldName             = "name"
	FieldProductCode      = "product_code"
	FieldCategory         = "category"
	FieldBrand            = "brand"
	FieldDescription      = "description"
	FieldStockPackets     = "stock_packets"
	FieldTabletsPerPacket = "tablets_per_packet"
	FieldPricePerTablet   = "price_per_tablet"
	FieldPricePerPacket   = "price_per_packet"
	FieldExpiryDate       = "expiry_date"

	FieldCustomerName = "customer_name"
	FieldMobile       = "mobile"
	FieldTotalPrice   = "total_price"
	FieldQuantity     = "quantity"
	FieldPurchaseDate = "purchase_date"
)

// FieldMap resolves a logical field to the column name used in a source file.
type FieldMap map[string]string

func DefaultProductColumns() FieldMap {
	return FieldMap{
		FieldName:             "Product Name",
		FieldProductCode:      "Product ID",
		FieldCategory:         "Category",
		FieldBrand:            "Brand",
		FieldDescription:      "Description",
		FieldStockPackets:     "Total Packets",
		FieldTabletsPerPacket: "Tablets Per Packet",
		FieldPricePerTablet:   "Price Per Tablet",
		FieldPricePerPacket:   "Price Per Packet",
		// The historical export really spells it this way.
		FieldExpiryDate: "Expiray Date",
	}
}

func DefaultOrderColumns() FieldMap {
	return FieldMap{
		FieldName:         "Product Name",
		FieldCustomerName: "Name",
		FieldMobile:       "Mobile number",
		FieldTotalPrice:   "Total Price (EUR)",
		FieldQuantity:     "Quantity",
		FieldPurchaseDate: "Purchase Date",
	}
}

// Merge overlays non-empty overrides onto a copy of the defaults.
func (f FieldMap) Merge(overrides map[string]string) FieldMap {
	out := make(FieldMap, len(f))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Column returns the source column for a logical field, falling back to the
// field name itself so unmapped fields still resolve predictably.
func (f FieldMap) Column(field string) string {
	if col, ok := f[field]; ok {
		return col
	}
	return field
}

// Record is one source row keyed by normalized column header.
type Record map[string]string

func (r Record) Get(column string) string {
	return r[NormalizeHeader(column)]
}

// Table is a fully loaded source file.
type Table struct {
	Path    string
	Headers []string
	Rows    []Record
}

// ReadTable loads a CSV file with a header row. Headers are normalized before
// lookup. Any structural problem (unreadable file, ragged row) is a file-level
// error: nothing gets imported from a file that cannot be parsed whole.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = NormalizeHeader(h)
	}

	rows := make([]Record, 0, len(records)-1)
	for _, raw := range records[1:] {
		row := make(Record, len(headers))
		for i, cell := range raw {
			row[headers[i]] = cell
		}
		rows = append(rows, row)
	}

	return &Table{Path: path, Headers: headers, Rows: rows}, nil
}
