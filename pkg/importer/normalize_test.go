package importer

import (
	"testing"
	"time"
)

func TestCleanString(t *testing.T) {
	cases := []struct {
		in        string
		def       string
		want      string
		defaulted bool
	}{
		{"", "x", "x", true},
		{"   ", "x", "x", true},
		{"nan", "x", "x", true},
		{" NaN ", "x", "x", true},
		{" a ", "x", "a", false},
		{"Paracetamol", "", "Paracetamol", false},
	}
	for _, c := range cases {
		got, defaulted := CleanString(c.in, c.def)
		if got != c.want || defaulted != c.defaulted {
			t.Errorf("CleanString(%q, %q) = (%q, %v), want (%q, %v)",
				c.in, c.def, got, defaulted, c.want, c.defaulted)
		}
	}
}

func TestCleanInt(t *testing.T) {
	if n, defaulted, err := CleanInt("", 1); err != nil || n != 1 || !defaulted {
		t.Fatalf("missing cell: got (%d, %v, %v)", n, defaulted, err)
	}
	if n, defaulted, err := CleanInt(" 12 ", 1); err != nil || n != 12 || defaulted {
		t.Fatalf("numeric cell: got (%d, %v, %v)", n, defaulted, err)
	}
	if n, _, err := CleanInt("10.0", 1); err != nil || n != 10 {
		t.Fatalf("excel-style integer: got (%d, %v)", n, err)
	}
	if _, _, err := CleanInt("abc", 1); err == nil {
		t.Fatal("expected error for non-numeric cell")
	}
	if _, _, err := CleanInt("2.5", 1); err == nil {
		t.Fatal("expected error for fractional quantity")
	}
}

func TestCleanFloat(t *testing.T) {
	if f, defaulted, err := CleanFloat("nan", 0); err != nil || f != 0 || !defaulted {
		t.Fatalf("nan cell: got (%v, %v, %v)", f, defaulted, err)
	}
	if f, defaulted, err := CleanFloat("49.90", 0); err != nil || f != 49.90 || defaulted {
		t.Fatalf("numeric cell: got (%v, %v, %v)", f, defaulted, err)
	}
	if _, _, err := CleanFloat("free", 0); err == nil {
		t.Fatal("expected error for non-numeric cell")
	}
}

func TestDeriveUnitPrice(t *testing.T) {
	if got := DeriveUnitPrice(0, 100, 4); got != 25 {
		t.Errorf("DeriveUnitPrice(0, 100, 4) = %v, want 25", got)
	}
	if got := DeriveUnitPrice(0, 100, 0); got != 0 {
		t.Errorf("DeriveUnitPrice(0, 100, 0) = %v, want 0", got)
	}
	if got := DeriveUnitPrice(7, 100, 4); got != 7 {
		t.Errorf("DeriveUnitPrice(7, 100, 4) = %v, want 7", got)
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		`"Product Name" `:  "Product Name",
		"  Quantity":       "Quantity",
		"'Purchase Date' ": "Purchase Date",
		"Mobile number":    "Mobile number",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2022-05-01")
	if !ok {
		t.Fatal("expected 2022-05-01 to parse")
	}
	if ts.Year() != 2022 || ts.Month() != time.May || ts.Day() != 1 {
		t.Fatalf("unexpected time: %v", ts)
	}

	if _, ok := ParseTimestamp("14/07/2023 09:30"); !ok {
		t.Fatal("expected 14/07/2023 09:30 to parse")
	}
	if _, ok := ParseTimestamp("not a date"); ok {
		t.Fatal("expected garbage to fail")
	}
	if _, ok := ParseTimestamp(""); ok {
		t.Fatal("expected empty cell to fail")
	}
	if _, ok := ParseTimestamp("nan"); ok {
		t.Fatal("expected nan sentinel to fail")
	}
}
