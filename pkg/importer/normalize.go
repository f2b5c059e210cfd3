package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CleanString maps missing sentinels (empty, whitespace-only, the literal text
// "nan" in any casing) to def and trims real values. The second return reports
// whether the default was applied.
func CleanString(v, def string) (string, bool) {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") {
		return def, true
	}
	return trimmed, false
}

// CleanInt coerces a cell to an int. A missing cell takes the default; text
// that is present but not numeric is an error so each importer can decide the
// row's fate.
func CleanInt(v string, def int) (int, bool, error) {
	s, defaulted := CleanString(v, "")
	if defaulted {
		return def, true, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Excel exports integers as "10.0" often enough to tolerate it.
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == float64(int(f)) {
			return int(f), false, nil
		}
		return def, false, fmt.Errorf("not an integer: %q", s)
	}
	return n, false, nil
}

// CleanFloat coerces a cell to a float64 with the same contract as CleanInt.
func CleanFloat(v string, def float64) (float64, bool, error) {
	s, defaulted := CleanString(v, "")
	if defaulted {
		return def, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def, false, fmt.Errorf("not a number: %q", s)
	}
	return f, false, nil
}

// DeriveUnitPrice resolves a per-tablet price: the direct value when it is
// positive, otherwise derived from the packet price. A zero or missing packet
// size yields 0 rather than a division fault.
func DeriveUnitPrice(direct, perPacket float64, tabletsPerPacket int) float64 {
	if direct > 0 {
		return direct
	}
	if tabletsPerPacket > 0 {
		return perPacket / float64(tabletsPerPacket)
	}
	return 0
}

// NormalizeHeader strips surrounding whitespace and stray quote characters
// from a source column header, tolerating formatting drift between exports.
func NormalizeHeader(h string) string {
	h = strings.ReplaceAll(h, `"`, "")
	h = strings.ReplaceAll(h, "'", "")
	return strings.TrimSpace(h)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"1/2/2006 15:04",
	"1/2/2006",
	"02-01-2006",
}

// ParseTimestamp interprets a raw cell as a timestamp. It never errors: an
// unparseable or missing value returns ok=false and the caller falls back to
// the store's own default.
func ParseTimestamp(v string) (time.Time, bool) {
	s, defaulted := CleanString(v, "")
	if defaulted {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
