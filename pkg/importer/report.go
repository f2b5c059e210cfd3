package importer

// Report summarizes one import run: every row is attempted, and ends up
// imported, skipped (no product name) or failed.
type Report struct {
	Attempted int `json:"attempted"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
