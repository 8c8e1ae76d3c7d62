// internal/workers/uptake/export-records/models.go
package exportrecords

import "plan-uptake-workers/internal/export"

type Input struct {
	Format export.Format
	// Limit keeps only the most recent records; zero exports all of them.
	Limit int
}

type Output struct {
	ExportPath  string `json:"exportPath"`
	RecordCount int    `json:"recordCount"`
	Format      string `json:"exportFormat"`
}
