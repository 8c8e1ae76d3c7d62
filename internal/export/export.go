// internal/export/export.go

// Package export renders saved records as PDF or XLSX reports.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"plan-uptake-workers/internal/records"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case FormatPDF, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", v)
}

// Exporter writes report files into one output directory.
type Exporter struct {
	dir   string
	title string
	now   func() time.Time
}

func NewExporter(dir, title string) *Exporter {
	return &Exporter{dir: dir, title: title, now: time.Now}
}

// Export writes records to a new file and returns its path.
func (e *Exporter) Export(recs []records.SavedRecord, format Format) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	name := fmt.Sprintf("uptake-records-%s.%s", e.now().UTC().Format("20060102T150405.000000000"), format)
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	switch format {
	case FormatPDF:
		err = WritePDF(f, e.title, e.now(), recs)
	case FormatXLSX:
		err = WriteXLSX(f, recs)
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func membershipSummary(rec records.SavedRecord) string {
	return strings.ReplaceAll(rec.FormattedMembership, "\n", "; ")
}
