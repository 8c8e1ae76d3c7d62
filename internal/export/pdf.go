// internal/export/pdf.go
package export

import (
	"fmt"
	"io"
	"time"

	"plan-uptake-workers/internal/records"
	"plan-uptake-workers/internal/uptake"

	"github.com/go-pdf/fpdf"
)

type pdfColumn struct {
	title string
	width float64
	value func(records.SavedRecord) string
}

var pdfColumns = []pdfColumn{
	{"Created", 32, func(r records.SavedRecord) string { return r.CreatedAt.Format("2006-01-02 15:04") }},
	{"Scn", 10, func(r records.SavedRecord) string { return fmt.Sprintf("%d", r.Scenario) }},
	{"Age", 12, func(r records.SavedRecord) string { return fmt.Sprintf("%g", r.Profile.Age) }},
	{"Gender", 16, func(r records.SavedRecord) string { return string(r.Profile.Gender) }},
	{"Race", 14, func(r records.SavedRecord) string { return string(r.Profile.Race) }},
	{"Income", 14, func(r records.SavedRecord) string { return string(r.Profile.Income) }},
	{"Deg", 10, func(r records.SavedRecord) string { return yesNo(r.Profile.HasDegree) }},
	{"Health", 14, func(r records.SavedRecord) string { return yesNo(r.Profile.GoodHealth) }},
	{"Eff", 14, func(r records.SavedRecord) string { return fmt.Sprintf("%g", r.Attributes.EfficacySelf) }},
	{"Risk", 14, func(r records.SavedRecord) string { return fmt.Sprintf("%g", r.Attributes.RiskSelf) }},
	{"Cost", 16, func(r records.SavedRecord) string { return fmt.Sprintf("%g", r.Attributes.CostSelf) }},
	{"Others E/R/C", 28, othersSummary},
	{"Class membership", 62, membershipSummary},
	{"Uptake", 20, func(r records.SavedRecord) string { return fmt.Sprintf("%.2f%%", r.Uptake*100) }},
}

// pdfTableWidth is the printable width of a landscape A4 page with 10mm margins.
const pdfTableWidth = 277

// othersSummary folds the others attributes into one cell. Scenarios that do
// not model others show a dash.
func othersSummary(r records.SavedRecord) string {
	if !uptake.Scenario(r.Scenario).IncludesOthers() {
		return "-"
	}
	a := r.Attributes
	return fmt.Sprintf("%g / %g / %g", a.EfficacyOthers, a.RiskOthers, a.CostOthers)
}

// WritePDF renders records as a landscape A4 table.
func WritePDF(w io.Writer, title string, generated time.Time, recs []records.SavedRecord) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s  Records: %d", generated.UTC().Format("2 January 2006 15:04 MST"), len(recs)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(230, 236, 245)
		pdf.SetTextColor(0, 0, 0)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	pdf.SetHeaderFuncMode(func() {
		if pdf.PageNo() > 1 {
			writeHeader()
		}
	}, true)

	writeHeader()
	for _, rec := range recs {
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, c.value(rec), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
