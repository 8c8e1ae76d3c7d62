// internal/export/xlsx.go
package export

import (
	"fmt"
	"io"

	"plan-uptake-workers/internal/records"

	"github.com/xuri/excelize/v2"
)

const recordsSheet = "Records"

var xlsxHeaders = []string{
	"Record ID", "Created", "Scenario", "Table", "Table Version",
	"Age", "Gender", "Race", "Income", "Degree", "Good Health",
	"Efficacy Self", "Risk Self", "Cost Self", "Efficacy Others", "Risk Others", "Cost Others",
	"Class 1", "Class 1 Membership", "Class 1 Plan Probability",
	"Class 2", "Class 2 Membership", "Class 2 Plan Probability",
	"Uptake Probability", "Uptake",
}

// WriteXLSX writes one row per record to the Records sheet.
func WriteXLSX(w io.Writer, recs []records.SavedRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(recordsSheet, cell, h); err != nil {
			return err
		}
	}

	for r, rec := range recs {
		row := []interface{}{
			rec.ID.String(), rec.CreatedAt, rec.Scenario, rec.TableName, rec.TableVersion,
			rec.Profile.Age, string(rec.Profile.Gender), string(rec.Profile.Race), string(rec.Profile.Income),
			yesNo(rec.Profile.HasDegree), yesNo(rec.Profile.GoodHealth),
			rec.Attributes.EfficacySelf, rec.Attributes.RiskSelf, rec.Attributes.CostSelf,
			rec.Attributes.EfficacyOthers, rec.Attributes.RiskOthers, rec.Attributes.CostOthers,
			rec.ClassLabels[0], rec.ClassProbabilities[0], rec.ClassPlanProbabilities[0],
			rec.ClassLabels[1], rec.ClassProbabilities[1], rec.ClassPlanProbabilities[1],
			rec.Uptake, rec.FormattedUptake,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(recordsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
