package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"meeting-recap/internal/app/model"
)

var headers = []string{
	"ID", "Run", "Stage", "Unit", "Outcome", "Processed At",
	"Duration (s)", "Audio (s)", "Input", "Output", "Error Message",
}

// ToExcel writes ledger records to a single-sheet workbook.
func ToExcel(records []model.UnitRecord, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Ledger")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().Value = h
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().SetInt64(r.ID)
		row.AddCell().Value = r.RunID
		row.AddCell().Value = string(r.Stage)
		row.AddCell().Value = r.Unit
		row.AddCell().Value = string(r.Outcome)
		row.AddCell().Value = r.ProcessedAt.Format(time.RFC3339)
		row.AddCell().Value = fmt.Sprintf("%.2f", r.Duration.Seconds())
		row.AddCell().Value = fmt.Sprintf("%.2f", r.AudioSeconds)
		row.AddCell().Value = r.InputPath
		row.AddCell().Value = r.OutputPath
		row.AddCell().Value = r.ErrorMessage
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save %s: %w", outputFilePath, err)
	}
	return nil
}
