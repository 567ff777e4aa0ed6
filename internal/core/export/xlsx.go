package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "勤務実績"

// WriteXLSX は出力行を XLSX ブックとして書き出します。列構成は CSV と
// 同一です。
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheetName, "A1", &header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(Headers))
		_ = f.SetCellStyle(xlsxSheetName, "A1", lastCol+"1", headerStyle)
	}

	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []any{
			r.ShiftID,
			r.Date,
			string(r.Department),
			r.Title,
			string(r.JobRole),
			r.AssignedUserID,
			r.AssignedUserName,
			r.StartTime,
			r.EndTime,
			r.Hours,
			r.HourlyRateBoost,
			r.AllowanceTotal,
			r.StatusLabel,
		}
		if err := f.SetSheetRow(xlsxSheetName, cell, &values); err != nil {
			return fmt.Errorf("export: write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
