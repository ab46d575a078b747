package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// writeAttendanceWorkbook renders the attendance summary as a single
// sheet workbook.
func writeAttendanceWorkbook(rows []AttendanceSummaryRow, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance Summary"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := []interface{}{"Worker", "Present Days", "Absent Days", "Late Days", "Total Hours"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "E1", headerStyle)
	}

	for i, row := range rows {
		var hours float64
		if row.TotalHours != nil {
			hours = *row.TotalHours
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.FullName, row.PresentDays, row.AbsentDays, row.LateDays, hours}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "E", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
