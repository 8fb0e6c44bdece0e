package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
)

const reportSheet = "Attendance"

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var reportHeader = []any{
	"Employee Code", "Employee Name", "Department", "Total Days", "Present", "Late",
	"Absent", "Half Day", "On Leave", "Working Hours", "Overtime Hours",
}

// WriteAttendanceReportXLSX writes one row per employee to a single-sheet workbook.
func WriteAttendanceReportXLSX(w io.Writer, report attendance.ReportResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	title := fmt.Sprintf("Attendance report %s to %s", report.StartDate, report.EndDate)
	if err := f.SetCellValue(reportSheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetSheetRow(reportSheet, "A3", &reportHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(reportSheet, 3, 3, bold); err != nil {
		return err
	}

	for i, r := range report.Rows {
		department := ""
		if r.DepartmentName != nil {
			department = *r.DepartmentName
		}
		row := []any{
			r.EmployeeCode, r.EmployeeName, department, r.TotalDays, r.PresentDays, r.LateDays,
			r.AbsentDays, r.HalfDays, r.LeaveDays, r.TotalWorkingHours, r.TotalOvertimeHours,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(reportSheet, "A", "C", 22); err != nil {
		return err
	}

	return f.Write(w)
}

// AttendanceReportFilename names the download for a report range.
func AttendanceReportFilename(report attendance.ReportResponse) string {
	return fmt.Sprintf("attendance-report-%s-to-%s.xlsx", report.StartDate, report.EndDate)
}
