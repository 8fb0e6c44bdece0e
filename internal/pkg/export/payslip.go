// Package export renders reports into downloadable documents.
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/vijaygla/HRMS-sub000/internal/domain/payroll"
)

const PDFContentType = "application/pdf"

type line struct {
	label  string
	amount decimal.Decimal
}

// WritePayslipPDF renders an A4 payslip to w.
func WritePayslipPDF(w io.Writer, slip payroll.PayslipResponse) error {
	p := slip.Payroll
	e, d := p.Earnings, p.Deductions

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+slip.PayslipNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := []string{
		"Payslip No: " + slip.PayslipNumber,
		"Generated: " + slip.GeneratedDate,
		fmt.Sprintf("Employee: %s (%s)", deref(p.EmployeeName), deref(p.EmployeeCode)),
		"Department: " + deref(p.DepartmentName),
		fmt.Sprintf("Period: %s to %s", p.PayPeriod.StartDate, p.PayPeriod.EndDate),
	}
	for _, h := range header {
		pdf.Cell(0, 7, h)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	section(pdf, "Earnings", []line{
		{"Base salary", e.BaseSalary},
		{fmt.Sprintf("Overtime (%s h)", e.Overtime.Hours.StringFixed(2)), e.Overtime.Amount},
		{"Bonuses", e.Bonuses.Total()},
		{"Allowances", e.Allowances.Total()},
	}, line{"Gross pay", p.Calculations.GrossPay})

	section(pdf, "Deductions", []line{
		{"Federal tax", d.Tax.Federal},
		{"State tax", d.Tax.State},
		{"Local tax", d.Tax.Local},
		{"Insurance", d.Insurance.Total()},
		{"Retirement", d.Retirement},
		{"Other", d.Other},
	}, line{"Total deductions", p.Calculations.TotalDeductions})

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(120, 9, "Net pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, p.Calculations.NetPay.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Working days: %d  Present: %d  Absent: %d  Leave: %d",
		p.Attendance.WorkingDays, p.Attendance.PresentDays, p.Attendance.AbsentDays, p.Attendance.LeaveDays))

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string, lines []line, total line) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		pdf.CellFormat(120, 7, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, l.amount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 7, total.label, "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, total.amount.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
