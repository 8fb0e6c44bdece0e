package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
)

// Policy carries the rates used to calculate a payroll record.
type Policy struct {
	FederalRate        decimal.Decimal
	StateRate          decimal.Decimal
	LocalRate          decimal.Decimal
	HealthInsurance    decimal.Decimal
	RetirementRate     decimal.Decimal
	OvertimeMultiplier decimal.Decimal
	DaysPerMonth       int64
	HoursPerDay        int64
}

func DefaultPolicy() Policy {
	return Policy{
		FederalRate:        decimal.RequireFromString("0.15"),
		StateRate:          decimal.RequireFromString("0.05"),
		LocalRate:          decimal.Zero,
		HealthInsurance:    decimal.NewFromInt(200),
		RetirementRate:     decimal.RequireFromString("0.06"),
		OvertimeMultiplier: decimal.RequireFromString("1.5"),
		DaysPerMonth:       30,
		HoursPerDay:        8,
	}
}

// OvertimeRate is the hourly base rate times the overtime multiplier.
func (p Policy) OvertimeRate(base decimal.Decimal) decimal.Decimal {
	hours := decimal.NewFromInt(p.DaysPerMonth * p.HoursPerDay)
	if hours.IsZero() {
		return decimal.Zero
	}
	return base.Div(hours).Mul(p.OvertimeMultiplier)
}

// CalculationInput is everything Calculate needs about one employee and period.
type CalculationInput struct {
	EmployeeID      string
	BaseSalary      decimal.Decimal
	HealthInsurance bool
	Period          PayPeriod
	Attendance      []attendance.Attendance
	ProcessedBy     string
	ProcessedAt     time.Time
}

// Calculate builds a calculated record from base salary, benefits and the
// period's attendance. Bonuses and allowances start at zero.
func (p Policy) Calculate(in CalculationInput) Record {
	summary := SummarizeAttendance(in.Attendance)

	base := in.BaseSalary
	hours := decimal.NewFromFloat(summary.OvertimeHours)
	rate := p.OvertimeRate(base)

	health := decimal.Zero
	if in.HealthInsurance {
		health = p.HealthInsurance
	}

	processedBy := in.ProcessedBy
	processedAt := in.ProcessedAt
	r := Record{
		EmployeeID: in.EmployeeID,
		PayPeriod:  in.Period,
		Earnings: Earnings{
			BaseSalary: base,
			Overtime:   Overtime{Hours: hours, Rate: rate, Amount: hours.Mul(rate)},
		},
		Deductions: Deductions{
			Tax: Tax{
				Federal: base.Mul(p.FederalRate),
				State:   base.Mul(p.StateRate),
				Local:   base.Mul(p.LocalRate),
			},
			Insurance:  Insurance{Health: health},
			Retirement: base.Mul(p.RetirementRate),
		},
		Attendance:    summary,
		Status:        StatusCalculated,
		ProcessedBy:   &processedBy,
		ProcessedDate: &processedAt,
	}
	RecomputeTotals(&r)
	return r
}

// SummarizeAttendance counts days per status and sums overtime. Every record
// in the period counts as a working day.
func SummarizeAttendance(records []attendance.Attendance) AttendanceSummary {
	var s AttendanceSummary
	for _, a := range records {
		s.WorkingDays++
		switch a.Status {
		case attendance.StatusPresent, attendance.StatusLate:
			s.PresentDays++
		case attendance.StatusAbsent:
			s.AbsentDays++
		case attendance.StatusOnLeave:
			s.LeaveDays++
		}
		s.OvertimeHours += a.OvertimeHours
	}
	return s
}

// RecomputeTotals derives gross, deductions and net from the components. Net
// may be negative when deductions exceed gross.
func RecomputeTotals(r *Record) {
	e, d := r.Earnings, r.Deductions

	gross := e.BaseSalary.Add(e.Overtime.Amount).Add(e.Bonuses.Total()).Add(e.Allowances.Total())
	deductions := d.Tax.Total().Add(d.Insurance.Total()).Add(d.Retirement).Add(d.Other)

	r.Totals = Totals{
		GrossPay:        gross,
		TotalDeductions: deductions,
		NetPay:          gross.Sub(deductions),
	}
}

// Approve moves a calculated record to approved. ProcessedBy keeps whoever
// calculated it.
func (r *Record) Approve(approverID string) error {
	if r.Status != StatusCalculated {
		return ErrNotCalculated
	}
	r.Status = StatusApproved
	r.ApprovedBy = &approverID
	return nil
}

// CheckEditable reports whether a manual edit may move r to next. Only draft
// and calculated records are editable, and a status change may only advance
// draft to calculated.
func (r Record) CheckEditable(next *Status) error {
	switch r.Status {
	case StatusApproved:
		return ErrAlreadyApproved
	case StatusPaid:
		return ErrAlreadyPaid
	case StatusCancelled:
		return ErrAlreadyCancelled
	}
	if next == nil || *next == r.Status {
		return nil
	}
	if r.Status == StatusDraft && *next == StatusCalculated {
		return nil
	}
	return ErrStatusRegression
}

// MarkPaid moves an approved record to paid.
func (r *Record) MarkPaid(method PaymentMethod, at time.Time) error {
	if r.Status != StatusApproved {
		return ErrNotApproved
	}
	r.Status = StatusPaid
	r.PaymentMethod = &method
	r.PaymentDate = &at
	return nil
}

// Cancel withdraws any record that has not been paid.
func (r *Record) Cancel() error {
	switch r.Status {
	case StatusPaid:
		return ErrAlreadyPaid
	case StatusCancelled:
		return ErrAlreadyCancelled
	}
	r.Status = StatusCancelled
	return nil
}

// PayslipNumber formats the payslip identifier for an employee code.
func PayslipNumber(period PayPeriod, employeeCode string) string {
	return fmt.Sprintf("PS-%d-%02d-%s", period.Year, period.Month, employeeCode)
}
