package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusCalculated Status = "calculated"
	StatusApproved   Status = "approved"
	StatusPaid       Status = "paid"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusCalculated, StatusApproved, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// IsReleased reports whether the record is visible to the employee it pays.
func (s Status) IsReleased() bool {
	return s == StatusApproved || s == StatusPaid
}

type PaymentMethod string

const (
	PaymentBankTransfer  PaymentMethod = "bank-transfer"
	PaymentCheck         PaymentMethod = "check"
	PaymentCash          PaymentMethod = "cash"
	PaymentDigitalWallet PaymentMethod = "digital-wallet"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentBankTransfer, PaymentCheck, PaymentCash, PaymentDigitalWallet:
		return true
	}
	return false
}

type PayPeriod struct {
	Month     int
	Year      int
	StartDate time.Time
	EndDate   time.Time
}

// PayPeriodFor returns the calendar month as an inclusive [first, last] range.
func PayPeriodFor(month, year int) PayPeriod {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return PayPeriod{
		Month:     month,
		Year:      year,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, -1),
	}
}

type Overtime struct {
	Hours  decimal.Decimal `json:"hours"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

type Bonuses struct {
	Performance decimal.Decimal `json:"performance"`
	Holiday     decimal.Decimal `json:"holiday"`
	Other       decimal.Decimal `json:"other"`
}

func (b Bonuses) Total() decimal.Decimal {
	return b.Performance.Add(b.Holiday).Add(b.Other)
}

type Allowances struct {
	Transport decimal.Decimal `json:"transport"`
	Meal      decimal.Decimal `json:"meal"`
	Housing   decimal.Decimal `json:"housing"`
	Other     decimal.Decimal `json:"other"`
}

func (a Allowances) Total() decimal.Decimal {
	return a.Transport.Add(a.Meal).Add(a.Housing).Add(a.Other)
}

type Earnings struct {
	BaseSalary decimal.Decimal `json:"base_salary"`
	Overtime   Overtime        `json:"overtime"`
	Bonuses    Bonuses         `json:"bonuses"`
	Allowances Allowances      `json:"allowances"`
}

type Tax struct {
	Federal decimal.Decimal `json:"federal"`
	State   decimal.Decimal `json:"state"`
	Local   decimal.Decimal `json:"local"`
}

func (t Tax) Total() decimal.Decimal {
	return t.Federal.Add(t.State).Add(t.Local)
}

type Insurance struct {
	Health decimal.Decimal `json:"health"`
	Dental decimal.Decimal `json:"dental"`
	Vision decimal.Decimal `json:"vision"`
	Life   decimal.Decimal `json:"life"`
}

func (i Insurance) Total() decimal.Decimal {
	return i.Health.Add(i.Dental).Add(i.Vision).Add(i.Life)
}

type Deductions struct {
	Tax        Tax             `json:"tax"`
	Insurance  Insurance       `json:"insurance"`
	Retirement decimal.Decimal `json:"retirement"`
	Other      decimal.Decimal `json:"other"`
}

// AttendanceSummary is the attendance snapshot a record was calculated from.
type AttendanceSummary struct {
	WorkingDays   int     `json:"working_days"`
	PresentDays   int     `json:"present_days"`
	AbsentDays    int     `json:"absent_days"`
	LeaveDays     int     `json:"leave_days"`
	OvertimeHours float64 `json:"overtime_hours"`
}

type Totals struct {
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
}

type Record struct {
	ID            string
	EmployeeID    string
	PayPeriod     PayPeriod
	Earnings      Earnings
	Deductions    Deductions
	Attendance    AttendanceSummary
	Totals        Totals
	Status        Status
	PaymentDate   *time.Time
	PaymentMethod *PaymentMethod
	ApprovedBy    *string
	ProcessedBy   *string
	ProcessedDate *time.Time
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	EmployeeCode   *string
	EmployeeName   *string
	DepartmentName *string
}

// PeriodTotals sums released records for one scope.
type PeriodTotals struct {
	EmployeeCount   int             `json:"employee_count"`
	TotalGrossPay   decimal.Decimal `json:"total_gross_pay"`
	TotalNetPay     decimal.Decimal `json:"total_net_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	AverageGrossPay decimal.Decimal `json:"average_gross_pay"`
	AverageNetPay   decimal.Decimal `json:"average_net_pay"`
}

type MonthTrend struct {
	Month         int             `json:"month"`
	EmployeeCount int             `json:"employee_count"`
	TotalGrossPay decimal.Decimal `json:"total_gross_pay"`
	TotalNetPay   decimal.Decimal `json:"total_net_pay"`
}
