package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

// ========================================
// COMMAND DTOs
// ========================================

type CalculatePayrollRequest struct {
	EmployeeID string `json:"-"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (r *CalculatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	validatePeriod(&errs, r.Month, r.Year)

	return errs.Err()
}

type CreatePayrollRequest struct {
	EmployeeID    string         `json:"employee_id"`
	Month         int            `json:"month"`
	Year          int            `json:"year"`
	Earnings      Earnings       `json:"earnings"`
	Deductions    Deductions     `json:"deductions"`
	Status        *Status        `json:"status,omitempty"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	validatePeriod(&errs, r.Month, r.Year)
	if r.Earnings.BaseSalary.LessThanOrEqual(decimal.Zero) {
		errs.Add("earnings.base_salary", "base_salary must be greater than 0")
	}
	validateComponents(&errs, r.Earnings, r.Deductions)
	if r.Status != nil && *r.Status != StatusDraft && *r.Status != StatusCalculated {
		errs.Add("status", "status must be one of: draft, calculated")
	}
	if r.PaymentMethod != nil && !r.PaymentMethod.IsValid() {
		errs.Add("payment_method", "payment_method must be one of: bank-transfer, check, cash, digital-wallet")
	}

	return errs.Err()
}

// ToRecord maps the request onto a new record; totals are left to RecomputeTotals.
func (r CreatePayrollRequest) ToRecord() Record {
	status := StatusDraft
	if r.Status != nil {
		status = *r.Status
	}
	return Record{
		EmployeeID:    r.EmployeeID,
		PayPeriod:     PayPeriodFor(r.Month, r.Year),
		Earnings:      r.Earnings,
		Deductions:    r.Deductions,
		Status:        status,
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}
}

type UpdatePayrollRequest struct {
	ID            string         `json:"-"`
	Earnings      *Earnings      `json:"earnings,omitempty"`
	Deductions    *Deductions    `json:"deductions,omitempty"`
	Status        *Status        `json:"status,omitempty"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	earnings := Earnings{BaseSalary: decimal.NewFromInt(1)}
	if r.Earnings != nil {
		earnings = *r.Earnings
		if earnings.BaseSalary.LessThanOrEqual(decimal.Zero) {
			errs.Add("earnings.base_salary", "base_salary must be greater than 0")
		}
	}
	var deductions Deductions
	if r.Deductions != nil {
		deductions = *r.Deductions
	}
	validateComponents(&errs, earnings, deductions)
	if r.Status != nil && *r.Status != StatusDraft && *r.Status != StatusCalculated {
		errs.Add("status", "status must be one of: draft, calculated")
	}
	if r.PaymentMethod != nil && !r.PaymentMethod.IsValid() {
		errs.Add("payment_method", "payment_method must be one of: bank-transfer, check, cash, digital-wallet")
	}

	return errs.Err()
}

// Apply copies the set fields onto rec. The caller recomputes totals.
func (r *UpdatePayrollRequest) Apply(rec *Record) {
	if r.Earnings != nil {
		rec.Earnings = *r.Earnings
	}
	if r.Deductions != nil {
		rec.Deductions = *r.Deductions
	}
	if r.Status != nil {
		rec.Status = *r.Status
	}
	if r.PaymentMethod != nil {
		rec.PaymentMethod = r.PaymentMethod
	}
	if r.Notes != nil {
		rec.Notes = r.Notes
	}
}

type MarkPaidRequest struct {
	ID            string        `json:"-"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentDate   *string       `json:"payment_date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = PaymentBankTransfer
	}
	if !r.PaymentMethod.IsValid() {
		errs.Add("payment_method", "payment_method must be one of: bank-transfer, check, cash, digital-wallet")
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs.Add("payment_date", "payment_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// PaidAt returns the requested payment date, or now when none was given.
func (r MarkPaidRequest) PaidAt(now time.Time) time.Time {
	if r.PaymentDate == nil {
		return now
	}
	t, _ := validator.IsValidDate(*r.PaymentDate)
	return t
}

func validatePeriod(errs *validator.ValidationErrors, month, year int) {
	if month < 1 || month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
}

func validateComponents(errs *validator.ValidationErrors, e Earnings, d Deductions) {
	amounts := map[string]decimal.Decimal{
		"earnings.overtime.hours":       e.Overtime.Hours,
		"earnings.overtime.rate":        e.Overtime.Rate,
		"earnings.overtime.amount":      e.Overtime.Amount,
		"earnings.bonuses.performance":  e.Bonuses.Performance,
		"earnings.bonuses.holiday":      e.Bonuses.Holiday,
		"earnings.bonuses.other":        e.Bonuses.Other,
		"earnings.allowances.transport": e.Allowances.Transport,
		"earnings.allowances.meal":      e.Allowances.Meal,
		"earnings.allowances.housing":   e.Allowances.Housing,
		"earnings.allowances.other":     e.Allowances.Other,
		"deductions.tax.federal":        d.Tax.Federal,
		"deductions.tax.state":          d.Tax.State,
		"deductions.tax.local":          d.Tax.Local,
		"deductions.insurance.health":   d.Insurance.Health,
		"deductions.insurance.dental":   d.Insurance.Dental,
		"deductions.insurance.vision":   d.Insurance.Vision,
		"deductions.insurance.life":     d.Insurance.Life,
		"deductions.retirement":         d.Retirement,
		"deductions.other":              d.Other,
	}
	for field, amount := range amounts {
		if amount.IsNegative() {
			errs.Add(field, field+" must not be negative")
		}
	}
}

// ========================================
// QUERY DTOs
// ========================================

type PayrollFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Month      *int    `json:"month,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Status     *string `json:"status,omitempty"`

	pagination.Params
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Params.Normalize(&errs)
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: draft, calculated, approved, paid, cancelled")
	}

	return errs.Err()
}

type MyPayrollFilter struct {
	Year *int `json:"year,omitempty"`

	pagination.Params
}

func (f *MyPayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Params.Normalize(&errs)
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}

	return errs.Err()
}

// ========================================
// RESPONSE DTOs
// ========================================

type PayPeriodResponse struct {
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type PayrollResponse struct {
	ID             string            `json:"id"`
	EmployeeID     string            `json:"employee_id"`
	EmployeeCode   *string           `json:"employee_code,omitempty"`
	EmployeeName   *string           `json:"employee_name,omitempty"`
	DepartmentName *string           `json:"department_name,omitempty"`
	PayPeriod      PayPeriodResponse `json:"pay_period"`
	Earnings       Earnings          `json:"earnings"`
	Deductions     Deductions        `json:"deductions"`
	Attendance     AttendanceSummary `json:"attendance"`
	Calculations   Totals            `json:"calculations"`
	Status         Status            `json:"status"`
	PaymentDate    *string           `json:"payment_date,omitempty"`
	PaymentMethod  *PaymentMethod    `json:"payment_method,omitempty"`
	ApprovedBy     *string           `json:"approved_by,omitempty"`
	ProcessedBy    *string           `json:"processed_by,omitempty"`
	ProcessedDate  *string           `json:"processed_date,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

func NewPayrollResponse(r Record) PayrollResponse {
	resp := PayrollResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeCode:   r.EmployeeCode,
		EmployeeName:   r.EmployeeName,
		DepartmentName: r.DepartmentName,
		PayPeriod: PayPeriodResponse{
			Month:     r.PayPeriod.Month,
			Year:      r.PayPeriod.Year,
			StartDate: r.PayPeriod.StartDate.Format(time.DateOnly),
			EndDate:   r.PayPeriod.EndDate.Format(time.DateOnly),
		},
		Earnings:      r.Earnings,
		Deductions:    r.Deductions,
		Attendance:    r.Attendance,
		Calculations:  r.Totals,
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		ApprovedBy:    r.ApprovedBy,
		ProcessedBy:   r.ProcessedBy,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
	if r.PaymentDate != nil {
		s := r.PaymentDate.Format(time.DateOnly)
		resp.PaymentDate = &s
	}
	if r.ProcessedDate != nil {
		s := r.ProcessedDate.Format(time.RFC3339)
		resp.ProcessedDate = &s
	}
	return resp
}

type ListPayrollResponse struct {
	pagination.Info
	Payrolls []PayrollResponse `json:"payrolls"`
}

type PayslipResponse struct {
	PayslipNumber string          `json:"payslip_number"`
	GeneratedDate string          `json:"generated_date"`
	Payroll       PayrollResponse `json:"payroll"`
}

type StatsResponse struct {
	Month         int          `json:"month"`
	Year          int          `json:"year"`
	CurrentMonth  PeriodTotals `json:"current_month"`
	YearToDate    PeriodTotals `json:"year_to_date"`
	MonthlyTrends []MonthTrend `json:"monthly_trends"`
}
