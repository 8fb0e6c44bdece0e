package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	in := CalculationInput{
		EmployeeID:      "emp-1",
		BaseSalary:      decimal.NewFromInt(3000),
		HealthInsurance: true,
		Period:          PayPeriodFor(3, 2024),
		Attendance: []attendance.Attendance{
			{Status: attendance.StatusPresent, OvertimeHours: 6},
			{Status: attendance.StatusLate, OvertimeHours: 4},
			{Status: attendance.StatusAbsent},
			{Status: attendance.StatusOnLeave},
		},
		ProcessedBy: "user-hr",
		ProcessedAt: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
	}

	r := DefaultPolicy().Calculate(in)

	assert.Equal(t, StatusCalculated, r.Status)
	assertDecimal(t, "18.75", r.Earnings.Overtime.Rate, "overtime rate")
	assertDecimal(t, "187.5", r.Earnings.Overtime.Amount, "overtime amount")
	assertDecimal(t, "450", r.Deductions.Tax.Federal, "federal")
	assertDecimal(t, "150", r.Deductions.Tax.State, "state")
	assertDecimal(t, "0", r.Deductions.Tax.Local, "local")
	assertDecimal(t, "200", r.Deductions.Insurance.Health, "health")
	assertDecimal(t, "180", r.Deductions.Retirement, "retirement")
	assertDecimal(t, "3187.5", r.Totals.GrossPay, "gross")
	assertDecimal(t, "980", r.Totals.TotalDeductions, "deductions")
	assertDecimal(t, "2207.5", r.Totals.NetPay, "net")

	assert.Equal(t, AttendanceSummary{WorkingDays: 4, PresentDays: 2, AbsentDays: 1, LeaveDays: 1, OvertimeHours: 10}, r.Attendance)
	require.NotNil(t, r.ProcessedBy)
	assert.Equal(t, "user-hr", *r.ProcessedBy)
}

func TestCalculate_NoHealthInsurance(t *testing.T) {
	r := DefaultPolicy().Calculate(CalculationInput{BaseSalary: decimal.NewFromInt(1000), Period: PayPeriodFor(1, 2024)})

	assertDecimal(t, "0", r.Deductions.Insurance.Health, "health")
	assertDecimal(t, "260", r.Totals.TotalDeductions, "deductions")
	assertDecimal(t, "740", r.Totals.NetPay, "net")
}

func TestRecomputeTotals_IncludesAllComponents(t *testing.T) {
	r := Record{
		Earnings: Earnings{
			BaseSalary: dec("1000"),
			Overtime:   Overtime{Amount: dec("50")},
			Bonuses:    Bonuses{Performance: dec("100"), Holiday: dec("10"), Other: dec("5")},
			Allowances: Allowances{Transport: dec("20"), Meal: dec("30"), Housing: dec("40"), Other: dec("1")},
		},
		Deductions: Deductions{
			Tax:        Tax{Federal: dec("100"), State: dec("50"), Local: dec("5")},
			Insurance:  Insurance{Health: dec("20"), Dental: dec("10"), Vision: dec("5"), Life: dec("5")},
			Retirement: dec("60"),
			Other:      dec("15"),
		},
	}

	RecomputeTotals(&r)

	assertDecimal(t, "1256", r.Totals.GrossPay, "gross")
	assertDecimal(t, "270", r.Totals.TotalDeductions, "deductions")
	assertDecimal(t, "986", r.Totals.NetPay, "net")
}

func TestRecomputeTotals_KeepsNegativeNet(t *testing.T) {
	r := Record{
		Earnings:   Earnings{BaseSalary: dec("100")},
		Deductions: Deductions{Other: dec("250")},
	}

	RecomputeTotals(&r)

	assertDecimal(t, "-150", r.Totals.NetPay, "net")
}

func TestPayPeriodFor(t *testing.T) {
	p := PayPeriodFor(2, 2024)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.StartDate)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), p.EndDate)

	p = PayPeriodFor(12, 2023)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), p.EndDate)
}

func TestStatusTransitions(t *testing.T) {
	now := time.Now()

	draft := Record{Status: StatusDraft}
	err := draft.Approve("admin")
	assert.ErrorIs(t, err, ErrNotCalculated)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	calculatedBy := "user-hr"
	r := Record{Status: StatusCalculated, ProcessedBy: &calculatedBy}
	require.NoError(t, r.Approve("admin"))
	assert.Equal(t, StatusApproved, r.Status)
	require.NotNil(t, r.ApprovedBy)
	assert.Equal(t, "admin", *r.ApprovedBy)
	assert.Equal(t, "user-hr", *r.ProcessedBy)
	assert.ErrorIs(t, r.Approve("admin"), ErrNotCalculated)

	require.NoError(t, r.MarkPaid(PaymentCash, now))
	assert.Equal(t, StatusPaid, r.Status)
	assert.ErrorIs(t, r.Cancel(), ErrAlreadyPaid)

	c := Record{Status: StatusCalculated}
	assert.ErrorIs(t, c.MarkPaid(PaymentCash, now), ErrNotApproved)
	require.NoError(t, c.Cancel())
	assert.ErrorIs(t, c.Cancel(), ErrAlreadyCancelled)
}

func TestCheckEditable(t *testing.T) {
	status := func(s Status) *Status { return &s }

	tests := []struct {
		name    string
		current Status
		next    *Status
		wantErr error
	}{
		{"draft without status change", StatusDraft, nil, nil},
		{"draft to calculated", StatusDraft, status(StatusCalculated), nil},
		{"calculated unchanged", StatusCalculated, status(StatusCalculated), nil},
		{"calculated back to draft", StatusCalculated, status(StatusDraft), ErrStatusRegression},
		{"draft to approved", StatusDraft, status(StatusApproved), ErrStatusRegression},
		{"approved", StatusApproved, nil, ErrAlreadyApproved},
		{"approved back to draft", StatusApproved, status(StatusDraft), ErrAlreadyApproved},
		{"paid", StatusPaid, nil, ErrAlreadyPaid},
		{"cancelled", StatusCancelled, nil, ErrAlreadyCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Record{Status: tt.current}.CheckEditable(tt.next)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperror.ErrConflict)
		})
	}
}

func TestPayslipNumber(t *testing.T) {
	assert.Equal(t, "PS-2024-03-EMP0007", PayslipNumber(PayPeriodFor(3, 2024), "EMP0007"))
}
