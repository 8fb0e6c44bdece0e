package payroll

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/payroll"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
	"github.com/vijaygla/HRMS-sub000/internal/repository/memory"
)

type fixture struct {
	store *memory.Store
	svc   *PayrollServiceImpl
	emp   employee.Employee
	self  context.Context
	peer  context.Context
	hr    context.Context
	admin context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return now }

	dept, err := store.SeedDepartment(ctx, "Finance")
	require.NoError(t, err)
	emp, self, err := store.SeedEmployee(ctx, dept.ID, user.RoleEmployee, decimal.NewFromInt(3000))
	require.NoError(t, err)
	emp.Benefits.HealthInsurance = true
	emp, err = store.Employees().Update(ctx, emp)
	require.NoError(t, err)

	_, peer, err := store.SeedEmployee(ctx, dept.ID, user.RoleEmployee, decimal.NewFromInt(2000))
	require.NoError(t, err)
	_, hr, err := store.SeedEmployee(ctx, dept.ID, user.RoleHR, decimal.NewFromInt(4000))
	require.NoError(t, err)
	_, admin, err := store.SeedEmployee(ctx, dept.ID, user.RoleAdmin, decimal.NewFromInt(6000))
	require.NoError(t, err)

	svc := NewPayrollService(store.Payroll(), store.Employees(), store.Attendance(), payroll.DefaultPolicy()).(*PayrollServiceImpl)
	svc.now = store.Now

	return &fixture{
		store: store,
		svc:   svc,
		emp:   emp,
		self:  user.WithActor(ctx, self),
		peer:  user.WithActor(ctx, peer),
		hr:    user.WithActor(ctx, hr),
		admin: user.WithActor(ctx, admin),
	}
}

func (f *fixture) addAttendance(t *testing.T, day int, status attendance.Status, overtime float64) {
	t.Helper()
	_, err := f.store.Attendance().Create(context.Background(), attendance.Attendance{
		EmployeeID:    f.emp.ID,
		Date:          time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
		Status:        status,
		WorkingHours:  8 + overtime,
		OvertimeHours: overtime,
	})
	require.NoError(t, err)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	f := newFixture(t)
	f.addAttendance(t, 3, attendance.StatusPresent, 6)
	f.addAttendance(t, 4, attendance.StatusLate, 4)
	f.addAttendance(t, 5, attendance.StatusAbsent, 0)
	f.addAttendance(t, 6, attendance.StatusOnLeave, 0)

	resp, err := f.svc.Calculate(f.hr, payroll.CalculatePayrollRequest{EmployeeID: f.emp.ID, Month: 3, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusCalculated, resp.Status)
	assert.Equal(t, "2025-03-01", resp.PayPeriod.StartDate)
	assert.Equal(t, "2025-03-31", resp.PayPeriod.EndDate)

	assertMoney(t, "10.00", resp.Earnings.Overtime.Hours)
	assertMoney(t, "18.75", resp.Earnings.Overtime.Rate)
	assertMoney(t, "187.50", resp.Earnings.Overtime.Amount)
	assertMoney(t, "450.00", resp.Deductions.Tax.Federal)
	assertMoney(t, "150.00", resp.Deductions.Tax.State)
	assertMoney(t, "200.00", resp.Deductions.Insurance.Health)
	assertMoney(t, "180.00", resp.Deductions.Retirement)

	assertMoney(t, "3187.50", resp.Calculations.GrossPay)
	assertMoney(t, "980.00", resp.Calculations.TotalDeductions)
	assertMoney(t, "2207.50", resp.Calculations.NetPay)

	assert.Equal(t, payroll.AttendanceSummary{
		WorkingDays:   4,
		PresentDays:   2,
		AbsentDays:    1,
		LeaveDays:     1,
		OvertimeHours: 10,
	}, resp.Attendance)
}

func TestCalculate_OnePerPeriod(t *testing.T) {
	f := newFixture(t)
	req := payroll.CalculatePayrollRequest{EmployeeID: f.emp.ID, Month: 3, Year: 2025}

	_, err := f.svc.Calculate(f.self, req)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.Calculate(f.hr, req)
	require.NoError(t, err)

	_, err = f.svc.Calculate(f.admin, req)
	assert.ErrorIs(t, err, payroll.ErrPayrollExists)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.svc.Calculate(f.hr, payroll.CalculatePayrollRequest{EmployeeID: f.emp.ID, Month: 13, Year: 2025})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLifecycle(t *testing.T) {
	f := newFixture(t)
	calculated, err := f.svc.Calculate(f.hr, payroll.CalculatePayrollRequest{EmployeeID: f.emp.ID, Month: 3, Year: 2025})
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(f.hr, payroll.MarkPaidRequest{ID: calculated.ID})
	assert.ErrorIs(t, err, payroll.ErrNotApproved)

	draft := payroll.StatusDraft
	_, err = f.svc.Update(f.hr, payroll.UpdatePayrollRequest{ID: calculated.ID, Status: &draft})
	assert.ErrorIs(t, err, payroll.ErrStatusRegression)

	approved, err := f.svc.Approve(f.admin, calculated.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	require.NotNil(t, approved.ProcessedBy)
	require.NotNil(t, calculated.ProcessedBy)
	assert.Equal(t, *calculated.ProcessedBy, *approved.ProcessedBy)
	assert.NotEqual(t, *approved.ApprovedBy, *approved.ProcessedBy)

	_, err = f.svc.Approve(f.hr, calculated.ID)
	assert.ErrorIs(t, err, payroll.ErrNotCalculated)

	_, err = f.svc.Update(f.hr, payroll.UpdatePayrollRequest{ID: calculated.ID, Status: &draft})
	assert.ErrorIs(t, err, payroll.ErrAlreadyApproved)
	raise := payroll.Earnings{BaseSalary: decimal.NewFromInt(99999)}
	_, err = f.svc.Update(f.hr, payroll.UpdatePayrollRequest{ID: calculated.ID, Earnings: &raise})
	assert.ErrorIs(t, err, payroll.ErrAlreadyApproved)

	stored, err := f.svc.Get(f.hr, calculated.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusApproved, stored.Status)
	assert.True(t, approved.Calculations.NetPay.Equal(stored.Calculations.NetPay))

	paidOn := "2025-04-05"
	paid, err := f.svc.MarkPaid(f.hr, payroll.MarkPaidRequest{ID: calculated.ID, PaymentMethod: payroll.PaymentCheck, PaymentDate: &paidOn})
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, paidOn, *paid.PaymentDate)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, payroll.PaymentCheck, *paid.PaymentMethod)

	_, err = f.svc.Cancel(f.hr, calculated.ID)
	assert.ErrorIs(t, err, payroll.ErrAlreadyPaid)
	_, err = f.svc.Update(f.hr, payroll.UpdatePayrollRequest{ID: calculated.ID})
	assert.ErrorIs(t, err, payroll.ErrAlreadyPaid)
}

func TestCreateAndUpdate_RecomputeTotals(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.hr, payroll.CreatePayrollRequest{
		EmployeeID: f.emp.ID,
		Month:      2,
		Year:       2025,
		Earnings: payroll.Earnings{
			BaseSalary: decimal.NewFromInt(1000),
			Bonuses:    payroll.Bonuses{Performance: decimal.NewFromInt(100)},
		},
		Deductions: payroll.Deductions{Other: decimal.NewFromInt(1500)},
	})
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusDraft, created.Status)
	assertMoney(t, "1100.00", created.Calculations.GrossPay)
	assertMoney(t, "-400.00", created.Calculations.NetPay)

	allowances := payroll.Earnings{
		BaseSalary: decimal.NewFromInt(1000),
		Allowances: payroll.Allowances{Meal: decimal.NewFromInt(50), Transport: decimal.NewFromInt(25)},
	}
	calculated := payroll.StatusCalculated
	updated, err := f.svc.Update(f.hr, payroll.UpdatePayrollRequest{ID: created.ID, Earnings: &allowances, Status: &calculated})
	require.NoError(t, err)
	assertMoney(t, "1075.00", updated.Calculations.GrossPay)
	assertMoney(t, "-425.00", updated.Calculations.NetPay)
	assert.Equal(t, payroll.StatusCalculated, updated.Status)

	_, err = f.svc.Create(f.hr, payroll.CreatePayrollRequest{
		EmployeeID: f.emp.ID,
		Month:      2,
		Year:       2025,
		Earnings:   payroll.Earnings{BaseSalary: decimal.NewFromInt(1000)},
	})
	assert.ErrorIs(t, err, payroll.ErrPayrollExists)
}

func TestDelete_AdminOnly(t *testing.T) {
	f := newFixture(t)
	rec, err := f.svc.Calculate(f.hr, payroll.CalculatePayrollRequest{EmployeeID: f.emp.ID, Month: 3, Year: 2025})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(f.hr, rec.ID), user.ErrInsufficientPermissions)
	require.NoError(t, f.svc.Delete(f.admin, rec.ID))
	_, err = f.svc.Get(f.admin, rec.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestEmployeeSeesOnlyReleasedPayroll(t *testing.T) {
	f := newFixture(t)
	rec, err := f.svc.Calculate(f.hr, payroll.CalculatePayrollRequest{EmployeeID: f.emp.ID, Month: 3, Year: 2025})
	require.NoError(t, err)

	mine, err := f.svc.GetMyPayroll(f.self, payroll.MyPayrollFilter{})
	require.NoError(t, err)
	assert.Empty(t, mine.Payrolls)
	_, err = f.svc.GetPayslip(f.self, rec.ID)
	assert.ErrorIs(t, err, payroll.ErrPayslipAccessDenied)

	_, err = f.svc.Approve(f.hr, rec.ID)
	require.NoError(t, err)

	mine, err = f.svc.GetMyPayroll(f.self, payroll.MyPayrollFilter{})
	require.NoError(t, err)
	require.Len(t, mine.Payrolls, 1)

	slip, err := f.svc.GetPayslip(f.self, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "PS-2025-03-"+f.emp.EmployeeCode, slip.PayslipNumber)
	assert.Equal(t, "2025-04-02", slip.GeneratedDate)

	_, err = f.svc.GetPayslip(f.peer, rec.ID)
	assert.ErrorIs(t, err, payroll.ErrPayslipAccessDenied)

	var buf bytes.Buffer
	name, err := f.svc.WritePayslipPDF(f.self, rec.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, slip.PayslipNumber+".pdf", name)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)
	march, err := f.svc.Calculate(f.hr, payroll.CalculatePayrollRequest{EmployeeID: f.emp.ID, Month: 3, Year: 2025})
	require.NoError(t, err)
	april, err := f.svc.Calculate(f.hr, payroll.CalculatePayrollRequest{EmployeeID: f.emp.ID, Month: 4, Year: 2025})
	require.NoError(t, err)
	_, err = f.svc.Calculate(f.hr, payroll.CalculatePayrollRequest{EmployeeID: f.emp.ID, Month: 1, Year: 2025})
	require.NoError(t, err)
	for _, id := range []string{march.ID, april.ID} {
		_, err := f.svc.Approve(f.hr, id)
		require.NoError(t, err)
	}

	_, err = f.svc.GetStats(f.self)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	stats, err := f.svc.GetStats(f.hr)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Month)
	assert.Equal(t, 2025, stats.Year)
	assert.Equal(t, 1, stats.CurrentMonth.EmployeeCount)
	assertMoney(t, "3000.00", stats.CurrentMonth.TotalGrossPay)
	assertMoney(t, "6000.00", stats.YearToDate.TotalGrossPay)
	assertMoney(t, "3000.00", stats.YearToDate.AverageGrossPay)
	require.Len(t, stats.MonthlyTrends, 2, "unreleased January is excluded")
	assert.Equal(t, 3, stats.MonthlyTrends[0].Month)
}
