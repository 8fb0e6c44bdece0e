package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/payroll"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/export"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	employeeRepository   employee.EmployeeRepository
	attendanceRepository attendance.AttendanceRepository
	policy               payroll.Policy
	now                  func() time.Time
}

func NewPayrollService(
	payrollRepository payroll.PayrollRepository,
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	policy payroll.Policy,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		PayrollRepository:    payrollRepository,
		employeeRepository:   employeeRepository,
		attendanceRepository: attendanceRepository,
		policy:               policy,
		now:                  time.Now,
	}
}

func toListResponse(records []payroll.Record, params pagination.Params, total int64) payroll.ListPayrollResponse {
	responses := make([]payroll.PayrollResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, payroll.NewPayrollResponse(r))
	}
	return payroll.ListPayrollResponse{
		Info:     pagination.NewInfo(params, total),
		Payrolls: responses,
	}
}

// ensurePeriodFree fails with ErrPayrollExists when the employee already has a
// record for the period. The unique key on insert still catches races.
func (s *PayrollServiceImpl) ensurePeriodFree(ctx context.Context, employeeID string, month, year int) error {
	exists, err := s.PayrollRepository.ExistsForPeriod(ctx, employeeID, month, year)
	if err != nil {
		return fmt.Errorf("failed to check payroll period: %w", err)
	}
	if exists {
		return payroll.ErrPayrollExists
	}
	return nil
}

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionPayrollManage)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	emp, err := s.employeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if !emp.Salary.BaseSalary.IsPositive() {
		return payroll.PayrollResponse{}, payroll.ErrEmployeeHasNoSalary
	}
	if err := s.ensurePeriodFree(ctx, emp.ID, req.Month, req.Year); err != nil {
		return payroll.PayrollResponse{}, err
	}

	period := payroll.PayPeriodFor(req.Month, req.Year)
	records, err := s.attendanceRepository.ListByEmployeeInRange(ctx, emp.ID, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to load attendance for payroll: %w", err)
	}

	record := s.policy.Calculate(payroll.CalculationInput{
		EmployeeID:      emp.ID,
		BaseSalary:      emp.Salary.BaseSalary,
		HealthInsurance: emp.Benefits.HealthInsurance,
		Period:          period,
		Attendance:      records,
		ProcessedBy:     actor.UserID,
		ProcessedAt:     s.now().UTC(),
	})

	created, err := s.PayrollRepository.Create(ctx, record)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	slog.Info("payroll calculated",
		"payroll_id", created.ID,
		"employee_id", emp.ID,
		"period", fmt.Sprintf("%d-%02d", req.Year, req.Month),
		"net_pay", created.Totals.NetPay.StringFixed(2),
	)
	return payroll.NewPayrollResponse(created), nil
}

// Create implements payroll.PayrollService.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionPayrollManage)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}
	if _, err := s.employeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := s.ensurePeriodFree(ctx, req.EmployeeID, req.Month, req.Year); err != nil {
		return payroll.PayrollResponse{}, err
	}

	record := req.ToRecord()
	payroll.RecomputeTotals(&record)
	now := s.now().UTC()
	record.ProcessedBy = &actor.UserID
	record.ProcessedDate = &now

	created, err := s.PayrollRepository.Create(ctx, record)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(created), nil
}

// Update implements payroll.PayrollService. Paid and cancelled records are final.
func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionPayrollManage); err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	record, err := s.PayrollRepository.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := record.CheckEditable(req.Status); err != nil {
		return payroll.PayrollResponse{}, err
	}

	req.Apply(&record)
	payroll.RecomputeTotals(&record)

	updated, err := s.PayrollRepository.Update(ctx, record)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	return payroll.NewPayrollResponse(updated), nil
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := user.RequirePermission(ctx, user.PermissionPayrollDelete)
	if err != nil {
		return err
	}
	if err := s.PayrollRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("payroll deleted", "payroll_id", id, "by", actor.UserID)
	return nil
}

// transition loads a record, applies fn and saves it.
func (s *PayrollServiceImpl) transition(ctx context.Context, id string, fn func(*payroll.Record, user.Actor) error) (payroll.PayrollResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionPayrollManage)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	record, err := s.PayrollRepository.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := fn(&record, actor); err != nil {
		return payroll.PayrollResponse{}, err
	}

	updated, err := s.PayrollRepository.Update(ctx, record)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	slog.Info("payroll status changed", "payroll_id", id, "status", updated.Status, "by", actor.UserID)
	return payroll.NewPayrollResponse(updated), nil
}

// Approve implements payroll.PayrollService.
func (s *PayrollServiceImpl) Approve(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	return s.transition(ctx, id, func(r *payroll.Record, actor user.Actor) error {
		return r.Approve(actor.UserID)
	})
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, req payroll.MarkPaidRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return s.transition(ctx, req.ID, func(r *payroll.Record, _ user.Actor) error {
		return r.MarkPaid(req.PaymentMethod, req.PaidAt(s.now().UTC()))
	})
}

// Cancel implements payroll.PayrollService.
func (s *PayrollServiceImpl) Cancel(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	return s.transition(ctx, id, func(r *payroll.Record, _ user.Actor) error {
		return r.Cancel()
	})
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionPayrollManage); err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	records, total, err := s.PayrollRepository.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll: %w", err)
	}
	return toListResponse(records, filter.Params, total), nil
}

// readable loads a record the actor may see: payroll managers see every
// record, employees only their own released ones.
func (s *PayrollServiceImpl) readable(ctx context.Context, id string) (payroll.Record, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return payroll.Record{}, err
	}
	record, err := s.PayrollRepository.GetByID(ctx, id)
	if err != nil {
		return payroll.Record{}, err
	}
	if actor.Can(user.PermissionPayrollManage) {
		return record, nil
	}
	if actor.IsEmployee(record.EmployeeID) && record.Status.IsReleased() {
		return record, nil
	}
	return payroll.Record{}, payroll.ErrPayslipAccessDenied
}

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	record, err := s.readable(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(record), nil
}

// GetMyPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetMyPayroll(ctx context.Context, filter payroll.MyPayrollFilter) (payroll.ListPayrollResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	if actor.EmployeeID == "" {
		return payroll.ListPayrollResponse{}, employee.ErrEmployeeProfileRequired
	}
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	records, total, err := s.PayrollRepository.ListReleasedByEmployee(ctx, actor.EmployeeID, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll: %w", err)
	}
	return toListResponse(records, filter.Params, total), nil
}

// GetPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	record, err := s.readable(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	code := ""
	if record.EmployeeCode != nil {
		code = *record.EmployeeCode
	}
	return payroll.PayslipResponse{
		PayslipNumber: payroll.PayslipNumber(record.PayPeriod, code),
		GeneratedDate: s.now().UTC().Format(time.DateOnly),
		Payroll:       payroll.NewPayrollResponse(record),
	}, nil
}

// WritePayslipPDF implements payroll.PayrollService.
func (s *PayrollServiceImpl) WritePayslipPDF(ctx context.Context, id string, w io.Writer) (string, error) {
	slip, err := s.GetPayslip(ctx, id)
	if err != nil {
		return "", err
	}
	if err := export.WritePayslipPDF(w, slip); err != nil {
		return "", fmt.Errorf("failed to render payslip: %w", err)
	}
	return slip.PayslipNumber + ".pdf", nil
}

// GetStats implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetStats(ctx context.Context) (payroll.StatsResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionPayrollManage); err != nil {
		return payroll.StatsResponse{}, err
	}

	now := s.now().UTC()
	stats := payroll.StatsResponse{Month: int(now.Month()), Year: now.Year()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.CurrentMonth, err = s.PayrollRepository.SumReleased(gctx, stats.Year, stats.Month)
		return err
	})
	g.Go(func() (err error) {
		stats.YearToDate, err = s.PayrollRepository.SumReleased(gctx, stats.Year, 0)
		return err
	})
	g.Go(func() (err error) {
		stats.MonthlyTrends, err = s.PayrollRepository.MonthlyTrend(gctx, stats.Year)
		return err
	})
	if err := g.Wait(); err != nil {
		return payroll.StatsResponse{}, fmt.Errorf("failed to get payroll stats: %w", err)
	}
	return stats, nil
}
