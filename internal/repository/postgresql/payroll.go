package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vijaygla/HRMS-sub000/internal/domain/payroll"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollSelect = `
	SELECT
		p.id, p.employee_id, p.period_month, p.period_year, p.period_start, p.period_end,
		p.earnings, p.deductions, p.attendance, p.gross_pay, p.total_deductions, p.net_pay,
		p.status, p.payment_date, p.payment_method, p.approved_by, p.processed_by, p.processed_date,
		p.notes, p.created_at, p.updated_at,
		e.employee_code, e.first_name || ' ' || e.last_name, d.name
	FROM payroll_records p
	JOIN employees e ON e.id = p.employee_id
	LEFT JOIN departments d ON d.id = e.department_id
`

func scanPayroll(row pgx.Row) (payroll.Record, error) {
	var p payroll.Record
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.PayPeriod.Month, &p.PayPeriod.Year, &p.PayPeriod.StartDate, &p.PayPeriod.EndDate,
		&p.Earnings, &p.Deductions, &p.Attendance, &p.Totals.GrossPay, &p.Totals.TotalDeductions, &p.Totals.NetPay,
		&p.Status, &p.PaymentDate, &p.PaymentMethod, &p.ApprovedBy, &p.ProcessedBy, &p.ProcessedDate,
		&p.Notes, &p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeCode, &p.EmployeeName, &p.DepartmentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrPayrollNotFound
		}
		return payroll.Record{}, err
	}
	return p, nil
}

func collectPayroll(rows pgx.Rows) ([]payroll.Record, error) {
	defer rows.Close()

	records := []payroll.Record{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to generate payroll id: %w", err)
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_id, period_month, period_year, period_start, period_end,
			earnings, deductions, attendance, gross_pay, total_deductions, net_pay,
			status, payment_date, payment_method, approved_by, processed_by, processed_date, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = q.Exec(ctx, query,
		id.String(), record.EmployeeID, record.PayPeriod.Month, record.PayPeriod.Year,
		record.PayPeriod.StartDate, record.PayPeriod.EndDate,
		record.Earnings, record.Deductions, record.Attendance,
		record.Totals.GrossPay, record.Totals.TotalDeductions, record.Totals.NetPay,
		record.Status, record.PaymentDate, record.PaymentMethod, record.ApprovedBy,
		record.ProcessedBy, record.ProcessedDate, record.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.Record{}, payroll.ErrPayrollExists
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)
	return scanPayroll(q.QueryRow(ctx, payrollSelect+` WHERE p.id = $1`, id))
}

// ExistsForPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM payroll_records
			WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
		)
	`, employeeID, month, year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll period: %w", err)
	}
	return exists, nil
}

// Update implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Update(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET earnings = $1, deductions = $2, attendance = $3,
			gross_pay = $4, total_deductions = $5, net_pay = $6,
			status = $7, payment_date = $8, payment_method = $9, approved_by = $10,
			processed_by = $11, processed_date = $12, notes = $13, updated_at = NOW()
		WHERE id = $14
	`
	tag, err := q.Exec(ctx, query,
		record.Earnings, record.Deductions, record.Attendance,
		record.Totals.GrossPay, record.Totals.TotalDeductions, record.Totals.NetPay,
		record.Status, record.PaymentDate, record.PaymentMethod, record.ApprovedBy,
		record.ProcessedBy, record.ProcessedDate, record.Notes,
		record.ID,
	)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.Record{}, payroll.ErrPayrollNotFound
	}

	return r.GetByID(ctx, record.ID)
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Record, int64, error) {
	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	return r.page(ctx, conditions, args, argIdx, filter.Limit, filter.Offset())
}

// ListReleasedByEmployee implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListReleasedByEmployee(ctx context.Context, employeeID string, filter payroll.MyPayrollFilter) ([]payroll.Record, int64, error) {
	conditions := []string{"p.employee_id = $1", "p.status IN ('approved', 'paid')"}
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	return r.page(ctx, conditions, args, argIdx, filter.Limit, filter.Offset())
}

func (r *payrollRepositoryImpl) page(ctx context.Context, conditions []string, args []interface{}, argIdx int, limit, offset int) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)
	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM payroll_records p WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY p.period_year DESC, p.period_month DESC, e.employee_code
		LIMIT $%d OFFSET $%d
	`, payrollSelect, whereClause, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	records, err := collectPayroll(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// SumReleased implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) SumReleased(ctx context.Context, year, month int) (payroll.PeriodTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(DISTINCT employee_id),
			COALESCE(SUM(gross_pay), 0), COALESCE(SUM(net_pay), 0), COALESCE(SUM(total_deductions), 0),
			COALESCE(ROUND(AVG(gross_pay), 2), 0), COALESCE(ROUND(AVG(net_pay), 2), 0)
		FROM payroll_records
		WHERE status IN ('approved', 'paid') AND period_year = $1 AND ($2 = 0 OR period_month = $2)
	`
	var t payroll.PeriodTotals
	err := q.QueryRow(ctx, query, year, month).Scan(
		&t.EmployeeCount, &t.TotalGrossPay, &t.TotalNetPay, &t.TotalDeductions,
		&t.AverageGrossPay, &t.AverageNetPay,
	)
	if err != nil {
		return payroll.PeriodTotals{}, fmt.Errorf("failed to sum payroll: %w", err)
	}
	return t, nil
}

// MonthlyTrend implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) MonthlyTrend(ctx context.Context, year int) ([]payroll.MonthTrend, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT period_month, COUNT(DISTINCT employee_id), COALESCE(SUM(gross_pay), 0), COALESCE(SUM(net_pay), 0)
		FROM payroll_records
		WHERE status IN ('approved', 'paid') AND period_year = $1
		GROUP BY period_month
		ORDER BY period_month
	`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load payroll trend: %w", err)
	}
	defer rows.Close()

	trends := []payroll.MonthTrend{}
	for rows.Next() {
		var t payroll.MonthTrend
		if err := rows.Scan(&t.Month, &t.EmployeeCount, &t.TotalGrossPay, &t.TotalNetPay); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}
