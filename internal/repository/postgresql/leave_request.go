package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveSelect = `
	SELECT
		lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.total_days, lr.reason,
		lr.status, lr.applied_date, lr.approved_by, lr.approved_date, lr.rejection_reason,
		lr.is_half_day, lr.half_day_period, lr.emergency_contact, lr.handover_notes,
		lr.created_at, lr.updated_at,
		e.employee_code, e.first_name || ' ' || e.last_name, d.name,
		CASE WHEN ap.id IS NULL THEN NULL ELSE ap.first_name || ' ' || ap.last_name END
	FROM leave_requests lr
	JOIN employees e ON e.id = lr.employee_id
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN employees ap ON ap.id = lr.approved_by
`

func scanLeave(row pgx.Row) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.Type, &l.StartDate, &l.EndDate, &l.TotalDays, &l.Reason,
		&l.Status, &l.AppliedDate, &l.ApprovedBy, &l.ApprovedDate, &l.RejectionReason,
		&l.IsHalfDay, &l.HalfDayPeriod, &l.EmergencyContact, &l.HandoverNotes,
		&l.CreatedAt, &l.UpdatedAt,
		&l.EmployeeCode, &l.EmployeeName, &l.DepartmentName, &l.ApproverName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return l, nil
}

func collectLeaves(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, l)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, total_days, reason, status,
			applied_date, is_half_day, half_day_period, emergency_contact, handover_notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = q.Exec(ctx, query,
		id.String(), req.EmployeeID, req.Type, req.StartDate, req.EndDate, req.TotalDays, req.Reason, req.Status,
		req.AppliedDate, req.IsHalfDay, req.HalfDayPeriod, req.EmergencyContact, req.HandoverNotes,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	return scanLeave(q.QueryRow(ctx, leaveSelect+` WHERE lr.id = $1`, id))
}

// Update implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET leave_type = $1, start_date = $2, end_date = $3, total_days = $4, reason = $5,
			status = $6, approved_by = $7, approved_date = $8, rejection_reason = $9,
			is_half_day = $10, half_day_period = $11, emergency_contact = $12, handover_notes = $13,
			updated_at = NOW()
		WHERE id = $14
	`
	tag, err := q.Exec(ctx, query,
		req.Type, req.StartDate, req.EndDate, req.TotalDays, req.Reason,
		req.Status, req.ApprovedBy, req.ApprovedDate, req.RejectionReason,
		req.IsHalfDay, req.HalfDayPeriod, req.EmergencyContact, req.HandoverNotes,
		req.ID,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	return r.GetByID(ctx, req.ID)
}

// Decide implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, approved_by = $2, approved_date = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`
	tag, err := q.Exec(ctx, query,
		req.Status, req.ApprovedBy, req.ApprovedDate, req.RejectionReason,
		req.ID, leave.StatusPending,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to decide leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, req.ID); err != nil {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, leave.ErrLeaveAlreadyProcessed
	}

	return r.GetByID(ctx, req.ID)
}

// Delete implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// List implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequest, int64, error) {
	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.LeaveType != nil && *filter.LeaveType != "" {
		conditions = append(conditions, fmt.Sprintf("lr.leave_type = $%d", argIdx))
		args = append(args, *filter.LeaveType)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("lr.end_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("lr.start_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	validSortColumns := map[string]string{
		"applied_date": "lr.applied_date",
		"start_date":   "lr.start_date",
		"status":       "lr.status",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "lr.applied_date"
	}
	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	return r.page(ctx, conditions, args, argIdx, sortColumn+" "+sortOrder, filter.Limit, filter.Offset())
}

// ListByEmployee implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter leave.MyLeaveFilter) ([]leave.LeaveRequest, int64, error) {
	conditions := []string{"lr.employee_id = $1"}
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.LeaveType != nil && *filter.LeaveType != "" {
		conditions = append(conditions, fmt.Sprintf("lr.leave_type = $%d", argIdx))
		args = append(args, *filter.LeaveType)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM lr.start_date) = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	return r.page(ctx, conditions, args, argIdx, "lr.applied_date DESC", filter.Limit, filter.Offset())
}

func (r *leaveRequestRepositoryImpl) page(ctx context.Context, conditions []string, args []interface{}, argIdx int, orderBy string, limit, offset int) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)
	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM leave_requests lr WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, leaveSelect, whereClause, orderBy, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	requests, err := collectLeaves(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// ListApprovedInYear implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedInYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err := q.Query(ctx, leaveSelect+`
		WHERE lr.employee_id = $1 AND lr.status = 'approved'
			AND lr.start_date >= $2 AND lr.start_date < $3
		ORDER BY lr.start_date
	`, employeeID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	return collectLeaves(rows)
}

// ListApprovedCovering implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedCovering(ctx context.Context, date time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, leaveSelect+`
		WHERE lr.status = 'approved' AND lr.start_date <= $1 AND lr.end_date >= $1
		ORDER BY lr.employee_id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave covering date: %w", err)
	}
	return collectLeaves(rows)
}

// CountByStatus implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) CountByStatus(ctx context.Context, from, to time.Time) (map[leave.Status]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT status, COUNT(*)
		FROM leave_requests
		WHERE applied_date >= $1 AND applied_date < $2
		GROUP BY status
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count leave by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[leave.Status]int)
	for rows.Next() {
		var status leave.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// SummarizeByType implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) SummarizeByType(ctx context.Context, from, to time.Time) ([]leave.TypeSummary, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT leave_type, COUNT(*), COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE applied_date >= $1 AND applied_date < $2
		GROUP BY leave_type
		ORDER BY leave_type
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize leave by type: %w", err)
	}
	defer rows.Close()

	summaries := []leave.TypeSummary{}
	for rows.Next() {
		var s leave.TypeSummary
		if err := rows.Scan(&s.Type, &s.Count, &s.TotalDays); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// SummarizeByMonth implements leave.LeaveRepository.
func (r *leaveRequestRepositoryImpl) SummarizeByMonth(ctx context.Context, from, to time.Time) ([]leave.MonthSummary, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT EXTRACT(MONTH FROM applied_date)::int AS month, COUNT(*), COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE applied_date >= $1 AND applied_date < $2
		GROUP BY month
		ORDER BY month
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize leave by month: %w", err)
	}
	defer rows.Close()

	summaries := []leave.MonthSummary{}
	for rows.Next() {
		var s leave.MonthSummary
		if err := rows.Scan(&s.Month, &s.Count, &s.TotalDays); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
