package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceSelect = `
	SELECT
		a.id, a.employee_id, a.date,
		a.check_in_time, a.check_in_location, a.check_in_latitude, a.check_in_longitude, a.check_in_notes,
		a.check_out_time, a.check_out_location, a.check_out_latitude, a.check_out_longitude, a.check_out_notes,
		a.breaks, a.working_hours, a.overtime_hours, a.status, a.is_manual_entry, a.approved_by, a.notes,
		a.created_at, a.updated_at,
		e.employee_code, e.first_name || ' ' || e.last_name, e.department_id, d.name
	FROM attendance a
	JOIN employees e ON e.id = a.employee_id
	LEFT JOIN departments d ON d.id = e.department_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date,
		&a.CheckIn.Time, &a.CheckIn.Location, &a.CheckIn.Latitude, &a.CheckIn.Longitude, &a.CheckIn.Notes,
		&a.CheckOut.Time, &a.CheckOut.Location, &a.CheckOut.Latitude, &a.CheckOut.Longitude, &a.CheckOut.Notes,
		&a.Breaks, &a.WorkingHours, &a.OvertimeHours, &a.Status, &a.IsManualEntry, &a.ApprovedBy, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeCode, &a.EmployeeName, &a.DepartmentID, &a.DepartmentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}
	return a, nil
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func breaksOrEmpty(breaks []attendance.Break) []attendance.Break {
	if breaks == nil {
		return []attendance.Break{}
	}
	return breaks
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendance (
			id, employee_id, date,
			check_in_time, check_in_location, check_in_latitude, check_in_longitude, check_in_notes,
			check_out_time, check_out_location, check_out_latitude, check_out_longitude, check_out_notes,
			breaks, working_hours, overtime_hours, status, is_manual_entry, approved_by, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err = q.Exec(ctx, query,
		id.String(), a.EmployeeID, a.Date,
		a.CheckIn.Time, a.CheckIn.Location, a.CheckIn.Latitude, a.CheckIn.Longitude, a.CheckIn.Notes,
		a.CheckOut.Time, a.CheckOut.Location, a.CheckOut.Latitude, a.CheckOut.Longitude, a.CheckOut.Notes,
		breaksOrEmpty(a.Breaks), a.WorkingHours, a.OvertimeHours, a.Status, a.IsManualEntry, a.ApprovedBy, a.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	return scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	return scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.employee_id = $1 AND a.date = $2`, employeeID, date))
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET check_in_time = $1, check_in_location = $2, check_in_latitude = $3, check_in_longitude = $4, check_in_notes = $5,
			check_out_time = $6, check_out_location = $7, check_out_latitude = $8, check_out_longitude = $9, check_out_notes = $10,
			breaks = $11, working_hours = $12, overtime_hours = $13, status = $14, approved_by = $15, notes = $16,
			updated_at = NOW()
		WHERE id = $17
	`
	tag, err := q.Exec(ctx, query,
		a.CheckIn.Time, a.CheckIn.Location, a.CheckIn.Latitude, a.CheckIn.Longitude, a.CheckIn.Notes,
		a.CheckOut.Time, a.CheckOut.Location, a.CheckOut.Latitude, a.CheckOut.Longitude, a.CheckOut.Notes,
		breaksOrEmpty(a.Breaks), a.WorkingHours, a.OvertimeHours, a.Status, a.ApprovedBy, a.Notes,
		a.ID,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	return r.GetByID(ctx, a.ID)
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
	`, whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	validSortColumns := map[string]string{
		"date":          "a.date",
		"status":        "a.status",
		"working_hours": "a.working_hours",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "a.date"
	}
	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s, a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, attendanceSelect, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	records, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	employee := employeeID
	return r.List(ctx, attendance.AttendanceFilter{
		EmployeeID: &employee,
		Status:     filter.Status,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Params:     filter.Params,
		SortBy:     "date",
		SortOrder:  "desc",
	})
}

// ListByEmployeeInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, attendanceSelect+`
		WHERE a.employee_id = $1 AND a.date >= $2 AND a.date <= $3
		ORDER BY a.date ASC
	`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance in range: %w", err)
	}
	return collectAttendance(rows)
}

// CountByStatusOnDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountByStatusOnDate(ctx context.Context, date time.Time) (map[attendance.Status]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM attendance WHERE date = $1 GROUP BY status`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[attendance.Status]int)
	for rows.Next() {
		var status attendance.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// SumHoursInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SumHoursInRange(ctx context.Context, from, to time.Time) (attendance.MonthTotals, error) {
	q := GetQuerier(ctx, r.db)

	var totals attendance.MonthTotals
	err := q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(working_hours), 0), COALESCE(SUM(overtime_hours), 0)
		FROM attendance
		WHERE date >= $1 AND date <= $2
	`, from, to).Scan(&totals.Records, &totals.TotalWorkingHours, &totals.TotalOvertimeHours)
	if err != nil {
		return attendance.MonthTotals{}, fmt.Errorf("failed to sum attendance hours: %w", err)
	}
	return totals, nil
}

// Report implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Report(ctx context.Context, filter attendance.ReportFilter) ([]attendance.ReportRow, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{filter.From, filter.To}
	departmentClause := ""
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		departmentClause = "AND e.department_id = $3"
		args = append(args, *filter.DepartmentID)
	}

	query := fmt.Sprintf(`
		SELECT
			e.id, e.employee_code, e.first_name || ' ' || e.last_name, d.name,
			COUNT(a.id),
			COUNT(a.id) FILTER (WHERE a.status = 'present'),
			COUNT(a.id) FILTER (WHERE a.status = 'late'),
			COUNT(a.id) FILTER (WHERE a.status = 'absent'),
			COUNT(a.id) FILTER (WHERE a.status = 'half-day'),
			COUNT(a.id) FILTER (WHERE a.status = 'on-leave'),
			COALESCE(SUM(a.working_hours), 0),
			COALESCE(SUM(a.overtime_hours), 0)
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		LEFT JOIN attendance a ON a.employee_id = e.id AND a.date >= $1 AND a.date <= $2
		WHERE e.status <> 'terminated' %s
		GROUP BY e.id, e.employee_code, e.first_name, e.last_name, d.name
		ORDER BY e.employee_code
	`, departmentClause)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance report: %w", err)
	}
	defer rows.Close()

	report := []attendance.ReportRow{}
	for rows.Next() {
		var row attendance.ReportRow
		err := rows.Scan(
			&row.EmployeeID, &row.EmployeeCode, &row.EmployeeName, &row.DepartmentName,
			&row.TotalDays, &row.PresentDays, &row.LateDays, &row.AbsentDays, &row.HalfDays, &row.LeaveDays,
			&row.TotalWorkingHours, &row.TotalOvertimeHours,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
