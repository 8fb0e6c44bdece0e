package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT
		e.id, e.employee_code, e.user_id, e.first_name, e.last_name, e.date_of_birth,
		e.gender, e.marital_status, e.nationality, e.phone, e.emergency_contact, e.address,
		e.department_id, e.position, e.employment_type, e.join_date, e.end_date, e.manager_id,
		e.work_location, e.base_salary, e.currency, e.pay_frequency, e.benefits, e.status,
		e.created_at, e.updated_at,
		u.email, u.role, d.name,
		CASE WHEN m.id IS NULL THEN NULL ELSE m.first_name || ' ' || m.last_name END
	FROM employees e
	LEFT JOIN users u ON u.id = e.user_id
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN employees m ON m.id = e.manager_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.UserID, &e.Personal.FirstName, &e.Personal.LastName, &e.Personal.DateOfBirth,
		&e.Personal.Gender, &e.Personal.MaritalStatus, &e.Personal.Nationality, &e.Personal.Phone,
		&e.Personal.EmergencyContact, &e.Address,
		&e.Job.DepartmentID, &e.Job.Position, &e.Job.EmploymentType, &e.Job.JoinDate, &e.Job.EndDate, &e.Job.ManagerID,
		&e.Job.WorkLocation, &e.Salary.BaseSalary, &e.Salary.Currency, &e.Salary.PayFrequency, &e.Benefits, &e.Status,
		&e.CreatedAt, &e.UpdatedAt,
		&e.Email, &e.Role, &e.DepartmentName, &e.ManagerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func employeeWriteError(err error) error {
	if isUniqueViolation(err) {
		if constraintName(err) == "employees_user_id_key" {
			return employee.ErrUserAlreadyLinked
		}
		return employee.ErrEmployeeCodeExists
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	p, j, s := newEmployee.Personal, newEmployee.Job, newEmployee.Salary
	query := `
		INSERT INTO employees (
			id, employee_code, user_id, first_name, last_name, date_of_birth, gender, marital_status,
			nationality, phone, emergency_contact, address, department_id, position, employment_type,
			join_date, end_date, manager_id, work_location, base_salary, currency, pay_frequency,
			benefits, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err = q.Exec(ctx, query,
		id.String(), newEmployee.EmployeeCode, newEmployee.UserID, p.FirstName, p.LastName, p.DateOfBirth,
		p.Gender, p.MaritalStatus, p.Nationality, p.Phone, p.EmergencyContact, newEmployee.Address,
		j.DepartmentID, j.Position, j.EmploymentType, j.JoinDate, j.EndDate, j.ManagerID, j.WorkLocation,
		s.BaseSalary, s.Currency, s.PayFrequency, newEmployee.Benefits, newEmployee.Status,
	)
	if err != nil {
		return employee.Employee{}, employeeWriteError(err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.user_id = $1`, userID))
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	p, j, s := emp.Personal, emp.Job, emp.Salary
	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, date_of_birth = $3, gender = $4, marital_status = $5,
			nationality = $6, phone = $7, emergency_contact = $8, address = $9, department_id = $10,
			position = $11, employment_type = $12, join_date = $13, end_date = $14, manager_id = $15,
			work_location = $16, base_salary = $17, currency = $18, pay_frequency = $19,
			benefits = $20, status = $21, updated_at = NOW()
		WHERE id = $22
	`
	tag, err := q.Exec(ctx, query,
		p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.MaritalStatus,
		p.Nationality, p.Phone, p.EmergencyContact, emp.Address, j.DepartmentID,
		j.Position, j.EmploymentType, j.JoinDate, j.EndDate, j.ManagerID,
		j.WorkLocation, s.BaseSalary, s.Currency, s.PayFrequency,
		emp.Benefits, emp.Status, emp.ID,
	)
	if err != nil {
		return employee.Employee{}, employeeWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	return r.GetByID(ctx, emp.ID)
}

// Terminate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Terminate(ctx context.Context, id string, endDate time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE employees
		SET status = $1, end_date = $2, updated_at = NOW()
		WHERE id = $3
	`, employee.StatusTerminated, endDate, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(e.first_name ILIKE $%d OR e.last_name ILIKE $%d OR e.employee_code ILIKE $%d OR u.email ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmploymentType != nil && *filter.EmploymentType != "" {
		conditions = append(conditions, fmt.Sprintf("e.employment_type = $%d", argIdx))
		args = append(args, *filter.EmploymentType)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM employees e
		LEFT JOIN users u ON u.id = e.user_id
		WHERE %s
	`, whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	validSortColumns := map[string]string{
		"employee_code": "e.employee_code",
		"first_name":    "e.first_name",
		"join_date":     "e.join_date",
		"created_at":    "e.created_at",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "e.created_at"
	}
	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, employeeSelect, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListByDepartment implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListByDepartment(ctx context.Context, departmentID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+`
		WHERE e.department_id = $1 AND e.status <> 'terminated'
		ORDER BY e.first_name, e.last_name
	`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department employees: %w", err)
	}
	return collectEmployees(rows)
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+` WHERE e.status = 'active' ORDER BY e.employee_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	return collectEmployees(rows)
}

// NextEmployeeCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) NextEmployeeCode(ctx context.Context) (string, error) {
	q := GetQuerier(ctx, r.db)

	var next int64
	if err := q.QueryRow(ctx, `SELECT nextval('employee_code_seq')`).Scan(&next); err != nil {
		return "", fmt.Errorf("failed to reserve employee code: %w", err)
	}
	return fmt.Sprintf("EMP%04d", next), nil
}
