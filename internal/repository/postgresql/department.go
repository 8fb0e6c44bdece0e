package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vijaygla/HRMS-sub000/internal/domain/department"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

const departmentSelect = `
	SELECT
		d.id, d.name, d.code, d.description, d.manager_id, d.budget, d.location,
		d.parent_id, d.is_active, d.established_date, d.created_at, d.updated_at,
		CASE WHEN m.id IS NULL THEN NULL ELSE m.first_name || ' ' || m.last_name END AS manager_name,
		(SELECT COUNT(*) FROM employees ae WHERE ae.department_id = d.id AND ae.status = 'active') AS employee_count
	FROM departments d
	LEFT JOIN employees m ON m.id = d.manager_id
`

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(
		&d.ID, &d.Name, &d.Code, &d.Description, &d.ManagerID, &d.Budget, &d.Location,
		&d.ParentID, &d.IsActive, &d.EstablishedDate, &d.CreatedAt, &d.UpdatedAt,
		&d.ManagerName, &d.EmployeeCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, err
	}
	return d, nil
}

func departmentWriteError(err error) error {
	if isUniqueViolation(err) {
		if constraintName(err) == "departments_code_key" {
			return department.ErrDepartmentCodeExists
		}
		return department.ErrDepartmentNameExists
	}
	return err
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, dept department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return department.Department{}, fmt.Errorf("failed to generate department id: %w", err)
	}

	query := `
		INSERT INTO departments (id, name, code, description, manager_id, budget, location, parent_id, is_active, established_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9)
	`
	_, err = q.Exec(ctx, query,
		id.String(), dept.Name, dept.Code, dept.Description, dept.ManagerID,
		dept.Budget, dept.Location, dept.ParentID, dept.EstablishedDate,
	)
	if err != nil {
		return department.Department{}, departmentWriteError(err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	return scanDepartment(q.QueryRow(ctx, departmentSelect+` WHERE d.id = $1`, id))
}

// ListActive implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) ListActive(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, departmentSelect+` WHERE d.is_active = TRUE ORDER BY d.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	departments := []department.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}

	return departments, rows.Err()
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, dept department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments
		SET name = $1, code = $2, description = $3, manager_id = $4, budget = $5,
			location = $6, parent_id = $7, established_date = $8, updated_at = NOW()
		WHERE id = $9
	`
	tag, err := q.Exec(ctx, query,
		dept.Name, dept.Code, dept.Description, dept.ManagerID, dept.Budget,
		dept.Location, dept.ParentID, dept.EstablishedDate, dept.ID,
	)
	if err != nil {
		return department.Department{}, departmentWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return department.Department{}, department.ErrDepartmentNotFound
	}

	return r.GetByID(ctx, dept.ID)
}

// Deactivate implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE departments SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

// CountActiveEmployees implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) CountActiveEmployees(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE department_id = $1 AND status = 'active'`, id).Scan(&count)
	return count, err
}

// GetStats implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetStats(ctx context.Context, id string) (department.Stats, error) {
	q := GetQuerier(ctx, r.db)

	stats := department.Stats{
		ByStatus:         make(map[string]int),
		ByEmploymentType: make(map[string]int),
		AverageSalary:    decimal.Zero,
		TotalSalary:      decimal.Zero,
	}

	rows, err := q.Query(ctx, `
		SELECT status, COUNT(*)
		FROM employees
		WHERE department_id = $1
		GROUP BY status
	`, id)
	if err != nil {
		return department.Stats{}, fmt.Errorf("failed to count employees by status: %w", err)
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return department.Stats{}, err
		}
		stats.ByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return department.Stats{}, err
	}

	rows, err = q.Query(ctx, `
		SELECT employment_type, COUNT(*)
		FROM employees
		WHERE department_id = $1 AND status = 'active'
		GROUP BY employment_type
	`, id)
	if err != nil {
		return department.Stats{}, fmt.Errorf("failed to count employees by type: %w", err)
	}
	for rows.Next() {
		var employmentType string
		var count int
		if err := rows.Scan(&employmentType, &count); err != nil {
			rows.Close()
			return department.Stats{}, err
		}
		stats.ByEmploymentType[employmentType] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return department.Stats{}, err
	}

	err = q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(base_salary), 0), COALESCE(AVG(base_salary), 0)
		FROM employees
		WHERE department_id = $1 AND status = 'active'
	`, id).Scan(&stats.TotalEmployees, &stats.TotalSalary, &stats.AverageSalary)
	if err != nil {
		return department.Stats{}, fmt.Errorf("failed to sum salaries: %w", err)
	}

	return stats, nil
}
