package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func (s *Store) Employees() employee.EmployeeRepository {
	return employeeRepository{s: s}
}

func (r employeeRepository) join(e employee.Employee) employee.Employee {
	if u, ok := r.s.t.users[e.UserID]; ok {
		email, role := u.Email, u.Role
		e.Email, e.Role = &email, &role
	}
	if d, ok := r.s.t.departments[e.Job.DepartmentID]; ok {
		e.DepartmentName = strPtr(d.Name)
	}
	e.ManagerName = r.s.employeeName(e.Job.ManagerID)
	return e
}

func (r employeeRepository) checkUnique(e employee.Employee) error {
	for _, other := range r.s.t.employees {
		if other.ID == e.ID {
			continue
		}
		if other.EmployeeCode == e.EmployeeCode {
			return employee.ErrEmployeeCodeExists
		}
		if other.UserID == e.UserID {
			return employee.ErrUserAlreadyLinked
		}
	}
	return nil
}

func (r employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(newEmployee); err != nil {
		return employee.Employee{}, err
	}
	now := r.s.now()
	newEmployee.ID = newID()
	newEmployee.CreatedAt, newEmployee.UpdatedAt = now, now
	r.s.t.employees[newEmployee.ID] = newEmployee
	return r.join(newEmployee), nil
}

func (r employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.t.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.join(e), nil
}

func (r employeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.t.employees {
		if e.UserID == userID {
			return r.join(e), nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r employeeRepository) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.employees[emp.ID]; !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if err := r.checkUnique(emp); err != nil {
		return employee.Employee{}, err
	}
	emp.UpdatedAt = r.s.now()
	r.s.t.employees[emp.ID] = emp
	return r.join(emp), nil
}

func (r employeeRepository) Terminate(ctx context.Context, id string, endDate time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.t.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.Status = employee.StatusTerminated
	e.Job.EndDate = &endDate
	e.UpdatedAt = r.s.now()
	r.s.t.employees[id] = e
	return nil
}

func (r employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := ""
	if filter.Search != nil {
		search = strings.ToLower(*filter.Search)
	}

	employees := []employee.Employee{}
	for _, e := range r.s.t.employees {
		e = r.join(e)
		if search != "" {
			haystack := strings.ToLower(e.Personal.FirstName + " " + e.Personal.LastName + " " + e.EmployeeCode)
			if e.Email != nil {
				haystack += " " + *e.Email
			}
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		if !matches(filter.DepartmentID, e.Job.DepartmentID) ||
			!matches(filter.Status, string(e.Status)) ||
			!matches(filter.EmploymentType, string(e.Job.EmploymentType)) {
			continue
		}
		employees = append(employees, e)
	}

	asc := strings.EqualFold(filter.SortOrder, "asc")
	sortBy(employees, func(a, b employee.Employee) bool {
		var less bool
		switch filter.SortBy {
		case "employee_code":
			less = a.EmployeeCode < b.EmployeeCode
		case "first_name":
			less = a.Personal.FirstName < b.Personal.FirstName
		case "join_date":
			less = a.Job.JoinDate.Before(b.Job.JoinDate)
		default:
			less = a.CreatedAt.Before(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID)
		}
		if asc {
			return less
		}
		return !less
	})

	return page(employees, filter.Limit, filter.Offset()), int64(len(employees)), nil
}

func (r employeeRepository) ListByDepartment(ctx context.Context, departmentID string) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	employees := []employee.Employee{}
	for _, e := range r.s.t.employees {
		if e.Job.DepartmentID == departmentID {
			employees = append(employees, r.join(e))
		}
	}
	sortBy(employees, func(a, b employee.Employee) bool { return a.EmployeeCode < b.EmployeeCode })
	return employees, nil
}

func (r employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	employees := []employee.Employee{}
	for _, e := range r.s.t.employees {
		if e.Status == employee.StatusActive {
			employees = append(employees, r.join(e))
		}
	}
	sortBy(employees, func(a, b employee.Employee) bool { return a.EmployeeCode < b.EmployeeCode })
	return employees, nil
}

func (r employeeRepository) NextEmployeeCode(ctx context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.t.employeeSeq++
	return fmt.Sprintf("EMP%04d", r.s.t.employeeSeq), nil
}
