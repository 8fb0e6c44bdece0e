package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vijaygla/HRMS-sub000/internal/domain/department"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
)

// SeedDepartment inserts an active department.
func (s *Store) SeedDepartment(ctx context.Context, name string) (department.Department, error) {
	code := strings.ToUpper(name)
	if len(code) > 3 {
		code = code[:3]
	}
	return s.Departments().Create(ctx, department.Department{
		Name:            name,
		Code:            code,
		IsActive:        true,
		EstablishedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

// SeedEmployee inserts an active full-time employee with a linked user account.
// The returned actor can be put on a context with user.WithActor.
func (s *Store) SeedEmployee(ctx context.Context, departmentID string, role user.Role, baseSalary decimal.Decimal) (employee.Employee, user.Actor, error) {
	s.mu.Lock()
	n := len(s.t.users) + 1
	s.mu.Unlock()

	email := fmt.Sprintf("employee%d@example.com", n)
	account, err := s.Users().Create(ctx, user.User{Email: email, Role: role, IsActive: true})
	if err != nil {
		return employee.Employee{}, user.Actor{}, err
	}
	code, err := s.Employees().NextEmployeeCode(ctx)
	if err != nil {
		return employee.Employee{}, user.Actor{}, err
	}

	emp, err := s.Employees().Create(ctx, employee.Employee{
		EmployeeCode: code,
		UserID:       account.ID,
		Personal:     employee.PersonalInfo{FirstName: "Employee", LastName: fmt.Sprint(n)},
		Job: employee.JobInfo{
			DepartmentID:   departmentID,
			Position:       "Staff",
			EmploymentType: employee.EmploymentTypeFullTime,
			JoinDate:       time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			WorkLocation:   employee.WorkLocationOffice,
		},
		Salary: employee.Salary{
			BaseSalary:   baseSalary,
			Currency:     employee.DefaultCurrency,
			PayFrequency: employee.PayFrequencyMonthly,
		},
		Status: employee.StatusActive,
	})
	if err != nil {
		return employee.Employee{}, user.Actor{}, err
	}

	return emp, user.Actor{UserID: account.ID, EmployeeID: emp.ID, Email: email, Role: role}, nil
}
