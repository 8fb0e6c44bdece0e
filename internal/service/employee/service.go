package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vijaygla/HRMS-sub000/internal/domain/department"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
)

type EmployeeServiceImpl struct {
	txManager      database.TxManager
	employeeRepo   employee.EmployeeRepository
	userRepo       user.UserRepository
	departmentRepo department.DepartmentRepository
	now            func() time.Time
}

func NewEmployeeService(
	txManager database.TxManager,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	departmentRepo department.DepartmentRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		txManager:      txManager,
		employeeRepo:   employeeRepo,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		now:            time.Now,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func mapEmployeeToResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:               e.ID,
		EmployeeCode:     e.EmployeeCode,
		UserID:           e.UserID,
		Email:            e.Email,
		Role:             e.Role,
		FirstName:        e.Personal.FirstName,
		LastName:         e.Personal.LastName,
		FullName:         e.FullName(),
		DateOfBirth:      formatDate(e.Personal.DateOfBirth),
		Gender:           e.Personal.Gender,
		MaritalStatus:    e.Personal.MaritalStatus,
		Nationality:      e.Personal.Nationality,
		Phone:            e.Personal.Phone,
		EmergencyContact: e.Personal.EmergencyContact,
		Address:          e.Address,
		DepartmentID:     e.Job.DepartmentID,
		DepartmentName:   e.DepartmentName,
		Position:         e.Job.Position,
		EmploymentType:   e.Job.EmploymentType,
		JoinDate:         e.Job.JoinDate.Format("2006-01-02"),
		EndDate:          formatDate(e.Job.EndDate),
		ManagerID:        e.Job.ManagerID,
		ManagerName:      e.ManagerName,
		WorkLocation:     e.Job.WorkLocation,
		BaseSalary:       e.Salary.BaseSalary,
		Currency:         e.Salary.Currency,
		PayFrequency:     e.Salary.PayFrequency,
		Benefits:         e.Benefits,
		Status:           e.Status,
		CreatedAt:        e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        e.UpdatedAt.Format(time.RFC3339),
	}
}

// managerDepartment returns the department of the actor's own employee record.
func (s *EmployeeServiceImpl) managerDepartment(ctx context.Context, actor user.Actor) (string, error) {
	if actor.EmployeeID == "" {
		return "", employee.ErrEmployeeProfileRequired
	}
	self, err := s.employeeRepo.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return "", employee.ErrEmployeeProfileRequired
		}
		return "", fmt.Errorf("failed to load manager record: %w", err)
	}
	return self.Job.DepartmentID, nil
}

// checkDepartmentScope rejects managers acting outside their own department.
// Other roles are not scoped.
func (s *EmployeeServiceImpl) checkDepartmentScope(ctx context.Context, actor user.Actor, departmentIDs ...string) error {
	if actor.Role != user.RoleManager {
		return nil
	}
	own, err := s.managerDepartment(ctx, actor)
	if err != nil {
		return err
	}
	for _, id := range departmentIDs {
		if id != own {
			return user.ErrOutsideDepartmentScope
		}
	}
	return nil
}

func (s *EmployeeServiceImpl) requireActiveDepartment(ctx context.Context, id string) error {
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !d.IsActive {
		return department.ErrDepartmentInactive
	}
	return nil
}

func (s *EmployeeServiceImpl) requireManager(ctx context.Context, managerID *string) error {
	if managerID == nil || *managerID == "" {
		return nil
	}
	_, err := s.employeeRepo.GetByID(ctx, *managerID)
	return err
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionEmployeeCreate)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !user.CanActOnRole(actor.Role, req.Role) {
		return employee.EmployeeResponse{}, user.ErrRoleAssignmentForbidden
	}
	if err := s.checkDepartmentScope(ctx, actor, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.requireActiveDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.requireManager(ctx, req.ManagerID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created employee.Employee
	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		account, err := s.userRepo.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         req.Role,
			IsActive:     true,
		})
		if err != nil {
			return err
		}

		newEmployee := req.ToEmployee()
		newEmployee.UserID = account.ID
		if newEmployee.EmployeeCode == "" {
			if newEmployee.EmployeeCode, err = s.employeeRepo.NextEmployeeCode(txCtx); err != nil {
				return err
			}
		}

		created, err = s.employeeRepo.Create(txCtx, newEmployee)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode, "by", actor.UserID)
	return mapEmployeeToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !actor.IsEmployee(id) && !actor.Can(user.PermissionEmployeeView) {
		return employee.EmployeeResponse{}, user.ErrInsufficientPermissions
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionEmployeeUpdate)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	targetDepartments := []string{emp.Job.DepartmentID}
	if req.DepartmentID != nil {
		targetDepartments = append(targetDepartments, *req.DepartmentID)
	}
	if err := s.checkDepartmentScope(ctx, actor, targetDepartments...); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Role != nil {
		current := user.RoleEmployee
		if emp.Role != nil {
			current = *emp.Role
		}
		if !user.CanActOnRole(actor.Role, current) || !user.CanActOnRole(actor.Role, *req.Role) {
			return employee.EmployeeResponse{}, user.ErrRoleAssignmentForbidden
		}
	}
	if req.DepartmentID != nil && *req.DepartmentID != emp.Job.DepartmentID {
		if err := s.requireActiveDepartment(ctx, *req.DepartmentID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}
	if err := s.requireManager(ctx, req.ManagerID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.ManagerID != nil && *req.ManagerID == emp.ID {
		return employee.EmployeeResponse{}, employee.ErrSelfManager
	}

	req.Apply(&emp)

	var updated employee.Employee
	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if req.Role != nil {
			if err := s.userRepo.UpdateRole(txCtx, emp.UserID, *req.Role); err != nil {
				return err
			}
		}
		var err error
		updated, err = s.employeeRepo.Update(txCtx, emp)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	actor, err := user.RequirePermission(ctx, user.PermissionEmployeeDelete)
	if err != nil {
		return err
	}
	if actor.IsEmployee(id) {
		return employee.ErrCannotDeleteSelf
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if emp.Status == employee.StatusTerminated {
		return employee.ErrEmployeeAlreadyTerminated
	}

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Terminate(txCtx, id, s.now().UTC()); err != nil {
			return err
		}
		return s.userRepo.SetActive(txCtx, emp.UserID, false)
	})
	if err != nil {
		return fmt.Errorf("failed to terminate employee: %w", err)
	}

	slog.Info("employee terminated", "employee_id", id, "by", actor.UserID)
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionEmployeeView); err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}

	return employee.ListEmployeeResponse{
		Info:      pagination.NewInfo(filter.Params, total),
		Employees: responses,
	}, nil
}

// ListByDepartment implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListByDepartment(ctx context.Context, departmentID string) ([]employee.EmployeeResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionEmployeeView); err != nil {
		return nil, err
	}
	if _, err := s.departmentRepo.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}
	return responses, nil
}
