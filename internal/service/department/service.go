package department

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/domain/department"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

type DepartmentServiceImpl struct {
	department.DepartmentRepository
	employeeRepository employee.EmployeeRepository
	now                func() time.Time
}

func NewDepartmentService(departmentRepository department.DepartmentRepository, employeeRepository employee.EmployeeRepository) department.DepartmentService {
	return &DepartmentServiceImpl{
		DepartmentRepository: departmentRepository,
		employeeRepository:   employeeRepository,
		now:                  time.Now,
	}
}

func toResponse(d department.Department) department.DepartmentResponse {
	return department.DepartmentResponse{
		ID:              d.ID,
		Name:            d.Name,
		Code:            d.Code,
		Description:     d.Description,
		ManagerID:       d.ManagerID,
		ManagerName:     d.ManagerName,
		Budget:          d.Budget,
		Location:        d.Location,
		ParentID:        d.ParentID,
		IsActive:        d.IsActive,
		EstablishedDate: d.EstablishedDate.Format("2006-01-02"),
		EmployeeCount:   d.EmployeeCount,
		CreatedAt:       d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       d.UpdatedAt.Format(time.RFC3339),
	}
}

// List implements department.DepartmentService.
func (s *DepartmentServiceImpl) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	depts, err := s.DepartmentRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	responses := make([]department.DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		responses = append(responses, toResponse(d))
	}
	return responses, nil
}

// Get implements department.DepartmentService.
func (s *DepartmentServiceImpl) Get(ctx context.Context, id string) (department.DepartmentResponse, error) {
	d, err := s.DepartmentRepository.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return toResponse(d), nil
}

// checkReferences makes sure the manager and the parent department exist.
func (s *DepartmentServiceImpl) checkReferences(ctx context.Context, managerID, parentID *string) error {
	if managerID != nil && *managerID != "" {
		if _, err := s.employeeRepository.GetByID(ctx, *managerID); err != nil {
			return err
		}
	}
	if parentID != nil && *parentID != "" {
		if _, err := s.DepartmentRepository.GetByID(ctx, *parentID); err != nil {
			return err
		}
	}
	return nil
}

// Create implements department.DepartmentService.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionDepartmentManage); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := s.checkReferences(ctx, req.ManagerID, req.ParentID); err != nil {
		return department.DepartmentResponse{}, err
	}

	established := s.now().UTC()
	if req.EstablishedDate != nil && *req.EstablishedDate != "" {
		established, _ = validator.IsValidDate(*req.EstablishedDate)
	}

	created, err := s.DepartmentRepository.Create(ctx, department.Department{
		Name:            req.Name,
		Code:            req.Code,
		Description:     req.Description,
		ManagerID:       req.ManagerID,
		Budget:          req.Budget,
		Location:        req.Location,
		ParentID:        req.ParentID,
		IsActive:        true,
		EstablishedDate: established,
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return toResponse(created), nil
}

// Update implements department.DepartmentService.
func (s *DepartmentServiceImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionDepartmentManage); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	d, err := s.DepartmentRepository.GetByID(ctx, req.ID)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := s.checkReferences(ctx, req.ManagerID, req.ParentID); err != nil {
		return department.DepartmentResponse{}, err
	}

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Code != nil {
		d.Code = *req.Code
	}
	if req.Description != nil {
		d.Description = req.Description
	}
	if req.ManagerID != nil {
		d.ManagerID = req.ManagerID
	}
	if req.Budget != nil {
		d.Budget = req.Budget
	}
	if req.Location != nil {
		d.Location = req.Location
	}
	if req.ParentID != nil {
		d.ParentID = req.ParentID
	}
	if req.EstablishedDate != nil {
		if established, ok := validator.IsValidDate(*req.EstablishedDate); ok {
			d.EstablishedDate = established
		}
	}

	updated, err := s.DepartmentRepository.Update(ctx, d)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete implements department.DepartmentService.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := user.RequirePermission(ctx, user.PermissionDepartmentDelete); err != nil {
		return err
	}

	if _, err := s.DepartmentRepository.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.DepartmentRepository.CountActiveEmployees(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count department employees: %w", err)
	}
	if active > 0 {
		return department.ErrDepartmentHasActiveEmployees
	}

	return s.DepartmentRepository.Deactivate(ctx, id)
}

// GetStats implements department.DepartmentService.
func (s *DepartmentServiceImpl) GetStats(ctx context.Context, id string) (department.StatsResponse, error) {
	d, err := s.DepartmentRepository.GetByID(ctx, id)
	if err != nil {
		return department.StatsResponse{}, err
	}

	stats, err := s.DepartmentRepository.GetStats(ctx, id)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return department.StatsResponse{}, err
		}
		return department.StatsResponse{}, fmt.Errorf("failed to load department stats: %w", err)
	}

	return department.StatsResponse{
		DepartmentID:     d.ID,
		DepartmentName:   d.Name,
		TotalEmployees:   stats.TotalEmployees,
		ByStatus:         stats.ByStatus,
		ByEmploymentType: stats.ByEmploymentType,
		AverageSalary:    stats.AverageSalary,
		TotalSalary:      stats.TotalSalary,
	}, nil
}
