package department

import "github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"

var (
	ErrDepartmentNotFound           = apperror.NotFound("department not found")
	ErrDepartmentNameExists         = apperror.Conflict("department name already exists")
	ErrDepartmentCodeExists         = apperror.Conflict("department code already exists")
	ErrDepartmentHasActiveEmployees = apperror.Conflict("cannot delete department with active employees")
	ErrDepartmentInactive           = apperror.Validation("department is inactive")
)
