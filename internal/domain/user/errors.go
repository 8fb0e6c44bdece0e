package user

import "github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"

var (
	ErrUserNotFound            = apperror.NotFound("user not found")
	ErrEmailExists             = apperror.Conflict("email already registered")
	ErrUnauthenticated         = apperror.Unauthorized("authentication required")
	ErrInsufficientPermissions = apperror.Forbidden("insufficient permissions")
	ErrRoleAssignmentForbidden = apperror.Forbidden("cannot assign a role above your own")
	ErrOutsideDepartmentScope  = apperror.Forbidden("managers may only manage employees in their own department")
)
