package employee

import "github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"

var (
	ErrEmployeeNotFound          = apperror.NotFound("employee not found")
	ErrEmployeeCodeExists        = apperror.Conflict("employee code already exists")
	ErrUserAlreadyLinked         = apperror.Conflict("user account already has an employee profile")
	ErrEmployeeAlreadyTerminated = apperror.Conflict("employee is already terminated")
	ErrCannotDeleteSelf          = apperror.Forbidden("cannot delete your own employee record")
	ErrEmployeeProfileRequired   = apperror.Forbidden("no employee profile is linked to this account")
	ErrSelfManager               = apperror.Validation("employee cannot be their own manager")
)
