package leave

import "github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound  = apperror.NotFound("leave request not found")
	ErrLeaveAlreadyProcessed = apperror.Conflict("leave request has already been processed")
	ErrLeaveNotPending       = apperror.Conflict("only pending leave requests can be changed")
	ErrInvalidDateRange      = apperror.Validation("start date must be on or before end date")
	ErrLeaveAccessDenied     = apperror.Forbidden("not authorized to access this leave request")
)
