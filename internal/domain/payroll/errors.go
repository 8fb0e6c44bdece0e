package payroll

import "github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"

var (
	ErrPayrollNotFound     = apperror.NotFound("payroll record not found")
	ErrPayrollExists       = apperror.Conflict("payroll already exists for this period")
	ErrNotCalculated       = apperror.Conflict("payroll must be calculated before approval")
	ErrNotApproved         = apperror.Conflict("payroll must be approved before payment")
	ErrAlreadyPaid         = apperror.Conflict("payroll has already been paid")
	ErrAlreadyCancelled    = apperror.Conflict("payroll has already been cancelled")
	ErrAlreadyApproved     = apperror.Conflict("payroll has already been approved")
	ErrStatusRegression    = apperror.Conflict("payroll status can only move forward")
	ErrPayslipAccessDenied = apperror.Forbidden("not authorized to access this payslip")
	ErrEmployeeHasNoSalary = apperror.Validation("employee has no base salary")
)
