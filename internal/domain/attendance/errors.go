package attendance

import "github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn  = apperror.Conflict("already checked in today")
	ErrNotCheckedIn      = apperror.Conflict("you have not checked in yet")
	ErrAlreadyCheckedOut = apperror.Conflict("already checked out today")
	ErrBreakInProgress   = apperror.Conflict("a break is already in progress")
	ErrNoBreakInProgress = apperror.Conflict("no break in progress")

	ErrCheckOutBeforeCheckIn = apperror.Validation("check_out_time must not be before check_in_time")

	ErrAttendanceNotFound = apperror.NotFound("attendance record not found")
	ErrNoAttendanceToday  = apperror.NotFound("no attendance record found for today")
	ErrAttendanceExists   = apperror.Conflict("attendance record already exists for this date")
)
