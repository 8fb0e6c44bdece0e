package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create returns ErrAttendanceExists when the employee already has a record for the date
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns ErrAttendanceNotFound when there is no record
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	Update(ctx context.Context, attendance Attendance) (Attendance, error)
	Delete(ctx context.Context, id string) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByEmployee retrieves one employee's records, newest first
	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// ListByEmployeeInRange returns every record of the employee with from <= date <= to
	ListByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	CountByStatusOnDate(ctx context.Context, date time.Time) (map[Status]int, error)
	SumHoursInRange(ctx context.Context, from, to time.Time) (MonthTotals, error)
	Report(ctx context.Context, filter ReportFilter) ([]ReportRow, error)
}
