package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	Update(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	// Decide stores an approval or rejection only while the stored request is
	// still pending, otherwise it returns ErrLeaveAlreadyProcessed
	Decide(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter LeaveFilter) ([]LeaveRequest, int64, error)
	ListByEmployee(ctx context.Context, employeeID string, filter MyLeaveFilter) ([]LeaveRequest, int64, error)

	// ListApprovedInYear returns the employee's approved requests starting in year
	ListApprovedInYear(ctx context.Context, employeeID string, year int) ([]LeaveRequest, error)

	// ListApprovedCovering returns approved requests whose range contains date
	ListApprovedCovering(ctx context.Context, date time.Time) ([]LeaveRequest, error)

	// Stats for requests applied between from (inclusive) and to (exclusive)
	CountByStatus(ctx context.Context, from, to time.Time) (map[Status]int, error)
	SummarizeByType(ctx context.Context, from, to time.Time) ([]TypeSummary, error)
	SummarizeByMonth(ctx context.Context, from, to time.Time) ([]MonthSummary, error)
}
