package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	// Create returns ErrEmployeeCodeExists or ErrUserAlreadyLinked on duplicates
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)

	// Terminate sets status terminated and the job end date
	Terminate(ctx context.Context, id string, endDate time.Time) error

	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]Employee, error)

	// ListActive returns every employee with status active, used by background jobs
	ListActive(ctx context.Context) ([]Employee, error)

	// NextEmployeeCode reserves the next generated code (EMP0001, EMP0002, ...)
	NextEmployeeCode(ctx context.Context) (string, error)
}
