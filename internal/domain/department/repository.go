package department

import "context"

type DepartmentRepository interface {
	// Create returns ErrDepartmentNameExists or ErrDepartmentCodeExists on duplicates
	Create(ctx context.Context, dept Department) (Department, error)

	// GetByID returns inactive departments too
	GetByID(ctx context.Context, id string) (Department, error)

	// ListActive returns active departments ordered by name, with active employee counts
	ListActive(ctx context.Context) ([]Department, error)

	Update(ctx context.Context, dept Department) (Department, error)

	// Deactivate performs the soft delete
	Deactivate(ctx context.Context, id string) error

	// CountActiveEmployees counts employees with status active in the department
	CountActiveEmployees(ctx context.Context, id string) (int, error)

	GetStats(ctx context.Context, id string) (Stats, error)
}
