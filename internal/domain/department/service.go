package department

import "context"

type DepartmentService interface {
	List(ctx context.Context) ([]DepartmentResponse, error)
	Get(ctx context.Context, id string) (DepartmentResponse, error)
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	Update(ctx context.Context, req UpdateDepartmentRequest) (DepartmentResponse, error)
	// Delete deactivates the department; blocked while active employees reference it
	Delete(ctx context.Context, id string) error
	GetStats(ctx context.Context, id string) (StatsResponse, error)
}
