package payroll

import "context"

type PayrollRepository interface {
	// Create fails with ErrPayrollExists when (employee, month, year) is taken
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error)
	Update(ctx context.Context, record Record) (Record, error)
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter PayrollFilter) ([]Record, int64, error)
	// ListReleasedByEmployee returns approved and paid records only
	ListReleasedByEmployee(ctx context.Context, employeeID string, filter MyPayrollFilter) ([]Record, int64, error)

	// Totals over released records; month 0 means the whole year
	SumReleased(ctx context.Context, year, month int) (PeriodTotals, error)
	MonthlyTrend(ctx context.Context, year int) ([]MonthTrend, error)
}
