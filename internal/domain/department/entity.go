package department

import (
	"time"

	"github.com/shopspring/decimal"
)

type Department struct {
	ID              string
	Name            string
	Code            string
	Description     *string
	ManagerID       *string
	Budget          *decimal.Decimal
	Location        *string
	ParentID        *string
	IsActive        bool
	EstablishedDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	ManagerName   *string
	EmployeeCount int
}

// Stats is the headcount breakdown of one department's active workforce.
type Stats struct {
	TotalEmployees   int
	ByStatus         map[string]int
	ByEmploymentType map[string]int
	AverageSalary    decimal.Decimal
	TotalSalary      decimal.Decimal
}
