package department

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name            string           `json:"name"`
	Code            string           `json:"code"`
	Description     *string          `json:"description,omitempty"`
	ManagerID       *string          `json:"manager_id,omitempty"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	Location        *string          `json:"location,omitempty"`
	ParentID        *string          `json:"parent_id,omitempty"`
	EstablishedDate *string          `json:"established_date,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 50 {
		errs.Add("name", "name must not exceed 50 characters")
	}
	if validator.IsEmpty(r.Code) {
		errs.Add("code", "code is required")
	} else if len(r.Code) > 10 {
		errs.Add("code", "code must not exceed 10 characters")
	}
	validateOptional(&errs, r.Description, r.Budget, r.EstablishedDate)

	return errs.Err()
}

type UpdateDepartmentRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name,omitempty"`
	Code            *string          `json:"code,omitempty"`
	Description     *string          `json:"description,omitempty"`
	ManagerID       *string          `json:"manager_id,omitempty"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	Location        *string          `json:"location,omitempty"`
	ParentID        *string          `json:"parent_id,omitempty"`
	EstablishedDate *string          `json:"established_date,omitempty"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if name == "" {
			errs.Add("name", "name must not be empty")
		} else if len(name) > 50 {
			errs.Add("name", "name must not exceed 50 characters")
		}
	}
	if r.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*r.Code))
		r.Code = &code
		if code == "" {
			errs.Add("code", "code must not be empty")
		} else if len(code) > 10 {
			errs.Add("code", "code must not exceed 10 characters")
		}
	}
	if r.ParentID != nil && *r.ParentID == r.ID {
		errs.Add("parent_id", "department cannot be its own parent")
	}
	validateOptional(&errs, r.Description, r.Budget, r.EstablishedDate)

	return errs.Err()
}

func validateOptional(errs *validator.ValidationErrors, description *string, budget *decimal.Decimal, established *string) {
	if description != nil && len(*description) > 500 {
		errs.Add("description", "description must not exceed 500 characters")
	}
	if budget != nil && budget.IsNegative() {
		errs.Add("budget", "budget cannot be negative")
	}
	if established != nil && *established != "" {
		if _, ok := validator.IsValidDate(*established); !ok {
			errs.Add("established_date", "established_date must be in YYYY-MM-DD format")
		}
	}
}

type DepartmentResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Code            string           `json:"code"`
	Description     *string          `json:"description,omitempty"`
	ManagerID       *string          `json:"manager_id,omitempty"`
	ManagerName     *string          `json:"manager_name,omitempty"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	Location        *string          `json:"location,omitempty"`
	ParentID        *string          `json:"parent_id,omitempty"`
	IsActive        bool             `json:"is_active"`
	EstablishedDate string           `json:"established_date"`
	EmployeeCount   int              `json:"employee_count"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

type StatsResponse struct {
	DepartmentID     string          `json:"department_id"`
	DepartmentName   string          `json:"department_name"`
	TotalEmployees   int             `json:"total_employees"`
	ByStatus         map[string]int  `json:"by_status"`
	ByEmploymentType map[string]int  `json:"by_employment_type"`
	AverageSalary    decimal.Decimal `json:"average_salary"`
	TotalSalary      decimal.Decimal `json:"total_salary"`
}
