package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

var (
	validGenders         = []string{string(GenderMale), string(GenderFemale), string(GenderOther)}
	validMaritalStatuses = []string{string(MaritalStatusSingle), string(MaritalStatusMarried), string(MaritalStatusDivorced), string(MaritalStatusWidowed)}
	validEmploymentTypes = []string{string(EmploymentTypeFullTime), string(EmploymentTypePartTime), string(EmploymentTypeContract), string(EmploymentTypeIntern)}
	validWorkLocations   = []string{string(WorkLocationOffice), string(WorkLocationRemote), string(WorkLocationHybrid)}
	validPayFrequencies  = []string{string(PayFrequencyMonthly), string(PayFrequencyBiWeekly), string(PayFrequencyWeekly)}
	validStatuses        = []string{string(StatusActive), string(StatusInactive), string(StatusTerminated), string(StatusOnLeave)}
)

type CreateEmployeeRequest struct {
	// Account
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`

	EmployeeCode *string `json:"employee_code,omitempty"`

	// Personal
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	DateOfBirth      *string          `json:"date_of_birth,omitempty"`
	Gender           *string          `json:"gender,omitempty"`
	MaritalStatus    *string          `json:"marital_status,omitempty"`
	Nationality      *string          `json:"nationality,omitempty"`
	Phone            *string          `json:"phone,omitempty"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	Address          Address          `json:"address"`

	// Job
	DepartmentID   string  `json:"department_id"`
	Position       string  `json:"position"`
	EmploymentType string  `json:"employment_type"`
	JoinDate       string  `json:"join_date"`
	ManagerID      *string `json:"manager_id,omitempty"`
	WorkLocation   string  `json:"work_location"`

	// Compensation
	BaseSalary   decimal.Decimal `json:"base_salary"`
	Currency     string          `json:"currency"`
	PayFrequency string          `json:"pay_frequency"`
	Benefits     Benefits        `json:"benefits"`

	// Parsed by Validate
	joinDate    time.Time
	dateOfBirth *time.Time
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}
	if r.Role == "" {
		r.Role = user.RoleEmployee
	}
	if !r.Role.IsValid() {
		errs.Add("role", "role must be one of: employee, manager, hr, admin")
	}
	if r.EmployeeCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*r.EmployeeCode))
		r.EmployeeCode = &code
		if !validator.IsValidEmployeeCode(code) {
			errs.Add("employee_code", "employee_code must be 3-20 upper-case letters, digits or dashes")
		}
	}

	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "first_name is required")
	}
	if validator.IsEmpty(r.LastName) {
		errs.Add("last_name", "last_name is required")
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, ok := validator.IsValidDate(*r.DateOfBirth)
		if !ok {
			errs.Add("date_of_birth", "date_of_birth must be in YYYY-MM-DD format")
		} else {
			r.dateOfBirth = &dob
		}
	}
	validateEnumPtr(&errs, "gender", r.Gender, validGenders)
	validateEnumPtr(&errs, "marital_status", r.MaritalStatus, validMaritalStatuses)
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must be a valid phone number")
	}

	if validator.IsEmpty(r.DepartmentID) {
		errs.Add("department_id", "department_id is required")
	}
	if validator.IsEmpty(r.Position) {
		errs.Add("position", "position is required")
	}
	if r.EmploymentType == "" {
		r.EmploymentType = string(EmploymentTypeFullTime)
	}
	if !validator.IsInSlice(r.EmploymentType, validEmploymentTypes) {
		errs.Add("employment_type", "employment_type must be one of: "+strings.Join(validEmploymentTypes, ", "))
	}
	if r.WorkLocation == "" {
		r.WorkLocation = string(WorkLocationOffice)
	}
	if !validator.IsInSlice(r.WorkLocation, validWorkLocations) {
		errs.Add("work_location", "work_location must be one of: "+strings.Join(validWorkLocations, ", "))
	}
	if validator.IsEmpty(r.JoinDate) {
		errs.Add("join_date", "join_date is required")
	} else if d, ok := validator.IsValidDate(r.JoinDate); !ok {
		errs.Add("join_date", "join_date must be in YYYY-MM-DD format")
	} else {
		r.joinDate = d
	}

	if r.BaseSalary.IsNegative() || r.BaseSalary.IsZero() {
		errs.Add("base_salary", "base_salary must be greater than 0")
	}
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	if len(r.Currency) != 3 {
		errs.Add("currency", "currency must be a 3-letter ISO code")
	}
	if r.PayFrequency == "" {
		r.PayFrequency = string(PayFrequencyMonthly)
	}
	if !validator.IsInSlice(r.PayFrequency, validPayFrequencies) {
		errs.Add("pay_frequency", "pay_frequency must be one of: "+strings.Join(validPayFrequencies, ", "))
	}

	return errs.Err()
}

// ToEmployee maps a validated request onto a new active employee.
func (r *CreateEmployeeRequest) ToEmployee() Employee {
	emp := Employee{
		Personal: PersonalInfo{
			FirstName:        strings.TrimSpace(r.FirstName),
			LastName:         strings.TrimSpace(r.LastName),
			DateOfBirth:      r.dateOfBirth,
			Nationality:      r.Nationality,
			Phone:            r.Phone,
			EmergencyContact: r.EmergencyContact,
		},
		Address: r.Address,
		Job: JobInfo{
			DepartmentID:   r.DepartmentID,
			Position:       strings.TrimSpace(r.Position),
			EmploymentType: EmploymentType(r.EmploymentType),
			JoinDate:       r.joinDate,
			ManagerID:      r.ManagerID,
			WorkLocation:   WorkLocation(r.WorkLocation),
		},
		Salary: Salary{
			BaseSalary:   r.BaseSalary,
			Currency:     strings.ToUpper(r.Currency),
			PayFrequency: PayFrequency(r.PayFrequency),
		},
		Benefits: r.Benefits,
		Status:   StatusActive,
	}
	if r.EmployeeCode != nil {
		emp.EmployeeCode = *r.EmployeeCode
	}
	if r.Gender != nil {
		g := Gender(*r.Gender)
		emp.Personal.Gender = &g
	}
	if r.MaritalStatus != nil {
		m := MaritalStatus(*r.MaritalStatus)
		emp.Personal.MaritalStatus = &m
	}
	return emp
}

type UpdateEmployeeRequest struct {
	ID string `json:"-"`

	Role *user.Role `json:"role,omitempty"`

	FirstName        *string           `json:"first_name,omitempty"`
	LastName         *string           `json:"last_name,omitempty"`
	DateOfBirth      *string           `json:"date_of_birth,omitempty"`
	Gender           *string           `json:"gender,omitempty"`
	MaritalStatus    *string           `json:"marital_status,omitempty"`
	Nationality      *string           `json:"nationality,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	Address          *Address          `json:"address,omitempty"`

	DepartmentID   *string `json:"department_id,omitempty"`
	Position       *string `json:"position,omitempty"`
	EmploymentType *string `json:"employment_type,omitempty"`
	ManagerID      *string `json:"manager_id,omitempty"`
	WorkLocation   *string `json:"work_location,omitempty"`

	BaseSalary   *decimal.Decimal `json:"base_salary,omitempty"`
	Currency     *string          `json:"currency,omitempty"`
	PayFrequency *string          `json:"pay_frequency,omitempty"`
	Benefits     *Benefits        `json:"benefits,omitempty"`

	Status *string `json:"status,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Role != nil && !r.Role.IsValid() {
		errs.Add("role", "role must be one of: employee, manager, hr, admin")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name must not be empty")
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs.Add("last_name", "last_name must not be empty")
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs.Add("date_of_birth", "date_of_birth must be in YYYY-MM-DD format")
		}
	}
	validateEnumPtr(&errs, "gender", r.Gender, validGenders)
	validateEnumPtr(&errs, "marital_status", r.MaritalStatus, validMaritalStatuses)
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must be a valid phone number")
	}
	if r.DepartmentID != nil && validator.IsEmpty(*r.DepartmentID) {
		errs.Add("department_id", "department_id must not be empty")
	}
	if r.Position != nil && validator.IsEmpty(*r.Position) {
		errs.Add("position", "position must not be empty")
	}
	validateEnumPtr(&errs, "employment_type", r.EmploymentType, validEmploymentTypes)
	validateEnumPtr(&errs, "work_location", r.WorkLocation, validWorkLocations)
	validateEnumPtr(&errs, "pay_frequency", r.PayFrequency, validPayFrequencies)
	if r.BaseSalary != nil && !r.BaseSalary.IsPositive() {
		errs.Add("base_salary", "base_salary must be greater than 0")
	}
	if r.Currency != nil && len(*r.Currency) != 3 {
		errs.Add("currency", "currency must be a 3-letter ISO code")
	}
	// Termination goes through DeleteEmployee so the account is deactivated too
	if r.Status != nil {
		if *r.Status == string(StatusTerminated) {
			errs.Add("status", "use the delete endpoint to terminate an employee")
		} else {
			validateEnumPtr(&errs, "status", r.Status, validStatuses)
		}
	}

	return errs.Err()
}

// Apply copies the set fields of a validated request onto emp.
func (r *UpdateEmployeeRequest) Apply(emp *Employee) {
	if r.FirstName != nil {
		emp.Personal.FirstName = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		emp.Personal.LastName = strings.TrimSpace(*r.LastName)
	}
	if r.DateOfBirth != nil {
		if dob, ok := validator.IsValidDate(*r.DateOfBirth); ok {
			emp.Personal.DateOfBirth = &dob
		} else {
			emp.Personal.DateOfBirth = nil
		}
	}
	if r.Gender != nil {
		g := Gender(*r.Gender)
		emp.Personal.Gender = &g
	}
	if r.MaritalStatus != nil {
		m := MaritalStatus(*r.MaritalStatus)
		emp.Personal.MaritalStatus = &m
	}
	if r.Nationality != nil {
		emp.Personal.Nationality = r.Nationality
	}
	if r.Phone != nil {
		emp.Personal.Phone = r.Phone
	}
	if r.EmergencyContact != nil {
		emp.Personal.EmergencyContact = *r.EmergencyContact
	}
	if r.Address != nil {
		emp.Address = *r.Address
	}
	if r.DepartmentID != nil {
		emp.Job.DepartmentID = *r.DepartmentID
	}
	if r.Position != nil {
		emp.Job.Position = strings.TrimSpace(*r.Position)
	}
	if r.EmploymentType != nil {
		emp.Job.EmploymentType = EmploymentType(*r.EmploymentType)
	}
	if r.ManagerID != nil {
		emp.Job.ManagerID = r.ManagerID
	}
	if r.WorkLocation != nil {
		emp.Job.WorkLocation = WorkLocation(*r.WorkLocation)
	}
	if r.BaseSalary != nil {
		emp.Salary.BaseSalary = *r.BaseSalary
	}
	if r.Currency != nil {
		emp.Salary.Currency = strings.ToUpper(*r.Currency)
	}
	if r.PayFrequency != nil {
		emp.Salary.PayFrequency = PayFrequency(*r.PayFrequency)
	}
	if r.Benefits != nil {
		emp.Benefits = *r.Benefits
	}
	if r.Status != nil {
		emp.Status = Status(*r.Status)
	}
}

type EmployeeFilter struct {
	Search         *string `json:"search,omitempty"`
	DepartmentID   *string `json:"department_id,omitempty"`
	Status         *string `json:"status,omitempty"`
	EmploymentType *string `json:"employment_type,omitempty"`

	pagination.Params

	SortBy    string `json:"sort_by"`    // employee_code, first_name, join_date, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Params.Normalize(&errs)
	validateEnumPtr(&errs, "status", f.Status, validStatuses)
	validateEnumPtr(&errs, "employment_type", f.EmploymentType, validEmploymentTypes)

	if f.SortBy == "" {
		f.SortBy = "created_at"
	} else if !validator.IsInSlice(f.SortBy, []string{"employee_code", "first_name", "join_date", "created_at"}) {
		errs.Add("sort_by", "sort_by must be one of: employee_code, first_name, join_date, created_at")
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}

	return errs.Err()
}

func validateEnumPtr(errs *validator.ValidationErrors, field string, value *string, allowed []string) {
	if value == nil {
		return
	}
	if !validator.IsInSlice(*value, allowed) {
		errs.Add(field, field+" must be one of: "+strings.Join(allowed, ", "))
	}
}

type EmployeeResponse struct {
	ID               string           `json:"id"`
	EmployeeCode     string           `json:"employee_code"`
	UserID           string           `json:"user_id"`
	Email            *string          `json:"email,omitempty"`
	Role             *user.Role       `json:"role,omitempty"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	FullName         string           `json:"full_name"`
	DateOfBirth      *string          `json:"date_of_birth,omitempty"`
	Gender           *Gender          `json:"gender,omitempty"`
	MaritalStatus    *MaritalStatus   `json:"marital_status,omitempty"`
	Nationality      *string          `json:"nationality,omitempty"`
	Phone            *string          `json:"phone,omitempty"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	Address          Address          `json:"address"`
	DepartmentID     string           `json:"department_id"`
	DepartmentName   *string          `json:"department_name,omitempty"`
	Position         string           `json:"position"`
	EmploymentType   EmploymentType   `json:"employment_type"`
	JoinDate         string           `json:"join_date"`
	EndDate          *string          `json:"end_date,omitempty"`
	ManagerID        *string          `json:"manager_id,omitempty"`
	ManagerName      *string          `json:"manager_name,omitempty"`
	WorkLocation     WorkLocation     `json:"work_location"`
	BaseSalary       decimal.Decimal  `json:"base_salary"`
	Currency         string           `json:"currency"`
	PayFrequency     PayFrequency     `json:"pay_frequency"`
	Benefits         Benefits         `json:"benefits"`
	Status           Status           `json:"status"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
}

type ListEmployeeResponse struct {
	pagination.Info
	Employees []EmployeeResponse `json:"employees"`
}
