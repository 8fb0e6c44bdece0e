package employee

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
)

type Employee struct {
	ID           string
	EmployeeCode string
	UserID       string
	Personal     PersonalInfo
	Address      Address
	Job          JobInfo
	Salary       Salary
	Benefits     Benefits
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	Email          *string
	Role           *user.Role
	DepartmentName *string
	ManagerName    *string
}

func (e Employee) FullName() string {
	return e.Personal.FirstName + " " + e.Personal.LastName
}

type PersonalInfo struct {
	FirstName        string
	LastName         string
	DateOfBirth      *time.Time
	Gender           *Gender
	MaritalStatus    *MaritalStatus
	Nationality      *string
	Phone            *string
	EmergencyContact EmergencyContact
}

type EmergencyContact struct {
	Name         *string `json:"name,omitempty"`
	Relationship *string `json:"relationship,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

type Address struct {
	Street  *string `json:"street,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	ZipCode *string `json:"zip_code,omitempty"`
	Country *string `json:"country,omitempty"`
}

type JobInfo struct {
	DepartmentID   string
	Position       string
	EmploymentType EmploymentType
	JoinDate       time.Time
	EndDate        *time.Time
	ManagerID      *string
	WorkLocation   WorkLocation
}

type Salary struct {
	BaseSalary   decimal.Decimal
	Currency     string
	PayFrequency PayFrequency
}

type Benefits struct {
	HealthInsurance bool `json:"health_insurance"`
	DentalInsurance bool `json:"dental_insurance"`
	VisionInsurance bool `json:"vision_insurance"`
	Retirement401k  bool `json:"retirement_401k"`
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "single"
	MaritalStatusMarried  MaritalStatus = "married"
	MaritalStatusDivorced MaritalStatus = "divorced"
	MaritalStatusWidowed  MaritalStatus = "widowed"
)

type EmploymentType string

const (
	EmploymentTypeFullTime EmploymentType = "full-time"
	EmploymentTypePartTime EmploymentType = "part-time"
	EmploymentTypeContract EmploymentType = "contract"
	EmploymentTypeIntern   EmploymentType = "intern"
)

type WorkLocation string

const (
	WorkLocationOffice WorkLocation = "office"
	WorkLocationRemote WorkLocation = "remote"
	WorkLocationHybrid WorkLocation = "hybrid"
)

type PayFrequency string

const (
	PayFrequencyMonthly  PayFrequency = "monthly"
	PayFrequencyBiWeekly PayFrequency = "bi-weekly"
	PayFrequencyWeekly   PayFrequency = "weekly"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
	StatusOnLeave    Status = "on-leave"
)

const DefaultCurrency = "USD"
