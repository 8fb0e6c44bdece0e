package leave

import (
	"time"
)

type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypePersonal  Type = "personal"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
	TypeEmergency Type = "emergency"
	TypeUnpaid    Type = "unpaid"
)

// Types lists every leave type in display order.
func Types() []Type {
	return []Type{TypeAnnual, TypeSick, TypePersonal, TypeMaternity, TypePaternity, TypeEmergency, TypeUnpaid}
}

func (t Type) IsValid() bool {
	for _, v := range Types() {
		if v == t {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type HalfDayPeriod string

const (
	HalfDayMorning   HalfDayPeriod = "morning"
	HalfDayAfternoon HalfDayPeriod = "afternoon"
)

type EmergencyContact struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Relationship *string `json:"relationship,omitempty"`
}

type LeaveRequest struct {
	ID               string
	EmployeeID       string
	Type             Type
	StartDate        time.Time
	EndDate          time.Time
	TotalDays        float64
	Reason           string
	Status           Status
	AppliedDate      time.Time
	ApprovedBy       *string
	ApprovedDate     *time.Time
	RejectionReason  *string
	IsHalfDay        bool
	HalfDayPeriod    *HalfDayPeriod
	EmergencyContact EmergencyContact
	HandoverNotes    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	EmployeeCode   *string
	EmployeeName   *string
	DepartmentName *string
	ApproverName   *string
}

// TypeSummary aggregates requests of one type.
type TypeSummary struct {
	Type      Type    `json:"type"`
	Count     int     `json:"count"`
	TotalDays float64 `json:"total_days"`
}

// MonthSummary aggregates requests applied for in one month.
type MonthSummary struct {
	Month     int     `json:"month"`
	Count     int     `json:"count"`
	TotalDays float64 `json:"total_days"`
}
