package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
	StatusOnLeave Status = "on-leave"
)

type Location string

const (
	LocationOffice Location = "office"
	LocationRemote Location = "remote"
	LocationField  Location = "field"
)

// Leg is one side of a working day, the check-in or the check-out.
type Leg struct {
	Time      *time.Time
	Location  *Location
	Latitude  *float64
	Longitude *float64
	Notes     *string
}

type Break struct {
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
	Reason *string    `json:"reason,omitempty"`
}

// Attendance is the single record of one employee on one calendar date.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	CheckIn       Leg
	CheckOut      Leg
	Breaks        []Break
	WorkingHours  float64
	OvertimeHours float64
	Status        Status
	IsManualEntry bool
	ApprovedBy    *string
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	EmployeeCode   *string
	EmployeeName   *string
	DepartmentID   *string
	DepartmentName *string
}

// MonthTotals aggregates hours over a date range.
type MonthTotals struct {
	Records            int
	TotalWorkingHours  float64
	TotalOvertimeHours float64
}

// ReportRow is the per-employee summary of an attendance report.
type ReportRow struct {
	EmployeeID         string  `json:"employee_id"`
	EmployeeCode       string  `json:"employee_code"`
	EmployeeName       string  `json:"employee_name"`
	DepartmentName     *string `json:"department_name,omitempty"`
	TotalDays          int     `json:"total_days"`
	PresentDays        int     `json:"present_days"`
	LateDays           int     `json:"late_days"`
	AbsentDays         int     `json:"absent_days"`
	HalfDays           int     `json:"half_days"`
	LeaveDays          int     `json:"leave_days"`
	TotalWorkingHours  float64 `json:"total_working_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
}
