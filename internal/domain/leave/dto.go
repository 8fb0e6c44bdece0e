package leave

import (
	"strings"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

// ========================================
// COMMAND DTOs
// ========================================

type SubmitLeaveRequest struct {
	LeaveType        Type             `json:"leave_type"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	Reason           string           `json:"reason"`
	IsHalfDay        bool             `json:"is_half_day"`
	HalfDayPeriod    *HalfDayPeriod   `json:"half_day_period,omitempty"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	HandoverNotes    *string          `json:"handover_notes,omitempty"`

	start time.Time
	end   time.Time
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.LeaveType.IsValid() {
		errs.Add("leave_type", "leave_type must be one of: annual, sick, personal, maternity, paternity, emergency, unpaid")
	}
	r.start, r.end = validateDates(&errs, r.StartDate, r.EndDate)

	r.Reason = strings.TrimSpace(r.Reason)
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 500 {
		errs.Add("reason", "reason must not exceed 500 characters")
	}
	validateHalfDay(&errs, r.IsHalfDay, r.HalfDayPeriod)
	validateEmergencyContact(&errs, r.EmergencyContact)
	if r.HandoverNotes != nil && len(*r.HandoverNotes) > 1000 {
		errs.Add("handover_notes", "handover_notes must not exceed 1000 characters")
	}

	return errs.Err()
}

// ToLeaveRequest builds a pending request for employeeID. Validate must have
// succeeded first.
func (r SubmitLeaveRequest) ToLeaveRequest(employeeID string, appliedAt time.Time) LeaveRequest {
	req := LeaveRequest{
		EmployeeID:       employeeID,
		Type:             r.LeaveType,
		StartDate:        r.start,
		EndDate:          r.end,
		Reason:           r.Reason,
		Status:           StatusPending,
		AppliedDate:      appliedAt,
		IsHalfDay:        r.IsHalfDay,
		EmergencyContact: r.EmergencyContact,
		HandoverNotes:    r.HandoverNotes,
	}
	if r.IsHalfDay {
		req.HalfDayPeriod = r.HalfDayPeriod
	}
	return req
}

type UpdateLeaveRequest struct {
	ID               string            `json:"-"`
	LeaveType        *Type             `json:"leave_type,omitempty"`
	StartDate        *string           `json:"start_date,omitempty"`
	EndDate          *string           `json:"end_date,omitempty"`
	Reason           *string           `json:"reason,omitempty"`
	IsHalfDay        *bool             `json:"is_half_day,omitempty"`
	HalfDayPeriod    *HalfDayPeriod    `json:"half_day_period,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	HandoverNotes    *string           `json:"handover_notes,omitempty"`
}

func (r *UpdateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.LeaveType != nil && !r.LeaveType.IsValid() {
		errs.Add("leave_type", "leave_type must be one of: annual, sick, personal, maternity, paternity, emergency, unpaid")
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if r.Reason != nil {
		trimmed := strings.TrimSpace(*r.Reason)
		r.Reason = &trimmed
		if trimmed == "" {
			errs.Add("reason", "reason must not be empty")
		} else if len(trimmed) > 500 {
			errs.Add("reason", "reason must not exceed 500 characters")
		}
	}
	if r.HalfDayPeriod != nil && *r.HalfDayPeriod != HalfDayMorning && *r.HalfDayPeriod != HalfDayAfternoon {
		errs.Add("half_day_period", "half_day_period must be one of: morning, afternoon")
	}
	if r.EmergencyContact != nil {
		validateEmergencyContact(&errs, *r.EmergencyContact)
	}

	return errs.Err()
}

// Apply copies the set fields onto l. The caller recomputes total days and
// re-checks the half-day period afterwards.
func (r *UpdateLeaveRequest) Apply(l *LeaveRequest) {
	if r.LeaveType != nil {
		l.Type = *r.LeaveType
	}
	if r.StartDate != nil {
		l.StartDate, _ = validator.IsValidDate(*r.StartDate)
	}
	if r.EndDate != nil {
		l.EndDate, _ = validator.IsValidDate(*r.EndDate)
	}
	if r.Reason != nil {
		l.Reason = *r.Reason
	}
	if r.IsHalfDay != nil {
		l.IsHalfDay = *r.IsHalfDay
		if !l.IsHalfDay {
			l.HalfDayPeriod = nil
		}
	}
	if r.HalfDayPeriod != nil && l.IsHalfDay {
		l.HalfDayPeriod = r.HalfDayPeriod
	}
	if r.EmergencyContact != nil {
		l.EmergencyContact = *r.EmergencyContact
	}
	if r.HandoverNotes != nil {
		l.HandoverNotes = r.HandoverNotes
	}
}

type RejectLeaveRequest struct {
	ID              string `json:"-"`
	RejectionReason string `json:"rejection_reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	r.RejectionReason = strings.TrimSpace(r.RejectionReason)
	if r.RejectionReason == "" {
		errs.Add("rejection_reason", "rejection_reason is required")
	} else if len(r.RejectionReason) > 500 {
		errs.Add("rejection_reason", "rejection_reason must not exceed 500 characters")
	}

	return errs.Err()
}

func validateDates(errs *validator.ValidationErrors, start, end string) (time.Time, time.Time) {
	from, fromOK := validator.IsValidDate(start)
	if !fromOK {
		errs.Add("start_date", "start_date is required in YYYY-MM-DD format")
	}
	to, toOK := validator.IsValidDate(end)
	if !toOK {
		errs.Add("end_date", "end_date is required in YYYY-MM-DD format")
	}
	if fromOK && toOK && from.After(to) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	return from, to
}

func validateHalfDay(errs *validator.ValidationErrors, isHalfDay bool, period *HalfDayPeriod) {
	if !isHalfDay {
		return
	}
	if period == nil {
		errs.Add("half_day_period", "half_day_period is required for half-day leave")
		return
	}
	if *period != HalfDayMorning && *period != HalfDayAfternoon {
		errs.Add("half_day_period", "half_day_period must be one of: morning, afternoon")
	}
}

func validateEmergencyContact(errs *validator.ValidationErrors, c EmergencyContact) {
	if c.Phone != nil && *c.Phone != "" && !validator.IsValidPhoneNumber(*c.Phone) {
		errs.Add("emergency_contact.phone", "emergency contact phone is invalid")
	}
	if c.Name != nil && len(*c.Name) > 100 {
		errs.Add("emergency_contact.name", "emergency contact name must not exceed 100 characters")
	}
}

// ========================================
// QUERY DTOs
// ========================================

type LeaveFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	LeaveType  *string `json:"leave_type,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`

	pagination.Params

	SortBy    string `json:"sort_by"`    // applied_date, start_date, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Params.Normalize(&errs)
	validateListFilters(&errs, f.Status, f.LeaveType, f.StartDate, f.EndDate)

	if f.SortBy == "" {
		f.SortBy = "applied_date"
	} else if !validator.IsInSlice(f.SortBy, []string{"applied_date", "start_date", "status"}) {
		errs.Add("sort_by", "sort_by must be one of: applied_date, start_date, status")
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}

	return errs.Err()
}

type MyLeaveFilter struct {
	Status    *string `json:"status,omitempty"`
	LeaveType *string `json:"leave_type,omitempty"`
	Year      *int    `json:"year,omitempty"`

	pagination.Params
}

func (f *MyLeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Params.Normalize(&errs)
	validateListFilters(&errs, f.Status, f.LeaveType, nil, nil)
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}

	return errs.Err()
}

func validateListFilters(errs *validator.ValidationErrors, status, leaveType, start, end *string) {
	if status != nil && !Status(*status).IsValid() {
		errs.Add("status", "status must be one of: pending, approved, rejected, cancelled")
	}
	if leaveType != nil && !Type(*leaveType).IsValid() {
		errs.Add("leave_type", "leave_type must be one of: annual, sick, personal, maternity, paternity, emergency, unpaid")
	}
	if start != nil {
		if _, ok := validator.IsValidDate(*start); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if end != nil {
		if _, ok := validator.IsValidDate(*end); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
}

// ========================================
// RESPONSE DTOs
// ========================================

type LeaveResponse struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employee_id"`
	EmployeeCode     *string          `json:"employee_code,omitempty"`
	EmployeeName     *string          `json:"employee_name,omitempty"`
	DepartmentName   *string          `json:"department_name,omitempty"`
	LeaveType        Type             `json:"leave_type"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	TotalDays        float64          `json:"total_days"`
	Reason           string           `json:"reason"`
	Status           Status           `json:"status"`
	AppliedDate      string           `json:"applied_date"`
	ApprovedBy       *string          `json:"approved_by,omitempty"`
	ApproverName     *string          `json:"approver_name,omitempty"`
	ApprovedDate     *string          `json:"approved_date,omitempty"`
	RejectionReason  *string          `json:"rejection_reason,omitempty"`
	IsHalfDay        bool             `json:"is_half_day"`
	HalfDayPeriod    *HalfDayPeriod   `json:"half_day_period,omitempty"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	HandoverNotes    *string          `json:"handover_notes,omitempty"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
}

func NewLeaveResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:               l.ID,
		EmployeeID:       l.EmployeeID,
		EmployeeCode:     l.EmployeeCode,
		EmployeeName:     l.EmployeeName,
		DepartmentName:   l.DepartmentName,
		LeaveType:        l.Type,
		StartDate:        l.StartDate.Format(time.DateOnly),
		EndDate:          l.EndDate.Format(time.DateOnly),
		TotalDays:        l.TotalDays,
		Reason:           l.Reason,
		Status:           l.Status,
		AppliedDate:      l.AppliedDate.Format(time.RFC3339),
		ApprovedBy:       l.ApprovedBy,
		ApproverName:     l.ApproverName,
		RejectionReason:  l.RejectionReason,
		IsHalfDay:        l.IsHalfDay,
		HalfDayPeriod:    l.HalfDayPeriod,
		EmergencyContact: l.EmergencyContact,
		HandoverNotes:    l.HandoverNotes,
		CreatedAt:        l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        l.UpdatedAt.Format(time.RFC3339),
	}
	if l.ApprovedDate != nil {
		s := l.ApprovedDate.Format(time.RFC3339)
		resp.ApprovedDate = &s
	}
	return resp
}

type ListLeaveResponse struct {
	pagination.Info
	Leaves []LeaveResponse `json:"leaves"`
}

type BalanceResponse struct {
	EmployeeID string    `json:"employee_id"`
	Year       int       `json:"year"`
	Balances   []Balance `json:"balances"`
}

type StatsResponse struct {
	Year     int            `json:"year"`
	ByStatus map[Status]int `json:"by_status"`
	ByType   []TypeSummary  `json:"by_type"`
	Monthly  []MonthSummary `json:"monthly"`
}
