package attendance

import (
	"strings"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT DTOs
// ========================================

type CheckInRequest struct {
	Location  Location `json:"location"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	validateLeg(&errs, &r.Location, r.Latitude, r.Longitude)
	return errs.Err()
}

// Leg builds the check-in leg stamped at the given time.
func (r CheckInRequest) Leg(at time.Time) Leg {
	loc := r.Location
	return Leg{Time: &at, Location: &loc, Latitude: r.Latitude, Longitude: r.Longitude, Notes: r.Notes}
}

type CheckOutRequest struct {
	Location  Location `json:"location"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors
	validateLeg(&errs, &r.Location, r.Latitude, r.Longitude)
	return errs.Err()
}

// Leg builds the check-out leg stamped at the given time.
func (r CheckOutRequest) Leg(at time.Time) Leg {
	loc := r.Location
	return Leg{Time: &at, Location: &loc, Latitude: r.Latitude, Longitude: r.Longitude, Notes: r.Notes}
}

func validateLeg(errs *validator.ValidationErrors, location *Location, lat, lng *float64) {
	if *location == "" {
		*location = LocationOffice
	}
	if !location.IsValid() {
		errs.Add("location", "location must be one of: office, remote, field")
	}
	if (lat == nil) != (lng == nil) {
		errs.Add("coordinates", "latitude and longitude must be provided together")
	}
	if lat != nil && (*lat < -90 || *lat > 90) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
}

type BreakRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ========================================
// MANUAL ENTRY / UPDATE DTOs
// ========================================

type BreakInput struct {
	Start  string  `json:"start"`
	End    *string `json:"end,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

// ManualEntryRequest creates a record directly. Hours given here are only kept
// when the record has no complete check-in/check-out pair; otherwise they are
// derived.
type ManualEntryRequest struct {
	EmployeeID    string       `json:"employee_id"`
	Date          string       `json:"date"`
	Status        Status       `json:"status"`
	CheckInTime   *string      `json:"check_in_time,omitempty"`
	CheckOutTime  *string      `json:"check_out_time,omitempty"`
	Location      *Location    `json:"location,omitempty"`
	Breaks        []BreakInput `json:"breaks,omitempty"`
	WorkingHours  *float64     `json:"working_hours,omitempty"`
	OvertimeHours *float64     `json:"overtime_hours,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if r.Status == "" {
		r.Status = StatusPresent
	}
	if !r.Status.IsValid() {
		errs.Add("status", "status must be one of: present, absent, late, half-day, on-leave")
	}
	validateTimes(&errs, r.CheckInTime, r.CheckOutTime, r.Breaks)
	if r.Location != nil && !r.Location.IsValid() {
		errs.Add("location", "location must be one of: office, remote, field")
	}
	validateHours(&errs, r.WorkingHours, r.OvertimeHours)

	return errs.Err()
}

// ToAttendance maps a validated request onto a new manual record.
func (r *ManualEntryRequest) ToAttendance() Attendance {
	date, _ := validator.IsValidDate(r.Date)
	a := Attendance{
		EmployeeID:    r.EmployeeID,
		Date:          date,
		Status:        r.Status,
		IsManualEntry: true,
		Notes:         r.Notes,
		Breaks:        parseBreaks(r.Breaks),
	}
	if t := parseTime(r.CheckInTime); t != nil {
		a.CheckIn = Leg{Time: t, Location: r.Location}
	}
	if t := parseTime(r.CheckOutTime); t != nil {
		a.CheckOut = Leg{Time: t, Location: r.Location}
	}
	if r.WorkingHours != nil {
		a.WorkingHours = *r.WorkingHours
	}
	if r.OvertimeHours != nil {
		a.OvertimeHours = *r.OvertimeHours
	}
	return a
}

type UpdateAttendanceRequest struct {
	ID            string        `json:"-"`
	Status        *Status       `json:"status,omitempty"`
	CheckInTime   *string       `json:"check_in_time,omitempty"`
	CheckOutTime  *string       `json:"check_out_time,omitempty"`
	Breaks        *[]BreakInput `json:"breaks,omitempty"`
	WorkingHours  *float64      `json:"working_hours,omitempty"`
	OvertimeHours *float64      `json:"overtime_hours,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Status != nil && !r.Status.IsValid() {
		errs.Add("status", "status must be one of: present, absent, late, half-day, on-leave")
	}
	var breaks []BreakInput
	if r.Breaks != nil {
		breaks = *r.Breaks
	}
	validateTimes(&errs, r.CheckInTime, r.CheckOutTime, breaks)
	validateHours(&errs, r.WorkingHours, r.OvertimeHours)

	return errs.Err()
}

// Apply copies the set fields onto a. Hours are applied as given; the caller
// recomputes them when both legs are present.
func (r *UpdateAttendanceRequest) Apply(a *Attendance) {
	if r.Status != nil {
		a.Status = *r.Status
	}
	if r.CheckInTime != nil {
		a.CheckIn.Time = parseTime(r.CheckInTime)
	}
	if r.CheckOutTime != nil {
		a.CheckOut.Time = parseTime(r.CheckOutTime)
	}
	if r.Breaks != nil {
		a.Breaks = parseBreaks(*r.Breaks)
	}
	if r.WorkingHours != nil {
		a.WorkingHours = *r.WorkingHours
	}
	if r.OvertimeHours != nil {
		a.OvertimeHours = *r.OvertimeHours
	}
	if r.Notes != nil {
		a.Notes = r.Notes
	}
}

func validateTimes(errs *validator.ValidationErrors, checkIn, checkOut *string, breaks []BreakInput) {
	var in, out time.Time
	var inOK, outOK bool
	if checkIn != nil && *checkIn != "" {
		if in, inOK = validator.IsValidDateTime(*checkIn); !inOK {
			errs.Add("check_in_time", "check_in_time must be an RFC3339 timestamp")
		}
	}
	if checkOut != nil && *checkOut != "" {
		if out, outOK = validator.IsValidDateTime(*checkOut); !outOK {
			errs.Add("check_out_time", "check_out_time must be an RFC3339 timestamp")
		}
	}
	if inOK && outOK && out.Before(in) {
		errs.Add("check_out_time", "check_out_time must not be before check_in_time")
	}
	for _, b := range breaks {
		start, ok := validator.IsValidDateTime(b.Start)
		if !ok {
			errs.Add("breaks", "break start must be an RFC3339 timestamp")
			continue
		}
		if b.End != nil {
			end, ok := validator.IsValidDateTime(*b.End)
			if !ok {
				errs.Add("breaks", "break end must be an RFC3339 timestamp")
			} else if end.Before(start) {
				errs.Add("breaks", "break end must not be before its start")
			}
		}
	}
}

func validateHours(errs *validator.ValidationErrors, working, overtime *float64) {
	if working != nil && (*working < 0 || *working > 24) {
		errs.Add("working_hours", "working_hours must be between 0 and 24")
	}
	if overtime != nil && (*overtime < 0 || *overtime > 24) {
		errs.Add("overtime_hours", "overtime_hours must be between 0 and 24")
	}
}

func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, ok := validator.IsValidDateTime(*s)
	if !ok {
		return nil
	}
	t = t.UTC()
	return &t
}

func parseBreaks(in []BreakInput) []Break {
	breaks := make([]Break, 0, len(in))
	for _, b := range in {
		start := b.Start
		breaks = append(breaks, Break{Start: parseTime(&start), End: parseTime(b.End), Reason: b.Reason})
	}
	return breaks
}

// ========================================
// QUERY DTOs
// ========================================

type AttendanceFilter struct {
	EmployeeID   *string `json:"employee_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Status       *string `json:"status,omitempty"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	pagination.Params

	SortBy    string `json:"sort_by"`    // date, status, working_hours
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Params.Normalize(&errs)
	validateStatusFilter(&errs, f.Status)
	validateRange(&errs, f.StartDate, f.EndDate)

	if f.SortBy == "" {
		f.SortBy = "date"
	} else if !validator.IsInSlice(f.SortBy, []string{"date", "status", "working_hours"}) {
		errs.Add("sort_by", "sort_by must be one of: date, status, working_hours")
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}

	return errs.Err()
}

type MyAttendanceFilter struct {
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	pagination.Params
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Params.Normalize(&errs)
	validateStatusFilter(&errs, f.Status)
	validateRange(&errs, f.StartDate, f.EndDate)

	return errs.Err()
}

type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatXLSX ReportFormat = "xlsx"
)

type ReportFilter struct {
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	DepartmentID *string      `json:"department_id,omitempty"`
	Format       ReportFormat `json:"format"`

	// Parsed by Validate
	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	from, fromOK := validator.IsValidDate(f.StartDate)
	if !fromOK {
		errs.Add("start_date", "start_date is required in YYYY-MM-DD format")
	}
	to, toOK := validator.IsValidDate(f.EndDate)
	if !toOK {
		errs.Add("end_date", "end_date is required in YYYY-MM-DD format")
	}
	if fromOK && toOK {
		if to.Before(from) {
			errs.Add("end_date", "end_date must not be before start_date")
		}
		f.From, f.To = from, to
	}
	if f.Format == "" {
		f.Format = ReportFormatJSON
	}
	if f.Format != ReportFormatJSON && f.Format != ReportFormatXLSX {
		errs.Add("format", "format must be one of: json, xlsx")
	}

	return errs.Err()
}

func validateStatusFilter(errs *validator.ValidationErrors, status *string) {
	if status != nil && !Status(*status).IsValid() {
		errs.Add("status", "status must be one of: present, absent, late, half-day, on-leave")
	}
}

func validateRange(errs *validator.ValidationErrors, start, end *string) {
	var from, to time.Time
	var fromOK, toOK bool
	if start != nil && *start != "" {
		if from, fromOK = validator.IsValidDate(*start); !fromOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if end != nil && *end != "" {
		if to, toOK = validator.IsValidDate(*end); !toOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if fromOK && toOK && to.Before(from) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
}

// ========================================
// RESPONSE DTOs
// ========================================

type LegResponse struct {
	Time      *string   `json:"time,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

type AttendanceResponse struct {
	ID             string      `json:"id"`
	EmployeeID     string      `json:"employee_id"`
	EmployeeCode   *string     `json:"employee_code,omitempty"`
	EmployeeName   *string     `json:"employee_name,omitempty"`
	DepartmentName *string     `json:"department_name,omitempty"`
	Date           string      `json:"date"`
	CheckIn        LegResponse `json:"check_in"`
	CheckOut       LegResponse `json:"check_out"`
	Breaks         []Break     `json:"breaks"`
	WorkingHours   float64     `json:"working_hours"`
	OvertimeHours  float64     `json:"overtime_hours"`
	Status         Status      `json:"status"`
	IsManualEntry  bool        `json:"is_manual_entry"`
	ApprovedBy     *string     `json:"approved_by,omitempty"`
	Notes          *string     `json:"notes,omitempty"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
}

type ListAttendanceResponse struct {
	pagination.Info
	Attendances []AttendanceResponse `json:"attendances"`
}

type TodayStats struct {
	Date     string         `json:"date"`
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}

type MonthStats struct {
	Month               int     `json:"month"`
	Year                int     `json:"year"`
	TotalRecords        int     `json:"total_records"`
	TotalWorkingHours   float64 `json:"total_working_hours"`
	TotalOvertimeHours  float64 `json:"total_overtime_hours"`
	AverageWorkingHours float64 `json:"average_working_hours"`
}

type StatsResponse struct {
	Today TodayStats `json:"today"`
	Month MonthStats `json:"month"`
}

type ReportResponse struct {
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Rows      []ReportRow `json:"rows"`
}
