package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/export"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employeeRepository employee.EmployeeRepository
	location           *time.Location
	now                func() time.Time
}

// NewAttendanceService builds the service. Calendar days are taken in loc;
// a nil loc means UTC.
func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository, loc *time.Location) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		employeeRepository:   employeeRepo,
		location:             loc,
		now:                  time.Now,
	}
}

// timePtrToString formats t as RFC3339, or nil.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func legToResponse(l attendance.Leg) attendance.LegResponse {
	return attendance.LegResponse{
		Time:      timePtrToString(l.Time),
		Location:  l.Location,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Notes:     l.Notes,
	}
}

func toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	breaks := a.Breaks
	if breaks == nil {
		breaks = []attendance.Break{}
	}
	return attendance.AttendanceResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		EmployeeCode:   a.EmployeeCode,
		EmployeeName:   a.EmployeeName,
		DepartmentName: a.DepartmentName,
		Date:           a.Date.Format("2006-01-02"),
		CheckIn:        legToResponse(a.CheckIn),
		CheckOut:       legToResponse(a.CheckOut),
		Breaks:         breaks,
		WorkingHours:   round2(a.WorkingHours),
		OvertimeHours:  round2(a.OvertimeHours),
		Status:         a.Status,
		IsManualEntry:  a.IsManualEntry,
		ApprovedBy:     a.ApprovedBy,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.Format(time.RFC3339),
	}
}

func toListResponse(records []attendance.Attendance, params pagination.Params, total int64) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toResponse(r))
	}
	return attendance.ListAttendanceResponse{
		Info:        pagination.NewInfo(params, total),
		Attendances: responses,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// selfEmployee returns the actor's employee id, failing for accounts with no
// employee record.
func selfEmployee(ctx context.Context) (user.Actor, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	if actor.EmployeeID == "" {
		return user.Actor{}, employee.ErrEmployeeProfileRequired
	}
	return actor, nil
}

// today loads the actor's record for the current calendar day.
func (s *AttendanceServiceImpl) today(ctx context.Context, employeeID string) (attendance.Attendance, time.Time, error) {
	now := s.now().UTC()
	rec, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, attendance.Day(now, s.location))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, now, attendance.ErrNoAttendanceToday
		}
		return attendance.Attendance{}, now, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	rec.Breaks = slices.Clone(rec.Breaks)
	return rec, now, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	actor, err := selfEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, now, err := s.today(ctx, actor.EmployeeID)
	switch {
	case errors.Is(err, attendance.ErrNoAttendanceToday):
		rec = attendance.Attendance{
			EmployeeID: actor.EmployeeID,
			Date:       attendance.Day(now, s.location),
			CheckIn:    req.Leg(now),
			Status:     attendance.StatusPresent,
		}
		rec.RecomputeHours()
		created, err := s.AttendanceRepository.Create(ctx, rec)
		if err != nil {
			// Lost a race with a concurrent check-in for the same day
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
			}
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
		}
		slog.Info("employee checked in", "employee_id", actor.EmployeeID, "attendance_id", created.ID)
		return toResponse(created), nil
	case err != nil:
		return attendance.AttendanceResponse{}, err
	}

	if rec.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	// The existing status stays, so a day already marked on-leave keeps counting as leave
	rec.CheckIn = req.Leg(now)
	rec.RecomputeHours()

	updated, err := s.AttendanceRepository.Update(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return toResponse(updated), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	actor, err := selfEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, now, err := s.today(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !rec.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if rec.HasCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	// A break still open at check-out ends with the day
	if i := rec.OpenBreak(); i >= 0 {
		rec.Breaks[i].End = &now
	}
	rec.CheckOut = req.Leg(now)
	rec.RecomputeHours()

	updated, err := s.AttendanceRepository.Update(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	slog.Info("employee checked out", "employee_id", actor.EmployeeID, "working_hours", round2(updated.WorkingHours))
	return toResponse(updated), nil
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.BreakRequest) (attendance.AttendanceResponse, error) {
	actor, err := selfEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, now, err := s.today(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !rec.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if rec.HasCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if rec.OpenBreak() >= 0 {
		return attendance.AttendanceResponse{}, attendance.ErrBreakInProgress
	}

	rec.Breaks = append(rec.Breaks, attendance.Break{Start: &now, Reason: req.Reason})

	updated, err := s.AttendanceRepository.Update(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to start break: %w", err)
	}
	return toResponse(updated), nil
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context) (attendance.AttendanceResponse, error) {
	actor, err := selfEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, now, err := s.today(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	i := rec.OpenBreak()
	if i < 0 {
		return attendance.AttendanceResponse{}, attendance.ErrNoBreakInProgress
	}
	rec.Breaks[i].End = &now
	rec.RecomputeHours()

	updated, err := s.AttendanceRepository.Update(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to end break: %w", err)
	}
	return toResponse(updated), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := selfEmployee(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.ListByEmployee(ctx, actor.EmployeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return toListResponse(records, filter.Params, total), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceViewAll); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return toListResponse(records, filter.Params, total), nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !actor.IsEmployee(rec.EmployeeID) && !actor.Can(user.PermissionAttendanceViewAll) {
		return attendance.AttendanceResponse{}, user.ErrInsufficientPermissions
	}
	return toResponse(rec), nil
}

// CreateManualEntry implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateManualEntry(ctx context.Context, req attendance.ManualEntryRequest) (attendance.AttendanceResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionAttendanceManage)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if _, err := s.employeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec := req.ToAttendance()
	if _, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, rec.EmployeeID, rec.Date); err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceExists
	} else if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}

	if rec.HasCheckedIn() && rec.HasCheckedOut() {
		rec.RecomputeHours()
	}
	if actor.EmployeeID != "" {
		rec.ApprovedBy = &actor.EmployeeID
	}

	created, err := s.AttendanceRepository.Create(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	slog.Info("manual attendance entry created", "attendance_id", created.ID, "employee_id", created.EmployeeID, "by", actor.UserID)
	return toResponse(created), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceManage); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	req.Apply(&rec)
	if rec.HasCheckedIn() && rec.HasCheckedOut() {
		if rec.CheckOut.Time.Before(*rec.CheckIn.Time) {
			return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeCheckIn
		}
		rec.RecomputeHours()
	}

	updated, err := s.AttendanceRepository.Update(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return toResponse(updated), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	actor, err := user.RequirePermission(ctx, user.PermissionAttendanceManage)
	if err != nil {
		return err
	}
	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("attendance record deleted", "attendance_id", id, "by", actor.UserID)
	return nil
}

// GetStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStats(ctx context.Context) (attendance.StatsResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceViewAll); err != nil {
		return attendance.StatsResponse{}, err
	}

	today := attendance.Day(s.now(), s.location)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var (
		byStatus map[attendance.Status]int
		totals   attendance.MonthTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.AttendanceRepository.CountByStatusOnDate(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.AttendanceRepository.SumHoursInRange(gctx, monthStart, monthEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to get attendance stats: %w", err)
	}

	todayTotal := 0
	for _, n := range byStatus {
		todayTotal += n
	}
	month := attendance.MonthStats{
		Month:              int(today.Month()),
		Year:               today.Year(),
		TotalRecords:       totals.Records,
		TotalWorkingHours:  round2(totals.TotalWorkingHours),
		TotalOvertimeHours: round2(totals.TotalOvertimeHours),
	}
	if totals.Records > 0 {
		month.AverageWorkingHours = round2(totals.TotalWorkingHours / float64(totals.Records))
	}

	return attendance.StatsResponse{
		Today: attendance.TodayStats{
			Date:     today.Format("2006-01-02"),
			Total:    todayTotal,
			ByStatus: byStatus,
		},
		Month: month,
	}, nil
}

// GetReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetReport(ctx context.Context, filter attendance.ReportFilter) (attendance.ReportResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceManage); err != nil {
		return attendance.ReportResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ReportResponse{}, err
	}

	rows, err := s.AttendanceRepository.Report(ctx, filter)
	if err != nil {
		return attendance.ReportResponse{}, fmt.Errorf("failed to build attendance report: %w", err)
	}
	if rows == nil {
		rows = []attendance.ReportRow{}
	}
	for i := range rows {
		rows[i].TotalWorkingHours = round2(rows[i].TotalWorkingHours)
		rows[i].TotalOvertimeHours = round2(rows[i].TotalOvertimeHours)
	}

	return attendance.ReportResponse{
		StartDate: filter.From.Format("2006-01-02"),
		EndDate:   filter.To.Format("2006-01-02"),
		Rows:      rows,
	}, nil
}

// WriteReportXLSX implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) WriteReportXLSX(ctx context.Context, filter attendance.ReportFilter, w io.Writer) (string, error) {
	report, err := s.GetReport(ctx, filter)
	if err != nil {
		return "", err
	}
	if err := export.WriteAttendanceReportXLSX(w, report); err != nil {
		return "", fmt.Errorf("failed to write attendance report: %w", err)
	}
	return export.AttendanceReportFilename(report), nil
}
