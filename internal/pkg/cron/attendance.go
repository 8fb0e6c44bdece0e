package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaveRepo      leave.LeaveRepository
	location       *time.Location
	absentAfter    int
	now            func() time.Time
}

// NewAttendanceJobs builds the attendance jobs. Days are taken in loc, and
// absences for the previous weekday are only written from absentAfterHour on.
func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
	loc *time.Location,
	absentAfterHour int,
) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaveRepo:      leaveRepo,
		location:       loc,
		absentAfter:    absentAfterHour,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("sync_leave_attendance", interval, j.SyncLeaveAttendance)
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// insert creates rec and reports false when the employee already has a record
// for that day.
func (j *AttendanceJobs) insert(ctx context.Context, rec attendance.Attendance) (bool, error) {
	if _, err := j.attendanceRepo.Create(ctx, rec); err != nil {
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SyncLeaveAttendance writes an on-leave record for every full-day approved
// leave covering today.
func (j *AttendanceJobs) SyncLeaveAttendance(ctx context.Context) error {
	today := attendance.Day(j.now(), j.location)
	if isWeekend(today) {
		return nil
	}

	leaves, err := j.leaveRepo.ListApprovedCovering(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list approved leaves: %w", err)
	}

	created := 0
	for _, l := range leaves {
		if l.IsHalfDay {
			continue
		}
		notes := fmt.Sprintf("On approved %s leave", l.Type)
		ok, err := j.insert(ctx, attendance.Attendance{
			EmployeeID:    l.EmployeeID,
			Date:          today,
			Status:        attendance.StatusOnLeave,
			IsManualEntry: true,
			ApprovedBy:    l.ApprovedBy,
			Notes:         &notes,
		})
		if err != nil {
			slog.Error("cron: failed to record leave attendance", "leave_id", l.ID, "employee_id", l.EmployeeID, "error", err)
			continue
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		slog.Info("cron: synced leave attendance", "date", today.Format(time.DateOnly), "count", created)
	}
	return nil
}

// previousWeekday returns the last Monday-to-Friday date before day.
func previousWeekday(day time.Time) time.Time {
	d := day.AddDate(0, 0, -1)
	for isWeekend(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// MarkAbsentEmployees gives every active employee without a record for the
// previous weekday an absent record.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.now().In(j.location)
	if now.Hour() < j.absentAfter {
		return nil
	}
	target := previousWeekday(attendance.Day(now, j.location))

	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	notes := "No attendance recorded"
	marked := 0
	for _, emp := range employees {
		if emp.Job.JoinDate.After(target) {
			continue
		}
		ok, err := j.insert(ctx, attendance.Attendance{
			EmployeeID: emp.ID,
			Date:       target,
			Status:     attendance.StatusAbsent,
			Notes:      &notes,
		})
		if err != nil {
			slog.Error("cron: failed to mark employee absent", "employee_id", emp.ID, "error", err)
			continue
		}
		if ok {
			marked++
		}
	}

	if marked > 0 {
		slog.Info("cron: marked absent employees", "date", target.Format(time.DateOnly), "count", marked)
	}
	return nil
}
