package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/repository/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store *memory.Store
	jobs  *AttendanceJobs
	staff []employee.Employee
	clock time.Time
}

func newFixture(t *testing.T, staff int) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.NewStore()}
	f.store.Now = func() time.Time { return f.clock }
	f.clock = time.Date(2025, 3, 12, 7, 0, 0, 0, time.UTC)

	dept, err := f.store.SeedDepartment(ctx, "Warehouse")
	require.NoError(t, err)
	for i := 0; i < staff; i++ {
		emp, _, err := f.store.SeedEmployee(ctx, dept.ID, user.RoleEmployee, decimal.NewFromInt(2500))
		require.NoError(t, err)
		f.staff = append(f.staff, emp)
	}

	f.jobs = NewAttendanceJobs(f.store.Attendance(), f.store.Employees(), f.store.Leaves(), time.UTC, 6)
	f.jobs.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) record(t *testing.T, employeeID string, day time.Time) (attendance.Attendance, bool) {
	t.Helper()
	rec, err := f.store.Attendance().GetByEmployeeAndDate(context.Background(), employeeID, day)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, false
	}
	require.NoError(t, err)
	return rec, true
}

func TestPreviousWeekday(t *testing.T) {
	assert.Equal(t, date(2025, 3, 11), previousWeekday(date(2025, 3, 12)))
	assert.Equal(t, date(2025, 3, 14), previousWeekday(date(2025, 3, 17)), "monday looks back to friday")
	assert.Equal(t, date(2025, 3, 14), previousWeekday(date(2025, 3, 16)))
}

func TestMarkAbsentEmployees(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.store.Attendance().Create(ctx, attendance.Attendance{
		EmployeeID: f.staff[0].ID,
		Date:       date(2025, 3, 11),
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))

	rec, ok := f.record(t, f.staff[0].ID, date(2025, 3, 11))
	require.True(t, ok)
	assert.Equal(t, attendance.StatusPresent, rec.Status, "existing records are kept")

	for _, emp := range f.staff[1:] {
		rec, ok := f.record(t, emp.ID, date(2025, 3, 11))
		require.True(t, ok)
		assert.Equal(t, attendance.StatusAbsent, rec.Status)
		assert.Zero(t, rec.WorkingHours)
	}

	// A second run in the same hour changes nothing
	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))
}

func TestMarkAbsentEmployees_WaitsForConfiguredHour(t *testing.T) {
	f := newFixture(t, 1)
	f.clock = time.Date(2025, 3, 12, 5, 59, 0, 0, time.UTC)

	require.NoError(t, f.jobs.MarkAbsentEmployees(context.Background()))
	_, ok := f.record(t, f.staff[0].ID, date(2025, 3, 11))
	assert.False(t, ok)
}

func TestSyncLeaveAttendance(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	approver := f.staff[2].ID
	half := leave.HalfDayMorning
	requests := []leave.LeaveRequest{
		{EmployeeID: f.staff[0].ID, Type: leave.TypeAnnual, StartDate: date(2025, 3, 10), EndDate: date(2025, 3, 14), TotalDays: 5, Status: leave.StatusApproved, ApprovedBy: &approver},
		{EmployeeID: f.staff[1].ID, Type: leave.TypeSick, StartDate: date(2025, 3, 12), EndDate: date(2025, 3, 12), TotalDays: 0.5, Status: leave.StatusApproved, IsHalfDay: true, HalfDayPeriod: &half},
		{EmployeeID: f.staff[2].ID, Type: leave.TypePersonal, StartDate: date(2025, 3, 12), EndDate: date(2025, 3, 12), TotalDays: 1, Status: leave.StatusPending},
	}
	for _, r := range requests {
		r.Reason = "scheduled"
		r.AppliedDate = date(2025, 3, 1)
		_, err := f.store.Leaves().Create(ctx, r)
		require.NoError(t, err)
	}

	require.NoError(t, f.jobs.SyncLeaveAttendance(ctx))

	rec, ok := f.record(t, f.staff[0].ID, date(2025, 3, 12))
	require.True(t, ok)
	assert.Equal(t, attendance.StatusOnLeave, rec.Status)
	assert.True(t, rec.IsManualEntry)
	require.NotNil(t, rec.ApprovedBy)
	assert.Equal(t, approver, *rec.ApprovedBy)

	_, ok = f.record(t, f.staff[1].ID, date(2025, 3, 12))
	assert.False(t, ok, "half-day leave is not synced")
	_, ok = f.record(t, f.staff[2].ID, date(2025, 3, 12))
	assert.False(t, ok, "pending leave is not synced")

	require.NoError(t, f.jobs.SyncLeaveAttendance(ctx))

	f.clock = time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, f.jobs.SyncLeaveAttendance(ctx))
	_, ok = f.record(t, f.staff[0].ID, date(2025, 3, 15))
	assert.False(t, ok, "weekends are skipped")
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	var calls atomic.Int32
	boom := errors.New("boom")

	s.AddJob("ok", time.Hour, func(context.Context) error { calls.Add(1); return nil })
	s.AddJob("fails", time.Hour, func(context.Context) error { calls.Add(1); return boom })

	assert.Equal(t, []string{"ok", "fails"}, s.Jobs())
	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
