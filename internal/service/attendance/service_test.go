package attendance

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
	"github.com/vijaygla/HRMS-sub000/internal/repository/memory"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(c.now.Year(), c.now.Month(), c.now.Day(), hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	store *memory.Store
	svc   *AttendanceServiceImpl
	clock *clock
	emp   employee.Employee
	self  context.Context
	hr    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	dept, err := store.SeedDepartment(ctx, "Engineering")
	require.NoError(t, err)
	emp, actor, err := store.SeedEmployee(ctx, dept.ID, user.RoleEmployee, decimal.NewFromInt(3000))
	require.NoError(t, err)
	_, hrActor, err := store.SeedEmployee(ctx, dept.ID, user.RoleHR, decimal.NewFromInt(5000))
	require.NoError(t, err)

	c := &clock{now: time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)}
	svc := NewAttendanceService(store.Attendance(), store.Employees(), time.UTC).(*AttendanceServiceImpl)
	svc.now = c.Now

	return &fixture{
		store: store,
		svc:   svc,
		clock: c,
		emp:   emp,
		self:  user.WithActor(ctx, actor),
		hr:    user.WithActor(ctx, hrActor),
	}
}

func ptr[T any](v T) *T { return &v }

func TestWorkingDay_DerivesHoursFromLegsAndBreaks(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, "2025-03-12", rec.Date)
	require.NotNil(t, rec.CheckIn.Location)
	assert.Equal(t, attendance.LocationOffice, *rec.CheckIn.Location)

	f.clock.Set(12, 0)
	_, err = f.svc.StartBreak(f.self, attendance.BreakRequest{Reason: ptr("lunch")})
	require.NoError(t, err)
	_, err = f.svc.StartBreak(f.self, attendance.BreakRequest{})
	assert.ErrorIs(t, err, attendance.ErrBreakInProgress)

	f.clock.Set(12, 30)
	_, err = f.svc.EndBreak(f.self)
	require.NoError(t, err)
	_, err = f.svc.EndBreak(f.self)
	assert.ErrorIs(t, err, attendance.ErrNoBreakInProgress)

	f.clock.Set(18, 30)
	rec, err = f.svc.CheckOut(f.self, attendance.CheckOutRequest{Location: attendance.LocationRemote})
	require.NoError(t, err)
	assert.InDelta(t, 9.0, rec.WorkingHours, 0.001)
	assert.InDelta(t, 1.0, rec.OvertimeHours, 0.001)
	assert.Len(t, rec.Breaks, 1)

	_, err = f.svc.CheckOut(f.self, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	_, err = f.svc.StartBreak(f.self, attendance.BreakRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckIn_Twice(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(f.self, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCheckIn_ConcurrentRequestsHaveOneWinner(t *testing.T) {
	f := newFixture(t)

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, apperror.ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestCheckIn_FillsPreexistingRecord(t *testing.T) {
	tests := []struct {
		name   string
		status attendance.Status
		manual bool
	}{
		{"absent record", attendance.StatusAbsent, false},
		{"on-leave record from leave sync", attendance.StatusOnLeave, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.store.Attendance().Create(context.Background(), attendance.Attendance{
				EmployeeID:    f.emp.ID,
				Date:          time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
				Status:        tt.status,
				IsManualEntry: tt.manual,
			})
			require.NoError(t, err)

			rec, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.status, rec.Status)
			assert.Equal(t, tt.manual, rec.IsManualEntry)
			assert.NotNil(t, rec.CheckIn.Time)

			_, err = f.svc.CheckIn(f.self, attendance.CheckInRequest{})
			assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
		})
	}
}

func TestCheckOut_WithoutRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckOut(f.self, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoAttendanceToday)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCheckIn_RequiresEmployeeProfile(t *testing.T) {
	f := newFixture(t)
	ctx := user.WithActor(context.Background(), user.Actor{UserID: "admin", Role: user.RoleAdmin})

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, employee.ErrEmployeeProfileRequired)
}

func TestCreateManualEntry(t *testing.T) {
	f := newFixture(t)

	req := attendance.ManualEntryRequest{
		EmployeeID:    f.emp.ID,
		Date:          "2025-03-10",
		CheckInTime:   ptr("2025-03-10T08:00:00Z"),
		CheckOutTime:  ptr("2025-03-10T17:00:00Z"),
		WorkingHours:  ptr(2.0),
		OvertimeHours: ptr(5.0),
	}

	_, err := f.svc.CreateManualEntry(f.self, req)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	rec, err := f.svc.CreateManualEntry(f.hr, req)
	require.NoError(t, err)
	assert.True(t, rec.IsManualEntry)
	assert.InDelta(t, 9.0, rec.WorkingHours, 0.001, "hours are derived when both legs are present")
	assert.InDelta(t, 1.0, rec.OvertimeHours, 0.001)
	require.NotNil(t, rec.ApprovedBy)

	_, err = f.svc.CreateManualEntry(f.hr, req)
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	sick, err := f.svc.CreateManualEntry(f.hr, attendance.ManualEntryRequest{
		EmployeeID:   f.emp.ID,
		Date:         "2025-03-11",
		Status:       attendance.StatusHalfDay,
		WorkingHours: ptr(4.0),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, sick.Status)
	assert.InDelta(t, 4.0, sick.WorkingHours, 0.001)
}

func TestCreateManualEntry_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateManualEntry(f.hr, attendance.ManualEntryRequest{
		EmployeeID:   f.emp.ID,
		Date:         "10-03-2025",
		CheckInTime:  ptr("2025-03-10T17:00:00Z"),
		CheckOutTime: ptr("2025-03-10T08:00:00Z"),
	})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "date must be in YYYY-MM-DD format")
	assert.Contains(t, err.Error(), "check_out_time must not be before check_in_time")
}

func TestUpdateAttendance_RecomputesHours(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{})
	require.NoError(t, err)
	f.clock.Set(17, 0)
	rec, err := f.svc.CheckOut(f.self, attendance.CheckOutRequest{})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, rec.WorkingHours, 0.001)

	updated, err := f.svc.UpdateAttendance(f.hr, attendance.UpdateAttendanceRequest{
		ID:           rec.ID,
		CheckOutTime: ptr("2025-03-12T20:00:00Z"),
		WorkingHours: ptr(1.0),
		Status:       ptr(attendance.StatusLate),
	})
	require.NoError(t, err)
	assert.InDelta(t, 11.0, updated.WorkingHours, 0.001)
	assert.InDelta(t, 3.0, updated.OvertimeHours, 0.001)
	assert.Equal(t, attendance.StatusLate, updated.Status)

	_, err = f.svc.UpdateAttendance(f.hr, attendance.UpdateAttendanceRequest{
		ID:           rec.ID,
		CheckOutTime: ptr("2025-03-12T06:00:00Z"),
	})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
}

func TestGetAttendance_OwnerOrViewer(t *testing.T) {
	f := newFixture(t)
	rec, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = f.svc.GetAttendance(f.self, rec.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetAttendance(f.hr, rec.ID)
	assert.NoError(t, err)

	_, other, err := f.store.SeedEmployee(context.Background(), f.emp.Job.DepartmentID, user.RoleEmployee, decimal.NewFromInt(1000))
	require.NoError(t, err)
	_, err = f.svc.GetAttendance(user.WithActor(context.Background(), other), rec.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestDeleteAttendance(t *testing.T) {
	f := newFixture(t)
	rec, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteAttendance(f.self, rec.ID), user.ErrInsufficientPermissions)
	require.NoError(t, f.svc.DeleteAttendance(f.hr, rec.ID))
	assert.ErrorIs(t, f.svc.DeleteAttendance(f.hr, rec.ID), attendance.ErrAttendanceNotFound)
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{})
	require.NoError(t, err)
	f.clock.Set(19, 0)
	_, err = f.svc.CheckOut(f.self, attendance.CheckOutRequest{})
	require.NoError(t, err)

	_, err = f.svc.CreateManualEntry(f.hr, attendance.ManualEntryRequest{
		EmployeeID:   f.emp.ID,
		Date:         "2025-03-03",
		CheckInTime:  ptr("2025-03-03T09:00:00Z"),
		CheckOutTime: ptr("2025-03-03T17:00:00Z"),
	})
	require.NoError(t, err)
	_, err = f.svc.CreateManualEntry(f.hr, attendance.ManualEntryRequest{
		EmployeeID:   f.emp.ID,
		Date:         "2025-02-28",
		CheckInTime:  ptr("2025-02-28T09:00:00Z"),
		CheckOutTime: ptr("2025-02-28T17:00:00Z"),
	})
	require.NoError(t, err)

	_, err = f.svc.GetStats(f.self)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	stats, err := f.svc.GetStats(f.hr)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", stats.Today.Date)
	assert.Equal(t, 1, stats.Today.Total)
	assert.Equal(t, 1, stats.Today.ByStatus[attendance.StatusPresent])
	assert.Equal(t, 2, stats.Month.TotalRecords)
	assert.InDelta(t, 18.0, stats.Month.TotalWorkingHours, 0.001)
	assert.InDelta(t, 2.0, stats.Month.TotalOvertimeHours, 0.001)
	assert.InDelta(t, 9.0, stats.Month.AverageWorkingHours, 0.001)
}

func TestGetReport(t *testing.T) {
	f := newFixture(t)
	for _, day := range []string{"2025-03-03", "2025-03-04"} {
		_, err := f.svc.CreateManualEntry(f.hr, attendance.ManualEntryRequest{
			EmployeeID:   f.emp.ID,
			Date:         day,
			CheckInTime:  ptr(day + "T09:00:00Z"),
			CheckOutTime: ptr(day + "T18:00:00Z"),
		})
		require.NoError(t, err)
	}

	report, err := f.svc.GetReport(f.hr, attendance.ReportFilter{StartDate: "2025-03-01", EndDate: "2025-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", report.StartDate)
	require.Len(t, report.Rows, 2, "employees without records still get a row")
	assert.Equal(t, f.emp.EmployeeCode, report.Rows[0].EmployeeCode)
	assert.Equal(t, 0, report.Rows[1].TotalDays)
	assert.Equal(t, 2, report.Rows[0].PresentDays)
	assert.InDelta(t, 18.0, report.Rows[0].TotalWorkingHours, 0.001)

	_, err = f.svc.GetReport(f.hr, attendance.ReportFilter{StartDate: "2025-03-31", EndDate: "2025-03-01"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	var buf bytes.Buffer
	name, err := f.svc.WriteReportXLSX(f.hr, attendance.ReportFilter{StartDate: "2025-03-01", EndDate: "2025-03-31"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "attendance-report-2025-03-01-to-2025-03-31.xlsx", name)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")), "xlsx is a zip container")

	_, err = f.svc.WriteReportXLSX(f.self, attendance.ReportFilter{StartDate: "2025-03-01", EndDate: "2025-03-31"}, &buf)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}
