package memory

import (
	"context"
	"strings"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
)

type attendanceRepository struct {
	s *Store
}

func (s *Store) Attendance() attendance.AttendanceRepository {
	return attendanceRepository{s: s}
}

func (r attendanceRepository) join(a attendance.Attendance) attendance.Attendance {
	a.EmployeeCode, a.EmployeeName, a.DepartmentName = r.s.joinEmployee(a.EmployeeID)
	if e, ok := r.s.t.employees[a.EmployeeID]; ok {
		a.DepartmentID = strPtr(e.Job.DepartmentID)
	}
	return a
}

func sameDay(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}

func parseDay(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, *s)
	return t, err == nil
}

func (r attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.t.attendance {
		if other.EmployeeID == a.EmployeeID && sameDay(other.Date, a.Date) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
	}
	now := r.s.now()
	a.ID = newID()
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.t.attendance[a.ID] = a
	return r.join(a), nil
}

func (r attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.t.attendance[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.join(a), nil
}

func (r attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.t.attendance {
		if a.EmployeeID == employeeID && sameDay(a.Date, date) {
			return r.join(a), nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r attendanceRepository) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.attendance[a.ID]; !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.UpdatedAt = r.s.now()
	r.s.t.attendance[a.ID] = a
	return r.join(a), nil
}

func (r attendanceRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.attendance[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.s.t.attendance, id)
	return nil
}

func (r attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	from, hasFrom := parseDay(filter.StartDate)
	to, hasTo := parseDay(filter.EndDate)

	records := []attendance.Attendance{}
	for _, a := range r.s.t.attendance {
		a = r.join(a)
		department := ""
		if a.DepartmentID != nil {
			department = *a.DepartmentID
		}
		if !matches(filter.EmployeeID, a.EmployeeID) ||
			!matches(filter.DepartmentID, department) ||
			!matches(filter.Status, string(a.Status)) {
			continue
		}
		if (hasFrom && a.Date.Before(from)) || (hasTo && a.Date.After(to)) {
			continue
		}
		records = append(records, a)
	}

	asc := strings.EqualFold(filter.SortOrder, "asc")
	sortBy(records, func(a, b attendance.Attendance) bool {
		var less bool
		switch filter.SortBy {
		case "status":
			less = a.Status < b.Status
		case "working_hours":
			less = a.WorkingHours < b.WorkingHours
		default:
			less = a.Date.Before(b.Date)
		}
		if asc {
			return less
		}
		return !less
	})

	return page(records, filter.Limit, filter.Offset()), int64(len(records)), nil
}

func (r attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	return r.List(ctx, attendance.AttendanceFilter{
		EmployeeID: &employeeID,
		Status:     filter.Status,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Params:     filter.Params,
		SortBy:     "date",
		SortOrder:  "desc",
	})
}

func (r attendanceRepository) ListByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records := []attendance.Attendance{}
	for _, a := range r.s.t.attendance {
		if a.EmployeeID == employeeID && !a.Date.Before(from) && !a.Date.After(to) {
			records = append(records, r.join(a))
		}
	}
	sortBy(records, func(a, b attendance.Attendance) bool { return a.Date.Before(b.Date) })
	return records, nil
}

func (r attendanceRepository) CountByStatusOnDate(ctx context.Context, date time.Time) (map[attendance.Status]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := map[attendance.Status]int{}
	for _, a := range r.s.t.attendance {
		if sameDay(a.Date, date) {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func (r attendanceRepository) SumHoursInRange(ctx context.Context, from, to time.Time) (attendance.MonthTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var totals attendance.MonthTotals
	for _, a := range r.s.t.attendance {
		if !a.Date.Before(from) && !a.Date.After(to) {
			totals.Records++
			totals.TotalWorkingHours += a.WorkingHours
			totals.TotalOvertimeHours += a.OvertimeHours
		}
	}
	return totals, nil
}

func (r attendanceRepository) Report(ctx context.Context, filter attendance.ReportFilter) ([]attendance.ReportRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rows := []attendance.ReportRow{}
	for _, e := range r.s.t.employees {
		if e.Status == employee.StatusTerminated || !matches(filter.DepartmentID, e.Job.DepartmentID) {
			continue
		}
		row := attendance.ReportRow{
			EmployeeID:   e.ID,
			EmployeeCode: e.EmployeeCode,
			EmployeeName: e.FullName(),
		}
		if d, ok := r.s.t.departments[e.Job.DepartmentID]; ok {
			row.DepartmentName = strPtr(d.Name)
		}
		for _, a := range r.s.t.attendance {
			if a.EmployeeID != e.ID || a.Date.Before(filter.From) || a.Date.After(filter.To) {
				continue
			}
			row.TotalDays++
			switch a.Status {
			case attendance.StatusPresent:
				row.PresentDays++
			case attendance.StatusLate:
				row.LateDays++
			case attendance.StatusAbsent:
				row.AbsentDays++
			case attendance.StatusHalfDay:
				row.HalfDays++
			case attendance.StatusOnLeave:
				row.LeaveDays++
			}
			row.TotalWorkingHours += a.WorkingHours
			row.TotalOvertimeHours += a.OvertimeHours
		}
		rows = append(rows, row)
	}
	sortBy(rows, func(a, b attendance.ReportRow) bool { return a.EmployeeCode < b.EmployeeCode })
	return rows, nil
}
