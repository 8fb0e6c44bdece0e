package memory

import (
	"context"
	"strings"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
)

type leaveRepository struct {
	s *Store
}

func (s *Store) Leaves() leave.LeaveRepository {
	return leaveRepository{s: s}
}

func (r leaveRepository) join(l leave.LeaveRequest) leave.LeaveRequest {
	l.EmployeeCode, l.EmployeeName, l.DepartmentName = r.s.joinEmployee(l.EmployeeID)
	l.ApproverName = r.s.employeeName(l.ApprovedBy)
	return l
}

func (r leaveRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	req.ID = newID()
	req.CreatedAt, req.UpdatedAt = now, now
	r.s.t.leaves[req.ID] = req
	return r.join(req), nil
}

func (r leaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.t.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.join(l), nil
}

func (r leaveRepository) Update(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.leaves[req.ID]; !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	req.UpdatedAt = r.s.now()
	r.s.t.leaves[req.ID] = req
	return r.join(req), nil
}

func (r leaveRepository) Decide(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.t.leaves[req.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if stored.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveAlreadyProcessed
	}
	stored.Status = req.Status
	stored.ApprovedBy = req.ApprovedBy
	stored.ApprovedDate = req.ApprovedDate
	stored.RejectionReason = req.RejectionReason
	stored.UpdatedAt = r.s.now()
	r.s.t.leaves[req.ID] = stored
	return r.join(stored), nil
}

func (r leaveRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.leaves[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(r.s.t.leaves, id)
	return nil
}

func (r leaveRepository) collect(keep func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	requests := []leave.LeaveRequest{}
	for _, l := range r.s.t.leaves {
		if keep(l) {
			requests = append(requests, r.join(l))
		}
	}
	return requests
}

func (r leaveRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	from, hasFrom := parseDay(filter.StartDate)
	to, hasTo := parseDay(filter.EndDate)

	requests := r.collect(func(l leave.LeaveRequest) bool {
		if !matches(filter.EmployeeID, l.EmployeeID) ||
			!matches(filter.Status, string(l.Status)) ||
			!matches(filter.LeaveType, string(l.Type)) {
			return false
		}
		return !(hasFrom && l.EndDate.Before(from)) && !(hasTo && l.StartDate.After(to))
	})

	asc := strings.EqualFold(filter.SortOrder, "asc")
	sortBy(requests, func(a, b leave.LeaveRequest) bool {
		var less bool
		switch filter.SortBy {
		case "start_date":
			less = a.StartDate.Before(b.StartDate)
		case "status":
			less = a.Status < b.Status
		default:
			less = a.AppliedDate.Before(b.AppliedDate)
		}
		if asc {
			return less
		}
		return !less
	})

	return page(requests, filter.Limit, filter.Offset()), int64(len(requests)), nil
}

func (r leaveRepository) ListByEmployee(ctx context.Context, employeeID string, filter leave.MyLeaveFilter) ([]leave.LeaveRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	requests := r.collect(func(l leave.LeaveRequest) bool {
		if l.EmployeeID != employeeID ||
			!matches(filter.Status, string(l.Status)) ||
			!matches(filter.LeaveType, string(l.Type)) {
			return false
		}
		return filter.Year == nil || l.StartDate.Year() == *filter.Year
	})
	sortBy(requests, func(a, b leave.LeaveRequest) bool { return a.AppliedDate.After(b.AppliedDate) })

	return page(requests, filter.Limit, filter.Offset()), int64(len(requests)), nil
}

func (r leaveRepository) ListApprovedInYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	requests := r.collect(func(l leave.LeaveRequest) bool {
		return l.EmployeeID == employeeID && l.Status == leave.StatusApproved && l.StartDate.Year() == year
	})
	sortBy(requests, func(a, b leave.LeaveRequest) bool { return a.StartDate.Before(b.StartDate) })
	return requests, nil
}

func (r leaveRepository) ListApprovedCovering(ctx context.Context, date time.Time) ([]leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	requests := r.collect(func(l leave.LeaveRequest) bool {
		return l.Status == leave.StatusApproved && !l.StartDate.After(date) && !l.EndDate.Before(date)
	})
	sortBy(requests, func(a, b leave.LeaveRequest) bool { return a.EmployeeID < b.EmployeeID })
	return requests, nil
}

func (r leaveRepository) appliedIn(from, to time.Time) []leave.LeaveRequest {
	return r.collect(func(l leave.LeaveRequest) bool {
		return !l.AppliedDate.Before(from) && l.AppliedDate.Before(to)
	})
}

func (r leaveRepository) CountByStatus(ctx context.Context, from, to time.Time) (map[leave.Status]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := map[leave.Status]int{}
	for _, l := range r.appliedIn(from, to) {
		counts[l.Status]++
	}
	return counts, nil
}

func (r leaveRepository) SummarizeByType(ctx context.Context, from, to time.Time) ([]leave.TypeSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byType := map[leave.Type]*leave.TypeSummary{}
	for _, l := range r.appliedIn(from, to) {
		s, ok := byType[l.Type]
		if !ok {
			s = &leave.TypeSummary{Type: l.Type}
			byType[l.Type] = s
		}
		s.Count++
		s.TotalDays += l.TotalDays
	}

	summaries := []leave.TypeSummary{}
	for _, s := range byType {
		summaries = append(summaries, *s)
	}
	sortBy(summaries, func(a, b leave.TypeSummary) bool { return a.Type < b.Type })
	return summaries, nil
}

func (r leaveRepository) SummarizeByMonth(ctx context.Context, from, to time.Time) ([]leave.MonthSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byMonth := map[int]*leave.MonthSummary{}
	for _, l := range r.appliedIn(from, to) {
		m := int(l.AppliedDate.Month())
		s, ok := byMonth[m]
		if !ok {
			s = &leave.MonthSummary{Month: m}
			byMonth[m] = s
		}
		s.Count++
		s.TotalDays += l.TotalDays
	}

	summaries := []leave.MonthSummary{}
	for _, s := range byMonth {
		summaries = append(summaries, *s)
	}
	sortBy(summaries, func(a, b leave.MonthSummary) bool { return a.Month < b.Month })
	return summaries, nil
}
