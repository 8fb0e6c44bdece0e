package leave

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
)

type LeaveServiceImpl struct {
	leave.LeaveRepository
	policy leave.Policy
	now    func() time.Time
}

func NewLeaveService(leaveRepository leave.LeaveRepository, policy leave.Policy) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRepository: leaveRepository,
		policy:          policy,
		now:             time.Now,
	}
}

func toListResponse(requests []leave.LeaveRequest, params pagination.Params, total int64) leave.ListLeaveResponse {
	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveResponse(r))
	}
	return leave.ListLeaveResponse{
		Info:   pagination.NewInfo(params, total),
		Leaves: responses,
	}
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	request, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if !actor.IsEmployee(request.EmployeeID) && !actor.Can(user.PermissionLeaveViewAll) {
		return leave.LeaveResponse{}, leave.ErrLeaveAccessDenied
	}
	return leave.NewLeaveResponse(request), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionLeaveViewAll); err != nil {
		return leave.ListLeaveResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	requests, total, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toListResponse(requests, filter.Params, total), nil
}

// GetMyLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) GetMyLeaves(ctx context.Context, filter leave.MyLeaveFilter) (leave.ListLeaveResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}
	if actor.EmployeeID == "" {
		return leave.ListLeaveResponse{}, employee.ErrEmployeeProfileRequired
	}
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	requests, total, err := s.LeaveRepository.ListByEmployee(ctx, actor.EmployeeID, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toListResponse(requests, filter.Params, total), nil
}

// GetMyBalance implements leave.LeaveService. A zero year means the current one.
func (s *LeaveServiceImpl) GetMyBalance(ctx context.Context, year int) (leave.BalanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if actor.EmployeeID == "" {
		return leave.BalanceResponse{}, employee.ErrEmployeeProfileRequired
	}
	if year == 0 {
		year = s.now().UTC().Year()
	}

	approved, err := s.LeaveRepository.ListApprovedInYear(ctx, actor.EmployeeID, year)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to load approved leave: %w", err)
	}

	return leave.BalanceResponse{
		EmployeeID: actor.EmployeeID,
		Year:       year,
		Balances:   leave.ComputeBalance(s.policy, approved, year),
	}, nil
}

// GetStats implements leave.LeaveService. Figures cover requests applied for
// in the current calendar year.
func (s *LeaveServiceImpl) GetStats(ctx context.Context) (leave.StatsResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionLeaveStats); err != nil {
		return leave.StatsResponse{}, err
	}

	year := s.now().UTC().Year()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var stats leave.StatsResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ByStatus, err = s.LeaveRepository.CountByStatus(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.ByType, err = s.LeaveRepository.SummarizeByType(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.Monthly, err = s.LeaveRepository.SummarizeByMonth(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return leave.StatsResponse{}, fmt.Errorf("failed to get leave stats: %w", err)
	}

	stats.Year = year
	return stats, nil
}
