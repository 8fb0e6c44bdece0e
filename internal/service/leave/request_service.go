package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
)

var errHalfDayPeriodRequired = apperror.Validation("half_day_period is required for half-day leave")

// loadForChange fetches a pending request the actor may modify.
func (s *LeaveServiceImpl) loadForChange(ctx context.Context, id string, allowed func(leave.LeaveRequest, user.Actor) bool) (leave.LeaveRequest, user.Actor, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequest{}, user.Actor{}, err
	}
	request, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, user.Actor{}, err
	}
	if !allowed(request, actor) {
		return leave.LeaveRequest{}, user.Actor{}, leave.ErrLeaveAccessDenied
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequest{}, user.Actor{}, leave.ErrLeaveNotPending
	}
	return request, actor, nil
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if actor.EmployeeID == "" {
		return leave.LeaveResponse{}, employee.ErrEmployeeProfileRequired
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	request := req.ToLeaveRequest(actor.EmployeeID, s.now().UTC())
	if err := request.Recompute(); err != nil {
		return leave.LeaveResponse{}, err
	}

	created, err := s.LeaveRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("leave request submitted", "leave_id", created.ID, "employee_id", created.EmployeeID, "type", created.Type, "days", created.TotalDays)
	return leave.NewLeaveResponse(created), nil
}

// Update implements leave.LeaveService.
func (s *LeaveServiceImpl) Update(ctx context.Context, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	request, _, err := s.loadForChange(ctx, req.ID, leave.LeaveRequest.CanBeModifiedBy)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	req.Apply(&request)
	if request.IsHalfDay && request.HalfDayPeriod == nil {
		return leave.LeaveResponse{}, errHalfDayPeriodRequired
	}
	if err := request.Recompute(); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.LeaveRepository.Update(ctx, request)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return leave.NewLeaveResponse(updated), nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.LeaveResponse, error) {
	request, actor, err := s.loadForChange(ctx, id, leave.LeaveRequest.CanBeModifiedBy)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := request.Cancel(); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.LeaveRepository.Update(ctx, request)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to cancel leave request: %w", err)
	}
	slog.Info("leave request cancelled", "leave_id", id, "by", actor.UserID)
	return leave.NewLeaveResponse(updated), nil
}

// Delete implements leave.LeaveService.
func (s *LeaveServiceImpl) Delete(ctx context.Context, id string) error {
	_, actor, err := s.loadForChange(ctx, id, leave.LeaveRequest.CanBeDeletedBy)
	if err != nil {
		return err
	}
	if err := s.LeaveRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("leave request deleted", "leave_id", id, "by", actor.UserID)
	return nil
}

// decide loads a request for approval or rejection by an approver role.
func (s *LeaveServiceImpl) decide(ctx context.Context, id string) (leave.LeaveRequest, user.Actor, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionLeaveApprove)
	if err != nil {
		return leave.LeaveRequest{}, user.Actor{}, err
	}
	if actor.EmployeeID == "" {
		return leave.LeaveRequest{}, user.Actor{}, employee.ErrEmployeeProfileRequired
	}
	request, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, user.Actor{}, err
	}
	return request, actor, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveResponse, error) {
	request, actor, err := s.decide(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := request.Approve(actor.EmployeeID, s.now().UTC()); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.LeaveRepository.Decide(ctx, request)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to approve leave request: %w", err)
	}
	slog.Info("leave request approved", "leave_id", id, "approved_by", actor.EmployeeID)
	return leave.NewLeaveResponse(updated), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	request, actor, err := s.decide(ctx, req.ID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := request.Reject(actor.EmployeeID, req.RejectionReason, s.now().UTC()); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.LeaveRepository.Decide(ctx, request)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to reject leave request: %w", err)
	}
	slog.Info("leave request rejected", "leave_id", req.ID, "rejected_by", actor.EmployeeID)
	return leave.NewLeaveResponse(updated), nil
}
