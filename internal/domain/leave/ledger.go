package leave

import (
	"math"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
)

const day = 24 * time.Hour

// ComputeTotalDays counts the inclusive days between start and end. A half-day
// request spanning exactly one day counts as 0.5.
func ComputeTotalDays(start, end time.Time, isHalfDay bool) (float64, error) {
	if start.After(end) {
		return 0, ErrInvalidDateRange
	}
	days := math.Ceil(float64(end.Sub(start))/float64(day)) + 1
	if isHalfDay && days == 1 {
		return 0.5, nil
	}
	return days, nil
}

// Recompute refreshes TotalDays from the date range.
func (l *LeaveRequest) Recompute() error {
	total, err := ComputeTotalDays(l.StartDate, l.EndDate, l.IsHalfDay)
	if err != nil {
		return err
	}
	l.TotalDays = total
	return nil
}

// Approve moves a pending request to approved.
func (l *LeaveRequest) Approve(approverID string, at time.Time) error {
	if l.Status != StatusPending {
		return ErrLeaveAlreadyProcessed
	}
	l.Status = StatusApproved
	l.ApprovedBy = &approverID
	l.ApprovedDate = &at
	return nil
}

// Reject moves a pending request to rejected and keeps the reason.
func (l *LeaveRequest) Reject(approverID, reason string, at time.Time) error {
	if l.Status != StatusPending {
		return ErrLeaveAlreadyProcessed
	}
	l.Status = StatusRejected
	l.ApprovedBy = &approverID
	l.ApprovedDate = &at
	l.RejectionReason = &reason
	return nil
}

// Cancel withdraws a pending request.
func (l *LeaveRequest) Cancel() error {
	if l.Status != StatusPending {
		return ErrLeaveNotPending
	}
	l.Status = StatusCancelled
	return nil
}

// CanBeModifiedBy reports whether actor may cancel or edit the request: the
// owner, or a role allowed to cancel any request.
func (l LeaveRequest) CanBeModifiedBy(actor user.Actor) bool {
	return actor.IsEmployee(l.EmployeeID) || actor.Can(user.PermissionLeaveCancelAny)
}

// CanBeDeletedBy reports whether actor may delete the request: the owner, or a
// role allowed to delete any request.
func (l LeaveRequest) CanBeDeletedBy(actor user.Actor) bool {
	return actor.IsEmployee(l.EmployeeID) || actor.Can(user.PermissionLeaveDeleteAny)
}

// Balance is the yearly allocation usage of one leave type.
type Balance struct {
	Type      Type    `json:"leave_type"`
	Allocated float64 `json:"allocated"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

// ComputeBalance sums approved requests starting in year per type and
// subtracts them from the policy allocation. Remaining never goes below zero.
func ComputeBalance(policy Policy, requests []LeaveRequest, year int) []Balance {
	used := make(map[Type]float64)
	for _, r := range requests {
		if r.Status != StatusApproved || r.StartDate.Year() != year {
			continue
		}
		used[r.Type] += r.TotalDays
	}

	balances := make([]Balance, 0, len(Types()))
	for _, t := range Types() {
		allocated := policy.Allocation(t)
		balances = append(balances, Balance{
			Type:      t,
			Allocated: allocated,
			Used:      used[t],
			Remaining: max(0, allocated-used[t]),
		})
	}
	return balances
}
