package leave

import "context"

type LeaveService interface {
	// Submit creates a pending request for the authenticated employee
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveResponse, error)
	Get(ctx context.Context, id string) (LeaveResponse, error)
	// Update edits a pending request (owner or admin, hr, manager)
	Update(ctx context.Context, req UpdateLeaveRequest) (LeaveResponse, error)
	// Cancel withdraws a pending request (owner or admin, hr, manager)
	Cancel(ctx context.Context, id string) (LeaveResponse, error)
	// Delete removes a pending request (owner or admin, hr)
	Delete(ctx context.Context, id string) error

	Approve(ctx context.Context, id string) (LeaveResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveResponse, error)

	List(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	GetMyLeaves(ctx context.Context, filter MyLeaveFilter) (ListLeaveResponse, error)
	GetMyBalance(ctx context.Context, year int) (BalanceResponse, error)
	GetStats(ctx context.Context) (StatsResponse, error)
}
