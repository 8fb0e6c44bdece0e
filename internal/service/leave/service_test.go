package leave

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
	"github.com/vijaygla/HRMS-sub000/internal/repository/memory"
)

type fixture struct {
	store   *memory.Store
	svc     leave.LeaveService
	self    context.Context
	peer    context.Context
	manager context.Context
	hr      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return now }

	dept, err := store.SeedDepartment(ctx, "Operations")
	require.NoError(t, err)
	actors := make([]user.Actor, 0, 4)
	for _, role := range []user.Role{user.RoleEmployee, user.RoleEmployee, user.RoleManager, user.RoleHR} {
		_, actor, err := store.SeedEmployee(ctx, dept.ID, role, decimal.NewFromInt(3000))
		require.NoError(t, err)
		actors = append(actors, actor)
	}

	svc := NewLeaveService(store.Leaves(), leave.DefaultPolicy()).(*LeaveServiceImpl)
	svc.now = store.Now

	return &fixture{
		store:   store,
		svc:     svc,
		self:    user.WithActor(ctx, actors[0]),
		peer:    user.WithActor(ctx, actors[1]),
		manager: user.WithActor(ctx, actors[2]),
		hr:      user.WithActor(ctx, actors[3]),
	}
}

func annual(start, end string) leave.SubmitLeaveRequest {
	return leave.SubmitLeaveRequest{
		LeaveType: leave.TypeAnnual,
		StartDate: start,
		EndDate:   end,
		Reason:    "family trip",
	}
}

func balanceOf(t *testing.T, resp leave.BalanceResponse, typ leave.Type) leave.Balance {
	t.Helper()
	for _, b := range resp.Balances {
		if b.Type == typ {
			return b
		}
	}
	t.Fatalf("no balance for %s", typ)
	return leave.Balance{}
}

func TestSubmit_ComputesDaysAndStartsPending(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-07"))
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, 5.0, resp.TotalDays)
	assert.Equal(t, "2025-02-20T10:00:00Z", resp.AppliedDate)

	half := leave.HalfDayAfternoon
	resp, err = f.svc.Submit(f.self, leave.SubmitLeaveRequest{
		LeaveType:     leave.TypeSick,
		StartDate:     "2025-03-10",
		EndDate:       "2025-03-10",
		Reason:        "dentist",
		IsHalfDay:     true,
		HalfDayPeriod: &half,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, resp.TotalDays)

	_, err = f.svc.Submit(f.self, annual("2025-03-07", "2025-03-03"))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestBalance_DecreasesWithApprovedLeave(t *testing.T) {
	f := newFixture(t)

	balance, err := f.svc.GetMyBalance(f.self, 2025)
	require.NoError(t, err)
	assert.Equal(t, 25.0, balanceOf(t, balance, leave.TypeAnnual).Remaining)

	first, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-07"))
	require.NoError(t, err)
	_, err = f.svc.Approve(f.manager, first.ID)
	require.NoError(t, err)

	balance, err = f.svc.GetMyBalance(f.self, 2025)
	require.NoError(t, err)
	assert.Equal(t, 20.0, balanceOf(t, balance, leave.TypeAnnual).Remaining)

	second, err := f.svc.Submit(f.self, annual("2025-04-14", "2025-04-16"))
	require.NoError(t, err)

	balance, err = f.svc.GetMyBalance(f.self, 2025)
	require.NoError(t, err)
	assert.Equal(t, 20.0, balanceOf(t, balance, leave.TypeAnnual).Remaining, "pending requests do not count")

	_, err = f.svc.Approve(f.hr, second.ID)
	require.NoError(t, err)

	balance, err = f.svc.GetMyBalance(f.self, 0)
	require.NoError(t, err)
	assert.Equal(t, 2025, balance.Year)
	annualBalance := balanceOf(t, balance, leave.TypeAnnual)
	assert.Equal(t, 8.0, annualBalance.Used)
	assert.Equal(t, 17.0, annualBalance.Remaining)

	other, err := f.svc.GetMyBalance(f.self, 2026)
	require.NoError(t, err)
	assert.Equal(t, 25.0, balanceOf(t, other, leave.TypeAnnual).Remaining)
}

func TestApprove_OnlyFromPending(t *testing.T) {
	f := newFixture(t)
	req, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-04"))
	require.NoError(t, err)

	_, err = f.svc.Approve(f.peer, req.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	approved, err := f.svc.Approve(f.manager, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedDate)

	_, err = f.svc.Approve(f.hr, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.svc.Reject(f.hr, leave.RejectLeaveRequest{ID: req.ID, RejectionReason: "too late"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestDecide_StaleCopyDoesNotOverwrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-04"))
	require.NoError(t, err)

	stale, err := f.store.Leaves().GetByID(ctx, req.ID)
	require.NoError(t, err)

	_, err = f.svc.Reject(f.hr, leave.RejectLeaveRequest{ID: req.ID, RejectionReason: "understaffed"})
	require.NoError(t, err)

	// Approval prepared from the copy read before the rejection landed
	require.NoError(t, stale.Approve("approver", time.Now()))
	_, err = f.store.Leaves().Decide(ctx, stale)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)

	stored, err := f.store.Leaves().GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, stored.Status)
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "understaffed", *stored.RejectionReason)

	_, err = f.store.Leaves().Decide(ctx, leave.LeaveRequest{ID: "missing", Status: leave.StatusApproved})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestDecide_ConcurrentApproveAndRejectHaveOneWinner(t *testing.T) {
	f := newFixture(t)

	for day := 3; day <= 22; day++ {
		date := fmt.Sprintf("2025-03-%02d", day)
		req, err := f.svc.Submit(f.self, annual(date, date))
		require.NoError(t, err)

		var wg sync.WaitGroup
		start := make(chan struct{})
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, errs[0] = f.svc.Approve(f.manager, req.ID)
		}()
		go func() {
			defer wg.Done()
			<-start
			_, errs[1] = f.svc.Reject(f.hr, leave.RejectLeaveRequest{ID: req.ID, RejectionReason: "overlap"})
		}()
		close(start)
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
				continue
			}
			assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
		}
		assert.Equal(t, 1, winners, "request on %s", date)
	}
}

func TestReject_StoresReason(t *testing.T) {
	f := newFixture(t)
	req, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-04"))
	require.NoError(t, err)

	_, err = f.svc.Reject(f.manager, leave.RejectLeaveRequest{ID: req.ID})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	rejected, err := f.svc.Reject(f.manager, leave.RejectLeaveRequest{ID: req.ID, RejectionReason: "  peak season  "})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "peak season", *rejected.RejectionReason)

	_, err = f.svc.Approve(f.manager, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestCancel_OwnerOrApproverWhilePending(t *testing.T) {
	f := newFixture(t)
	req, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-04"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(f.peer, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveAccessDenied)

	cancelled, err := f.svc.Cancel(f.self, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)

	_, err = f.svc.Cancel(f.manager, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)

	other, err := f.svc.Submit(f.peer, annual("2025-05-05", "2025-05-05"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(f.manager, other.ID)
	assert.NoError(t, err)
}

func TestUpdate_RecomputesDays(t *testing.T) {
	f := newFixture(t)
	req, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-04"))
	require.NoError(t, err)

	end := "2025-03-06"
	updated, err := f.svc.Update(f.self, leave.UpdateLeaveRequest{ID: req.ID, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.TotalDays)

	before := "2025-03-01"
	_, err = f.svc.Update(f.self, leave.UpdateLeaveRequest{ID: req.ID, EndDate: &before})
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)

	halfDay := true
	_, err = f.svc.Update(f.manager, leave.UpdateLeaveRequest{ID: req.ID, IsHalfDay: &halfDay})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.Approve(f.hr, req.ID)
	require.NoError(t, err)
	_, err = f.svc.Update(f.self, leave.UpdateLeaveRequest{ID: req.ID, EndDate: &end})
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)
}

func TestDelete_OwnerOrHR(t *testing.T) {
	f := newFixture(t)
	req, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-04"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(f.manager, req.ID), leave.ErrLeaveAccessDenied)
	require.NoError(t, f.svc.Delete(f.hr, req.ID))
	_, err = f.svc.Get(f.self, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	own, err := f.svc.Submit(f.self, annual("2025-03-10", "2025-03-10"))
	require.NoError(t, err)
	assert.NoError(t, f.svc.Delete(f.self, own.ID))
}

func TestGet_OwnerOrViewer(t *testing.T) {
	f := newFixture(t)
	req, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-04"))
	require.NoError(t, err)

	_, err = f.svc.Get(f.self, req.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(f.manager, req.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(f.peer, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveAccessDenied)
}

func TestListAndStats(t *testing.T) {
	f := newFixture(t)
	a, err := f.svc.Submit(f.self, annual("2025-03-03", "2025-03-07"))
	require.NoError(t, err)
	_, err = f.svc.Submit(f.peer, leave.SubmitLeaveRequest{LeaveType: leave.TypeSick, StartDate: "2025-03-10", EndDate: "2025-03-11", Reason: "flu"})
	require.NoError(t, err)
	_, err = f.svc.Approve(f.hr, a.ID)
	require.NoError(t, err)

	_, err = f.svc.List(f.self, leave.LeaveFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	pending := string(leave.StatusPending)
	list, err := f.svc.List(f.manager, leave.LeaveFilter{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, leave.TypeSick, list.Leaves[0].LeaveType)

	mine, err := f.svc.GetMyLeaves(f.self, leave.MyLeaveFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalCount)

	_, err = f.svc.GetStats(f.manager)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	stats, err := f.svc.GetStats(f.hr)
	require.NoError(t, err)
	assert.Equal(t, 2025, stats.Year)
	assert.Equal(t, 1, stats.ByStatus[leave.StatusApproved])
	assert.Equal(t, 1, stats.ByStatus[leave.StatusPending])
	require.Len(t, stats.ByType, 2)
	require.Len(t, stats.Monthly, 1)
	assert.Equal(t, 2, stats.Monthly[0].Month)
	assert.Equal(t, 7.0, stats.Monthly[0].TotalDays)
}
