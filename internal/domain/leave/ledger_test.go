package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeTotalDays(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		isHalfDay bool
		want      float64
	}{
		{"single day", date(2024, 3, 4), date(2024, 3, 4), false, 1},
		{"inclusive range", date(2024, 3, 4), date(2024, 3, 6), false, 3},
		{"half day on one date", date(2024, 3, 4), date(2024, 3, 4), true, 0.5},
		{"half day flag ignored for ranges", date(2024, 3, 4), date(2024, 3, 5), true, 2},
		{"partial day rounds up", date(2024, 3, 4), date(2024, 3, 5).Add(2 * time.Hour), false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotalDays(tt.start, tt.end, tt.isHalfDay)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTotalDays_StartAfterEnd(t *testing.T) {
	_, err := ComputeTotalDays(date(2024, 3, 6), date(2024, 3, 4), false)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLifecycle_OnlyFromPending(t *testing.T) {
	now := time.Now()

	l := LeaveRequest{Status: StatusPending}
	require.NoError(t, l.Approve("approver", now))
	assert.Equal(t, StatusApproved, l.Status)
	require.NotNil(t, l.ApprovedBy)
	assert.Equal(t, "approver", *l.ApprovedBy)

	assert.ErrorIs(t, l.Approve("approver", now), ErrLeaveAlreadyProcessed)
	assert.ErrorIs(t, l.Reject("approver", "no", now), ErrLeaveAlreadyProcessed)
	assert.ErrorIs(t, l.Cancel(), ErrLeaveNotPending)

	r := LeaveRequest{Status: StatusPending}
	require.NoError(t, r.Reject("approver", "coverage", now))
	assert.Equal(t, StatusRejected, r.Status)
	assert.Equal(t, "coverage", *r.RejectionReason)

	c := LeaveRequest{Status: StatusPending}
	require.NoError(t, c.Cancel())
	assert.Equal(t, StatusCancelled, c.Status)
	assert.ErrorIs(t, c.Approve("approver", now), apperror.ErrConflict)
}

func TestComputeBalance(t *testing.T) {
	requests := []LeaveRequest{
		{Type: TypeAnnual, Status: StatusApproved, StartDate: date(2024, 2, 1), TotalDays: 3},
		{Type: TypeAnnual, Status: StatusPending, StartDate: date(2024, 4, 1), TotalDays: 5},
		{Type: TypeAnnual, Status: StatusApproved, StartDate: date(2023, 12, 30), TotalDays: 4},
		{Type: TypeEmergency, Status: StatusApproved, StartDate: date(2024, 5, 1), TotalDays: 5},
	}

	balances := ComputeBalance(DefaultPolicy(), requests, 2024)
	require.Len(t, balances, len(Types()))

	byType := make(map[Type]Balance)
	for _, b := range balances {
		byType[b.Type] = b
	}

	assert.Equal(t, Balance{Type: TypeAnnual, Allocated: 25, Used: 3, Remaining: 22}, byType[TypeAnnual])
	assert.Equal(t, Balance{Type: TypeEmergency, Allocated: 3, Used: 5, Remaining: 0}, byType[TypeEmergency])
	assert.Equal(t, Balance{Type: TypeSick, Allocated: 10, Used: 0, Remaining: 10}, byType[TypeSick])
}

func TestCanBeModifiedBy(t *testing.T) {
	l := LeaveRequest{EmployeeID: "emp-1"}

	assert.True(t, l.CanBeModifiedBy(user.Actor{EmployeeID: "emp-1", Role: user.RoleEmployee}))
	assert.False(t, l.CanBeModifiedBy(user.Actor{EmployeeID: "emp-2", Role: user.RoleEmployee}))
	assert.True(t, l.CanBeModifiedBy(user.Actor{EmployeeID: "emp-2", Role: user.RoleManager}))

	assert.False(t, l.CanBeDeletedBy(user.Actor{EmployeeID: "emp-2", Role: user.RoleManager}))
	assert.True(t, l.CanBeDeletedBy(user.Actor{EmployeeID: "emp-2", Role: user.RoleHR}))
}

func TestPolicyWithOverrides(t *testing.T) {
	base := DefaultPolicy()
	p := base.WithOverrides(map[Type]float64{TypeAnnual: 30})

	assert.Equal(t, 30.0, p.Allocation(TypeAnnual))
	assert.Equal(t, 25.0, base.Allocation(TypeAnnual))
	assert.Equal(t, 10.0, p.Allocation(TypeSick))
}
