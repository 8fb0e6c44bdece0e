package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
)

func TestCanActOnRole(t *testing.T) {
	cases := []struct {
		actor, target Role
		want          bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleEmployee, true},
		{RoleHR, RoleManager, true},
		{RoleHR, RoleHR, true},
		{RoleHR, RoleAdmin, false},
		{RoleManager, RoleEmployee, true},
		{RoleManager, RoleHR, false},
		{RoleEmployee, RoleEmployee, true},
		{RoleEmployee, RoleManager, false},
		{Role("intern"), RoleEmployee, false},
		{RoleAdmin, Role("superuser"), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanActOnRole(c.actor, c.target), "%s acting on %s", c.actor, c.target)
	}
}

func TestHasPermission_AllowListsIgnoreHierarchy(t *testing.T) {
	// update: admin, hr, manager
	assert.True(t, HasPermission(RoleAdmin, PermissionEmployeeUpdate))
	assert.True(t, HasPermission(RoleHR, PermissionEmployeeUpdate))
	assert.True(t, HasPermission(RoleManager, PermissionEmployeeUpdate))
	assert.False(t, HasPermission(RoleEmployee, PermissionEmployeeUpdate))

	// delete: admin, hr only, even though a manager outranks an employee
	assert.True(t, HasPermission(RoleAdmin, PermissionEmployeeDelete))
	assert.True(t, HasPermission(RoleHR, PermissionEmployeeDelete))
	assert.False(t, HasPermission(RoleManager, PermissionEmployeeDelete))
	assert.True(t, CanActOnRole(RoleManager, RoleEmployee))

	assert.True(t, HasPermission(RoleAdmin, PermissionPayrollDelete))
	assert.False(t, HasPermission(RoleHR, PermissionPayrollDelete))
	assert.False(t, HasPermission(Role("ghost"), PermissionEmployeeView))
}

func TestActorFromContext(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))

	ctx := WithActor(context.Background(), Actor{UserID: "u1", EmployeeID: "e1", Role: RoleManager})
	actor, err := ActorFromContext(ctx)
	assert.NoError(t, err)
	assert.True(t, actor.IsEmployee("e1"))
	assert.False(t, actor.IsEmployee("e2"))
	assert.True(t, actor.Can(PermissionLeaveApprove))
	assert.False(t, actor.Can(PermissionLeaveStats))
}
