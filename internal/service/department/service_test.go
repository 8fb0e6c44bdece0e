package department

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/department"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
	"github.com/vijaygla/HRMS-sub000/internal/repository/memory"
)

func asRole(role user.Role) context.Context {
	return user.WithActor(context.Background(), user.Actor{UserID: "u-" + string(role), Role: role})
}

func newService(store *memory.Store) department.DepartmentService {
	return NewDepartmentService(store.Departments(), store.Employees())
}

func TestCreate_RequiresManagePermission(t *testing.T) {
	svc := newService(memory.NewStore())

	_, err := svc.Create(asRole(user.RoleManager), department.CreateDepartmentRequest{Name: "Engineering", Code: "ENG"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	created, err := svc.Create(asRole(user.RoleHR), department.CreateDepartmentRequest{Name: "Engineering", Code: "eng"})
	require.NoError(t, err)
	assert.Equal(t, "ENG", created.Code)
	assert.True(t, created.IsActive)
}

func TestCreate_DuplicateNameOrCodeConflicts(t *testing.T) {
	svc := newService(memory.NewStore())
	ctx := asRole(user.RoleAdmin)

	_, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering", Code: "ENG"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering", Code: "EN2"})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Create(ctx, department.CreateDepartmentRequest{Name: "Platform", Code: "ENG"})
	assert.ErrorIs(t, err, department.ErrDepartmentCodeExists)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc := newService(memory.NewStore())
	negative := decimal.NewFromInt(-1)

	_, err := svc.Create(asRole(user.RoleAdmin), department.CreateDepartmentRequest{Code: "TOO-LONG-CODE", Budget: &negative})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "code must not exceed 10 characters")
	assert.Contains(t, err.Error(), "budget cannot be negative")
}

func TestDelete_BlockedByActiveEmployees(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)
	ctx := asRole(user.RoleAdmin)

	created, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering", Code: "ENG"})
	require.NoError(t, err)

	emp, err := store.Employees().Create(context.Background(), employee.Employee{
		EmployeeCode: "EMP0001",
		UserID:       "user-1",
		Personal:     employee.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"},
		Job:          employee.JobInfo{DepartmentID: created.ID, EmploymentType: employee.EmploymentTypeFullTime},
		Salary:       employee.Salary{BaseSalary: decimal.NewFromInt(3000)},
		Status:       employee.StatusActive,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(asRole(user.RoleHR), created.ID), user.ErrInsufficientPermissions)

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, department.ErrDepartmentHasActiveEmployees)

	require.NoError(t, store.Employees().Terminate(context.Background(), emp.ID, time.Now()))
	require.NoError(t, svc.Delete(ctx, created.ID))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetStats(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)
	ctx := asRole(user.RoleAdmin)

	created, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering", Code: "ENG"})
	require.NoError(t, err)

	for i, salary := range []int64{3000, 5000} {
		_, err := store.Employees().Create(context.Background(), employee.Employee{
			EmployeeCode: []string{"EMP0001", "EMP0002"}[i],
			UserID:       []string{"user-1", "user-2"}[i],
			Job:          employee.JobInfo{DepartmentID: created.ID, EmploymentType: employee.EmploymentTypeFullTime},
			Salary:       employee.Salary{BaseSalary: decimal.NewFromInt(salary)},
			Status:       employee.StatusActive,
		})
		require.NoError(t, err)
	}

	stats, err := svc.GetStats(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEmployees)
	assert.Equal(t, 2, stats.ByEmploymentType["full-time"])
	assert.True(t, decimal.NewFromInt(4000).Equal(stats.AverageSalary))
	assert.True(t, decimal.NewFromInt(8000).Equal(stats.TotalSalary))

	_, err = svc.GetStats(ctx, "missing")
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}
