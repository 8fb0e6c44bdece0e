package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/department"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
	"github.com/vijaygla/HRMS-sub000/internal/domain/payroll"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/repository/postgresql"
)

func createTestUser(t *testing.T, ctx context.Context, repo user.UserRepository, email string) user.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	u, err := repo.Create(ctx, user.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleEmployee,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func createTestEmployee(t *testing.T, ctx context.Context, setup *TestDatabaseSetup, email string) employee.Employee {
	users := postgresql.NewUserRepository(setup.DB)
	depts := postgresql.NewDepartmentRepository(setup.DB)
	employees := postgresql.NewEmployeeRepository(setup.DB)

	u := createTestUser(t, ctx, users, email)

	dept, err := depts.Create(ctx, department.Department{
		Name:            "Engineering " + email,
		Code:            "ENG" + u.ID[len(u.ID)-6:],
		IsActive:        true,
		EstablishedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	code, err := employees.NextEmployeeCode(ctx)
	require.NoError(t, err)

	emp, err := employees.Create(ctx, employee.Employee{
		EmployeeCode: code,
		UserID:       u.ID,
		Personal:     employee.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"},
		Job: employee.JobInfo{
			DepartmentID:   dept.ID,
			Position:       "Engineer",
			EmploymentType: employee.EmploymentTypeFullTime,
			JoinDate:       time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			WorkLocation:   employee.WorkLocationOffice,
		},
		Salary: employee.Salary{
			BaseSalary:   decimal.NewFromInt(3000),
			Currency:     employee.DefaultCurrency,
			PayFrequency: employee.PayFrequencyMonthly,
		},
		Status: employee.StatusActive,
	})
	require.NoError(t, err)
	return emp
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	created := createTestUser(t, ctx, repo, "ada@example.com")
	assert.NotEmpty(t, created.ID)

	found, err := repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Nil(t, found.LastLoginAt)

	require.NoError(t, repo.TouchLastLogin(ctx, created.ID))
	found, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.LastLoginAt)

	_, err = repo.Create(ctx, user.User{Email: "ada@example.com", PasswordHash: "x", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrEmailExists)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)
	tx := postgresql.NewTxManager(setup.DB)

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		createTestUser(t, ctx, repo, "rollback@example.com")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByEmail(ctx, "rollback@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAttendanceRepository_OnePerDay(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createTestEmployee(t, ctx, setup, "checkin@example.com")
	repo := postgresql.NewAttendanceRepository(setup.DB)

	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	record := attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       day,
		CheckIn:    attendance.Leg{Time: &now},
		Status:     attendance.StatusPresent,
	}

	_, err := repo.Create(ctx, record)
	require.NoError(t, err)

	_, err = repo.Create(ctx, record)
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)
}

func TestPayrollRepository_OnePerPeriod(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createTestEmployee(t, ctx, setup, "payroll@example.com")
	repo := postgresql.NewPayrollRepository(setup.DB)

	record := payroll.DefaultPolicy().Calculate(payroll.CalculationInput{
		EmployeeID:      emp.ID,
		BaseSalary:      decimal.NewFromInt(3000),
		HealthInsurance: true,
		Period:          payroll.PayPeriodFor(3, 2024),
		ProcessedBy:     emp.UserID,
		ProcessedAt:     time.Now(),
	})

	created, err := repo.Create(ctx, record)
	require.NoError(t, err)
	assert.True(t, record.Totals.NetPay.Equal(created.Totals.NetPay))
	assert.Equal(t, emp.EmployeeCode, *created.EmployeeCode)

	exists, err := repo.ExistsForPeriod(ctx, emp.ID, 3, 2024)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Create(ctx, record)
	assert.ErrorIs(t, err, payroll.ErrPayrollExists)
}

func TestLeaveRequestRepository_DecideOnlyWhilePending(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createTestEmployee(t, ctx, setup, "leave@example.com")
	approver := createTestEmployee(t, ctx, setup, "approver@example.com")
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID:  emp.ID,
		Type:        leave.TypeAnnual,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 1),
		TotalDays:   2,
		Reason:      "family trip",
		Status:      leave.StatusPending,
		AppliedDate: time.Now(),
	})
	require.NoError(t, err)

	approval, rejection := created, created
	require.NoError(t, approval.Approve(approver.ID, time.Now()))
	require.NoError(t, rejection.Reject(approver.ID, "understaffed", time.Now()))

	decided, err := repo.Decide(ctx, rejection)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, decided.Status)

	_, err = repo.Decide(ctx, approval)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, stored.Status)
}
