package auth

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vijaygla/HRMS-sub000/internal/domain/auth"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/jwt"
	"github.com/vijaygla/HRMS-sub000/internal/repository/memory"
)

const (
	testSecret   = "test-secret-key-for-jwt"
	testPassword = "password123"
)

var testSession = auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}

type fixture struct {
	store *memory.Store
	jwt   *jwt.JWTService
	svc   auth.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	jwtService := jwt.NewJWTService(testSecret, time.Hour, 24*time.Hour, false)
	return &fixture{
		store: store,
		jwt:   jwtService,
		svc:   NewAuthService(store.TxManager(), store.Users(), store.Employees(), jwtService, store.RefreshTokens()),
	}
}

func (f *fixture) createUser(t *testing.T, email string, role user.Role, active bool) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := f.store.Users().Create(context.Background(), user.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) createEmployee(t *testing.T, email string) (user.User, employee.Employee) {
	t.Helper()
	ctx := context.Background()
	dept, err := f.store.SeedDepartment(ctx, "Support")
	require.NoError(t, err)

	u := f.createUser(t, email, user.RoleEmployee, true)
	emp, err := f.store.Employees().Create(ctx, employee.Employee{
		EmployeeCode: "EMP0042",
		UserID:       u.ID,
		Personal:     employee.PersonalInfo{FirstName: "Jane", LastName: "Doe"},
		Job: employee.JobInfo{
			DepartmentID:   dept.ID,
			Position:       "Support Engineer",
			EmploymentType: employee.EmploymentTypeFullTime,
			JoinDate:       time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			WorkLocation:   employee.WorkLocationRemote,
		},
		Salary: employee.Salary{BaseSalary: decimal.NewFromInt(3000), Currency: employee.DefaultCurrency, PayFrequency: employee.PayFrequencyMonthly},
		Status: employee.StatusActive,
	})
	require.NoError(t, err)
	return u, emp
}

func TestLogin_IssuesTokensWithEmployeeClaims(t *testing.T) {
	f := newFixture(t)
	u, emp := f.createEmployee(t, "jane@example.com")

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "  Jane@Example.com ", Password: testPassword}, testSession)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)

	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	claims := token.PrivateClaims()
	assert.Equal(t, u.ID, claims["user_id"])
	assert.Equal(t, emp.ID, claims["employee_id"])
	assert.Equal(t, "employee", claims["role"])

	stored, err := f.store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "admin@example.com", user.RoleAdmin, true)
	f.createUser(t, "gone@example.com", user.RoleHR, false)

	tests := []struct {
		name    string
		req     auth.LoginRequest
		wantErr error
	}{
		{"unknown email", auth.LoginRequest{Email: "nobody@example.com", Password: testPassword}, auth.ErrInvalidCredentials},
		{"wrong password", auth.LoginRequest{Email: "admin@example.com", Password: "nope"}, auth.ErrInvalidCredentials},
		{"inactive account", auth.LoginRequest{Email: "gone@example.com", Password: testPassword}, auth.ErrAccountInactive},
		{"malformed email", auth.LoginRequest{Email: "admin", Password: testPassword}, apperror.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tt.req, testSession)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "admin@example.com", user.RoleAdmin, true)
	ctx := context.Background()

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: testPassword}, testSession)
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))
	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))
	require.NoError(t, f.svc.Logout(ctx, "not-a-known-token"))

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRefresh_UnknownTokenIsRevoked(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "hr@example.com", user.RoleHR, true)

	token, _, err := f.jwt.GenerateRefreshToken(u.ID)
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: token})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	u, emp := f.createEmployee(t, "jane@example.com")

	_, err := f.svc.Me(context.Background())
	assert.ErrorIs(t, err, user.ErrUnauthenticated)

	ctx := user.WithActor(context.Background(), user.Actor{UserID: u.ID, EmployeeID: emp.ID, Email: u.Email, Role: u.Role})
	me, err := f.svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", me.Email)
	require.NotNil(t, me.EmployeeCode)
	assert.Equal(t, "EMP0042", *me.EmployeeCode)
	require.NotNil(t, me.FullName)
	assert.Equal(t, "Jane Doe", *me.FullName)
	require.NotNil(t, me.Department)
	assert.Equal(t, "Support", *me.Department)

	admin := f.createUser(t, "admin@example.com", user.RoleAdmin, true)
	me, err = f.svc.Me(user.WithActor(context.Background(), user.Actor{UserID: admin.ID, Role: admin.Role}))
	require.NoError(t, err)
	assert.Nil(t, me.EmployeeID)
	assert.Nil(t, me.FullName)
}
