// Package memory is an in-process test double for every repository. It is
// imported only by tests and is not a production backend; cmd/api always runs
// on PostgreSQL. The store enforces the same unique keys as the PostgreSQL
// schema and rolls back WithinTx units on error, so services and the router
// can be tested without a database.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/department"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
	"github.com/vijaygla/HRMS-sub000/internal/domain/payroll"
	"github.com/vijaygla/HRMS-sub000/internal/domain/performance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
)

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

type tables struct {
	users         map[string]user.User
	refreshTokens map[string]refreshToken
	departments   map[string]department.Department
	employees     map[string]employee.Employee
	attendance    map[string]attendance.Attendance
	leaves        map[string]leave.LeaveRequest
	payroll       map[string]payroll.Record
	reviews       map[string]performance.Review
	employeeSeq   int
}

func (t tables) clone() tables {
	return tables{
		users:         maps.Clone(t.users),
		refreshTokens: maps.Clone(t.refreshTokens),
		departments:   maps.Clone(t.departments),
		employees:     maps.Clone(t.employees),
		attendance:    maps.Clone(t.attendance),
		leaves:        maps.Clone(t.leaves),
		payroll:       maps.Clone(t.payroll),
		reviews:       maps.Clone(t.reviews),
		employeeSeq:   t.employeeSeq,
	}
}

// Store is the shared state behind every repository of this package.
type Store struct {
	mu  sync.Mutex
	t   tables
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		t: tables{
			users:         map[string]user.User{},
			refreshTokens: map[string]refreshToken{},
			departments:   map[string]department.Department{},
			employees:     map[string]employee.Employee{},
			attendance:    map[string]attendance.Attendance{},
			leaves:        map[string]leave.LeaveRequest{},
			payroll:       map[string]payroll.Record{},
			reviews:       map[string]performance.Review{},
		},
		Now: time.Now,
	}
}

func (s *Store) now() time.Time {
	return s.Now().UTC()
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type txKey struct{}

// TxManager returns a database.TxManager that restores the store when fn fails.
func (s *Store) TxManager() database.TxManager {
	return txManager{s: s}
}

type txManager struct {
	s *Store
}

func (m txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.mu.Lock()
	snapshot := m.s.t.clone()
	m.s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.mu.Lock()
		m.s.t = snapshot
		m.s.mu.Unlock()
		return err
	}
	return nil
}

// page cuts one page out of items, which must already be sorted.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func sortBy[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

func strPtr(s string) *string {
	return &s
}

func matches(filter *string, value string) bool {
	return filter == nil || *filter == "" || *filter == value
}

// joinEmployee fills the display columns every listing joins in.
func (s *Store) joinEmployee(employeeID string) (code, name, departmentName *string) {
	e, ok := s.t.employees[employeeID]
	if !ok {
		return nil, nil, nil
	}
	code, name = strPtr(e.EmployeeCode), strPtr(e.FullName())
	if d, ok := s.t.departments[e.Job.DepartmentID]; ok {
		departmentName = strPtr(d.Name)
	}
	return code, name, departmentName
}

func (s *Store) employeeName(id *string) *string {
	if id == nil {
		return nil
	}
	if e, ok := s.t.employees[*id]; ok {
		return strPtr(e.FullName())
	}
	return nil
}
