package memory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vijaygla/HRMS-sub000/internal/domain/department"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
)

type departmentRepository struct {
	s *Store
}

func (s *Store) Departments() department.DepartmentRepository {
	return departmentRepository{s: s}
}

func (r departmentRepository) join(d department.Department) department.Department {
	d.ManagerName = r.s.employeeName(d.ManagerID)
	d.EmployeeCount = r.activeCount(d.ID)
	return d
}

func (r departmentRepository) activeCount(id string) int {
	n := 0
	for _, e := range r.s.t.employees {
		if e.Job.DepartmentID == id && e.Status == employee.StatusActive {
			n++
		}
	}
	return n
}

func (r departmentRepository) checkUnique(d department.Department) error {
	for _, other := range r.s.t.departments {
		if other.ID == d.ID {
			continue
		}
		if strings.EqualFold(other.Name, d.Name) {
			return department.ErrDepartmentNameExists
		}
		if strings.EqualFold(other.Code, d.Code) {
			return department.ErrDepartmentCodeExists
		}
	}
	return nil
}

func (r departmentRepository) Create(ctx context.Context, dept department.Department) (department.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(dept); err != nil {
		return department.Department{}, err
	}
	now := r.s.now()
	dept.ID = newID()
	dept.CreatedAt, dept.UpdatedAt = now, now
	r.s.t.departments[dept.ID] = dept
	return r.join(dept), nil
}

func (r departmentRepository) GetByID(ctx context.Context, id string) (department.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.t.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return r.join(d), nil
}

func (r departmentRepository) ListActive(ctx context.Context) ([]department.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	depts := []department.Department{}
	for _, d := range r.s.t.departments {
		if d.IsActive {
			depts = append(depts, r.join(d))
		}
	}
	sortBy(depts, func(a, b department.Department) bool { return a.Name < b.Name })
	return depts, nil
}

func (r departmentRepository) Update(ctx context.Context, dept department.Department) (department.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.departments[dept.ID]; !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	if err := r.checkUnique(dept); err != nil {
		return department.Department{}, err
	}
	dept.UpdatedAt = r.s.now()
	r.s.t.departments[dept.ID] = dept
	return r.join(dept), nil
}

func (r departmentRepository) Deactivate(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.t.departments[id]
	if !ok {
		return department.ErrDepartmentNotFound
	}
	d.IsActive = false
	d.UpdatedAt = r.s.now()
	r.s.t.departments[id] = d
	return nil
}

func (r departmentRepository) CountActiveEmployees(ctx context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.activeCount(id), nil
}

func (r departmentRepository) GetStats(ctx context.Context, id string) (department.Stats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stats := department.Stats{
		ByStatus:         map[string]int{},
		ByEmploymentType: map[string]int{},
		TotalSalary:      decimal.Zero,
		AverageSalary:    decimal.Zero,
	}
	active := 0
	for _, e := range r.s.t.employees {
		if e.Job.DepartmentID != id {
			continue
		}
		stats.ByStatus[string(e.Status)]++
		if e.Status == employee.StatusActive {
			active++
			stats.ByEmploymentType[string(e.Job.EmploymentType)]++
			stats.TotalSalary = stats.TotalSalary.Add(e.Salary.BaseSalary)
		}
	}
	stats.TotalEmployees = active
	if active > 0 {
		stats.AverageSalary = stats.TotalSalary.Div(decimal.NewFromInt(int64(active))).Round(2)
	}
	return stats, nil
}
