package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vijaygla/HRMS-sub000/internal/domain/payroll"
)

type payrollRepository struct {
	s *Store
}

func (s *Store) Payroll() payroll.PayrollRepository {
	return payrollRepository{s: s}
}

func (r payrollRepository) join(p payroll.Record) payroll.Record {
	p.EmployeeCode, p.EmployeeName, p.DepartmentName = r.s.joinEmployee(p.EmployeeID)
	return p
}

func (r payrollRepository) exists(employeeID string, month, year int) bool {
	for _, p := range r.s.t.payroll {
		if p.EmployeeID == employeeID && p.PayPeriod.Month == month && p.PayPeriod.Year == year {
			return true
		}
	}
	return false
}

func (r payrollRepository) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.exists(record.EmployeeID, record.PayPeriod.Month, record.PayPeriod.Year) {
		return payroll.Record{}, payroll.ErrPayrollExists
	}
	now := r.s.now()
	record.ID = newID()
	record.CreatedAt, record.UpdatedAt = now, now
	r.s.t.payroll[record.ID] = record
	return r.join(record), nil
}

func (r payrollRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.t.payroll[id]
	if !ok {
		return payroll.Record{}, payroll.ErrPayrollNotFound
	}
	return r.join(p), nil
}

func (r payrollRepository) ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.exists(employeeID, month, year), nil
}

func (r payrollRepository) Update(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.payroll[record.ID]; !ok {
		return payroll.Record{}, payroll.ErrPayrollNotFound
	}
	record.UpdatedAt = r.s.now()
	r.s.t.payroll[record.ID] = record
	return r.join(record), nil
}

func (r payrollRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.payroll[id]; !ok {
		return payroll.ErrPayrollNotFound
	}
	delete(r.s.t.payroll, id)
	return nil
}

func (r payrollRepository) collect(keep func(payroll.Record) bool) []payroll.Record {
	records := []payroll.Record{}
	for _, p := range r.s.t.payroll {
		if keep(p) {
			records = append(records, r.join(p))
		}
	}
	sortBy(records, func(a, b payroll.Record) bool {
		if a.PayPeriod.Year != b.PayPeriod.Year {
			return a.PayPeriod.Year > b.PayPeriod.Year
		}
		if a.PayPeriod.Month != b.PayPeriod.Month {
			return a.PayPeriod.Month > b.PayPeriod.Month
		}
		return *a.EmployeeCode < *b.EmployeeCode
	})
	return records
}

func (r payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Record, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records := r.collect(func(p payroll.Record) bool {
		return matches(filter.EmployeeID, p.EmployeeID) &&
			matches(filter.Status, string(p.Status)) &&
			(filter.Month == nil || *filter.Month == p.PayPeriod.Month) &&
			(filter.Year == nil || *filter.Year == p.PayPeriod.Year)
	})
	return page(records, filter.Limit, filter.Offset()), int64(len(records)), nil
}

func (r payrollRepository) ListReleasedByEmployee(ctx context.Context, employeeID string, filter payroll.MyPayrollFilter) ([]payroll.Record, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records := r.collect(func(p payroll.Record) bool {
		return p.EmployeeID == employeeID && p.Status.IsReleased() &&
			(filter.Year == nil || *filter.Year == p.PayPeriod.Year)
	})
	return page(records, filter.Limit, filter.Offset()), int64(len(records)), nil
}

func (r payrollRepository) SumReleased(ctx context.Context, year, month int) (payroll.PeriodTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := payroll.PeriodTotals{
		TotalGrossPay:   decimal.Zero,
		TotalNetPay:     decimal.Zero,
		TotalDeductions: decimal.Zero,
		AverageGrossPay: decimal.Zero,
		AverageNetPay:   decimal.Zero,
	}
	employees := map[string]bool{}
	n := 0
	for _, p := range r.s.t.payroll {
		if !p.Status.IsReleased() || p.PayPeriod.Year != year || (month != 0 && p.PayPeriod.Month != month) {
			continue
		}
		n++
		employees[p.EmployeeID] = true
		t.TotalGrossPay = t.TotalGrossPay.Add(p.Totals.GrossPay)
		t.TotalNetPay = t.TotalNetPay.Add(p.Totals.NetPay)
		t.TotalDeductions = t.TotalDeductions.Add(p.Totals.TotalDeductions)
	}
	t.EmployeeCount = len(employees)
	if n > 0 {
		count := decimal.NewFromInt(int64(n))
		t.AverageGrossPay = t.TotalGrossPay.Div(count).Round(2)
		t.AverageNetPay = t.TotalNetPay.Div(count).Round(2)
	}
	return t, nil
}

func (r payrollRepository) MonthlyTrend(ctx context.Context, year int) ([]payroll.MonthTrend, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byMonth := map[int]*payroll.MonthTrend{}
	employees := map[int]map[string]bool{}
	for _, p := range r.s.t.payroll {
		if !p.Status.IsReleased() || p.PayPeriod.Year != year {
			continue
		}
		m := p.PayPeriod.Month
		t, ok := byMonth[m]
		if !ok {
			t = &payroll.MonthTrend{Month: m, TotalGrossPay: decimal.Zero, TotalNetPay: decimal.Zero}
			byMonth[m] = t
			employees[m] = map[string]bool{}
		}
		employees[m][p.EmployeeID] = true
		t.TotalGrossPay = t.TotalGrossPay.Add(p.Totals.GrossPay)
		t.TotalNetPay = t.TotalNetPay.Add(p.Totals.NetPay)
	}

	trends := []payroll.MonthTrend{}
	for m, t := range byMonth {
		t.EmployeeCount = len(employees[m])
		trends = append(trends, *t)
	}
	sortBy(trends, func(a, b payroll.MonthTrend) bool { return a.Month < b.Month })
	return trends, nil
}
