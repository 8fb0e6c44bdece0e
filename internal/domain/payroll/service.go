package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	List(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	Get(ctx context.Context, id string) (PayrollResponse, error)
	Create(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)
	Update(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error

	// Calculate builds a record from salary, benefits and attendance
	Calculate(ctx context.Context, req CalculatePayrollRequest) (PayrollResponse, error)
	Approve(ctx context.Context, id string) (PayrollResponse, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) (PayrollResponse, error)
	Cancel(ctx context.Context, id string) (PayrollResponse, error)

	GetMyPayroll(ctx context.Context, filter MyPayrollFilter) (ListPayrollResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	// WritePayslipPDF renders the payslip as a PDF document to w
	WritePayslipPDF(ctx context.Context, id string, w io.Writer) (string, error)
	GetStats(ctx context.Context) (StatsResponse, error)
}
