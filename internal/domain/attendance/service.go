package attendance

import (
	"context"
	"io"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the authenticated employee
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record and recomputes hours
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	StartBreak(ctx context.Context, req BreakRequest) (AttendanceResponse, error)
	EndBreak(ctx context.Context) (AttendanceResponse, error)

	// GetMyAttendance retrieves attendance records for authenticated employee
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin, hr, manager)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// CreateManualEntry records a day directly without check-in/out (admin, hr)
	CreateManualEntry(ctx context.Context, req ManualEntryRequest) (AttendanceResponse, error)

	// UpdateAttendance fixes a record (admin, hr); hours are recomputed
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	DeleteAttendance(ctx context.Context, id string) error

	GetStats(ctx context.Context) (StatsResponse, error)
	GetReport(ctx context.Context, filter ReportFilter) (ReportResponse, error)
	// WriteReportXLSX writes the report as a workbook to w and returns its file name
	WriteReportXLSX(ctx context.Context, filter ReportFilter, w io.Writer) (string, error)
}
