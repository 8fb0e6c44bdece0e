package performance

import (
	"context"
	"time"
)

type ReviewRepository interface {
	// Create fails with ErrReviewExists when (employee, period start, period end) is taken
	Create(ctx context.Context, review Review) (Review, error)
	GetByID(ctx context.Context, id string) (Review, error)
	Update(ctx context.Context, review Review) (Review, error)
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter ReviewFilter) ([]Review, int64, error)
	ListByEmployee(ctx context.Context, employeeID string, filter MyReviewFilter) ([]Review, int64, error)

	// Stats over reviews created between from (inclusive) and to (exclusive)
	CountByStatus(ctx context.Context, from, to time.Time) (map[Status]int, error)
	CountByType(ctx context.Context, from, to time.Time) (map[ReviewType]int, error)
	// SummarizeRatings covers completed and acknowledged reviews only
	SummarizeRatings(ctx context.Context, from, to time.Time) (RatingSummary, error)
	SummarizeByMonth(ctx context.Context, from, to time.Time) ([]MonthSummary, error)
}
