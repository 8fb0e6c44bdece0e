package memory

import (
	"context"
	"math"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/domain/performance"
)

type reviewRepository struct {
	s *Store
}

func (s *Store) Reviews() performance.ReviewRepository {
	return reviewRepository{s: s}
}

func (r reviewRepository) join(rv performance.Review) performance.Review {
	rv.EmployeeCode, rv.EmployeeName, rv.DepartmentName = r.s.joinEmployee(rv.EmployeeID)
	rv.ReviewerName = r.s.employeeName(&rv.ReviewerID)
	return rv
}

func (r reviewRepository) Create(ctx context.Context, review performance.Review) (performance.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.t.reviews {
		if other.EmployeeID == review.EmployeeID &&
			sameDay(other.PeriodStart, review.PeriodStart) && sameDay(other.PeriodEnd, review.PeriodEnd) {
			return performance.Review{}, performance.ErrReviewExists
		}
	}
	now := r.s.now()
	review.ID = newID()
	review.CreatedAt, review.UpdatedAt = now, now
	r.s.t.reviews[review.ID] = review
	return r.join(review), nil
}

func (r reviewRepository) GetByID(ctx context.Context, id string) (performance.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.t.reviews[id]
	if !ok {
		return performance.Review{}, performance.ErrReviewNotFound
	}
	return r.join(rv), nil
}

func (r reviewRepository) Update(ctx context.Context, review performance.Review) (performance.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.reviews[review.ID]; !ok {
		return performance.Review{}, performance.ErrReviewNotFound
	}
	review.UpdatedAt = r.s.now()
	r.s.t.reviews[review.ID] = review
	return r.join(review), nil
}

func (r reviewRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.reviews[id]; !ok {
		return performance.ErrReviewNotFound
	}
	delete(r.s.t.reviews, id)
	return nil
}

func (r reviewRepository) collect(keep func(performance.Review) bool) []performance.Review {
	reviews := []performance.Review{}
	for _, rv := range r.s.t.reviews {
		if keep(rv) {
			reviews = append(reviews, r.join(rv))
		}
	}
	sortBy(reviews, func(a, b performance.Review) bool {
		if !a.PeriodEnd.Equal(b.PeriodEnd) {
			return a.PeriodEnd.After(b.PeriodEnd)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return reviews
}

func (r reviewRepository) List(ctx context.Context, filter performance.ReviewFilter) ([]performance.Review, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reviews := r.collect(func(rv performance.Review) bool {
		return matches(filter.EmployeeID, rv.EmployeeID) &&
			matches(filter.ReviewerID, rv.ReviewerID) &&
			matches(filter.Status, string(rv.Status)) &&
			matches(filter.ReviewType, string(rv.Type))
	})
	return page(reviews, filter.Limit, filter.Offset()), int64(len(reviews)), nil
}

func (r reviewRepository) ListByEmployee(ctx context.Context, employeeID string, filter performance.MyReviewFilter) ([]performance.Review, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reviews := r.collect(func(rv performance.Review) bool {
		return rv.EmployeeID == employeeID && matches(filter.Status, string(rv.Status))
	})
	return page(reviews, filter.Limit, filter.Offset()), int64(len(reviews)), nil
}

func (r reviewRepository) createdIn(from, to time.Time) []performance.Review {
	reviews := []performance.Review{}
	for _, rv := range r.s.t.reviews {
		if !rv.CreatedAt.Before(from) && rv.CreatedAt.Before(to) {
			reviews = append(reviews, rv)
		}
	}
	return reviews
}

func (r reviewRepository) CountByStatus(ctx context.Context, from, to time.Time) (map[performance.Status]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := map[performance.Status]int{}
	for _, rv := range r.createdIn(from, to) {
		counts[rv.Status]++
	}
	return counts, nil
}

func (r reviewRepository) CountByType(ctx context.Context, from, to time.Time) (map[performance.ReviewType]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := map[performance.ReviewType]int{}
	for _, rv := range r.createdIn(from, to) {
		counts[rv.Type]++
	}
	return counts, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func (r reviewRepository) SummarizeRatings(ctx context.Context, from, to time.Time) (performance.RatingSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var s performance.RatingSummary
	sum := 0.0
	for _, rv := range r.createdIn(from, to) {
		if rv.Status != performance.StatusCompleted && rv.Status != performance.StatusAcknowledged {
			continue
		}
		s.TotalReviews++
		sum += rv.OverallRating
		if rv.OverallRating >= 4.5 {
			s.HighPerformers++
		}
		if rv.OverallRating < 3 {
			s.LowPerformers++
		}
	}
	if s.TotalReviews > 0 {
		s.AverageRating = round2(sum / float64(s.TotalReviews))
	}
	return s, nil
}

func (r reviewRepository) SummarizeByMonth(ctx context.Context, from, to time.Time) ([]performance.MonthSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sums := map[int]float64{}
	byMonth := map[int]*performance.MonthSummary{}
	for _, rv := range r.createdIn(from, to) {
		m := int(rv.CreatedAt.Month())
		s, ok := byMonth[m]
		if !ok {
			s = &performance.MonthSummary{Month: m}
			byMonth[m] = s
		}
		s.Count++
		sums[m] += rv.OverallRating
	}

	summaries := []performance.MonthSummary{}
	for m, s := range byMonth {
		s.AverageRating = round2(sums[m] / float64(s.Count))
		summaries = append(summaries, *s)
	}
	sortBy(summaries, func(a, b performance.MonthSummary) bool { return a.Month < b.Month })
	return summaries, nil
}
