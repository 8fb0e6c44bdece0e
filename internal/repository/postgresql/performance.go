package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vijaygla/HRMS-sub000/internal/domain/performance"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
)

type performanceRepositoryImpl struct {
	db *database.DB
}

func NewPerformanceRepository(db *database.DB) performance.ReviewRepository {
	return &performanceRepositoryImpl{db: db}
}

const reviewSelect = `
	SELECT
		pr.id, pr.employee_id, pr.reviewer_id, pr.period_start, pr.period_end, pr.review_type,
		pr.goals, pr.competencies, pr.overall_rating, pr.strengths, pr.areas_for_improvement,
		pr.development_plan, pr.feedback, pr.status, pr.submitted_date, pr.acknowledged_date,
		pr.next_review_date, pr.created_at, pr.updated_at,
		e.employee_code, e.first_name || ' ' || e.last_name, d.name,
		rv.first_name || ' ' || rv.last_name
	FROM performance_reviews pr
	JOIN employees e ON e.id = pr.employee_id
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN employees rv ON rv.id = pr.reviewer_id
`

func scanReview(row pgx.Row) (performance.Review, error) {
	var rv performance.Review
	err := row.Scan(
		&rv.ID, &rv.EmployeeID, &rv.ReviewerID, &rv.PeriodStart, &rv.PeriodEnd, &rv.Type,
		&rv.Goals, &rv.Competencies, &rv.OverallRating, &rv.Strengths, &rv.AreasForImprovement,
		&rv.DevelopmentPlan, &rv.Feedback, &rv.Status, &rv.SubmittedDate, &rv.AcknowledgedDate,
		&rv.NextReviewDate, &rv.CreatedAt, &rv.UpdatedAt,
		&rv.EmployeeCode, &rv.EmployeeName, &rv.DepartmentName, &rv.ReviewerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return performance.Review{}, performance.ErrReviewNotFound
		}
		return performance.Review{}, err
	}
	return rv, nil
}

func collectReviews(rows pgx.Rows) ([]performance.Review, error) {
	defer rows.Close()

	reviews := []performance.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// jsonb columns are NOT NULL, so nil slices go out as empty arrays.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Create implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) Create(ctx context.Context, review performance.Review) (performance.Review, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return performance.Review{}, fmt.Errorf("failed to generate review id: %w", err)
	}

	query := `
		INSERT INTO performance_reviews (
			id, employee_id, reviewer_id, period_start, period_end, review_type,
			goals, competencies, overall_rating, strengths, areas_for_improvement,
			development_plan, feedback, status, next_review_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = q.Exec(ctx, query,
		id.String(), review.EmployeeID, review.ReviewerID, review.PeriodStart, review.PeriodEnd, review.Type,
		emptyIfNil(review.Goals), emptyIfNil(review.Competencies), review.OverallRating,
		emptyIfNil(review.Strengths), emptyIfNil(review.AreasForImprovement),
		emptyIfNil(review.DevelopmentPlan), review.Feedback, review.Status, review.NextReviewDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return performance.Review{}, performance.ErrReviewExists
		}
		return performance.Review{}, fmt.Errorf("failed to create performance review: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) GetByID(ctx context.Context, id string) (performance.Review, error) {
	q := GetQuerier(ctx, r.db)
	return scanReview(q.QueryRow(ctx, reviewSelect+` WHERE pr.id = $1`, id))
}

// Update implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) Update(ctx context.Context, review performance.Review) (performance.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE performance_reviews
		SET review_type = $1, goals = $2, competencies = $3, overall_rating = $4,
			strengths = $5, areas_for_improvement = $6, development_plan = $7, feedback = $8,
			status = $9, submitted_date = $10, acknowledged_date = $11, next_review_date = $12,
			updated_at = NOW()
		WHERE id = $13
	`
	tag, err := q.Exec(ctx, query,
		review.Type, emptyIfNil(review.Goals), emptyIfNil(review.Competencies), review.OverallRating,
		emptyIfNil(review.Strengths), emptyIfNil(review.AreasForImprovement),
		emptyIfNil(review.DevelopmentPlan), review.Feedback,
		review.Status, review.SubmittedDate, review.AcknowledgedDate, review.NextReviewDate,
		review.ID,
	)
	if err != nil {
		return performance.Review{}, fmt.Errorf("failed to update performance review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return performance.Review{}, performance.ErrReviewNotFound
	}

	return r.GetByID(ctx, review.ID)
}

// Delete implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM performance_reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return performance.ErrReviewNotFound
	}
	return nil
}

// List implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) List(ctx context.Context, filter performance.ReviewFilter) ([]performance.Review, int64, error) {
	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argIdx := 1

	add := func(column string, value *string) {
		if value == nil || *value == "" {
			return
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, *value)
		argIdx++
	}
	add("pr.employee_id", filter.EmployeeID)
	add("pr.reviewer_id", filter.ReviewerID)
	add("pr.status", filter.Status)
	add("pr.review_type", filter.ReviewType)

	return r.page(ctx, conditions, args, argIdx, filter.Limit, filter.Offset())
}

// ListByEmployee implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter performance.MyReviewFilter) ([]performance.Review, int64, error) {
	conditions := []string{"pr.employee_id = $1"}
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("pr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	return r.page(ctx, conditions, args, argIdx, filter.Limit, filter.Offset())
}

func (r *performanceRepositoryImpl) page(ctx context.Context, conditions []string, args []interface{}, argIdx int, limit, offset int) ([]performance.Review, int64, error) {
	q := GetQuerier(ctx, r.db)
	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM performance_reviews pr WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count performance reviews: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY pr.period_end DESC, pr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, reviewSelect, whereClause, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list performance reviews: %w", err)
	}
	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// CountByStatus implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) CountByStatus(ctx context.Context, from, to time.Time) (map[performance.Status]int, error) {
	counts := make(map[performance.Status]int)
	err := r.countGrouped(ctx, "status", from, to, func(key string, n int) {
		counts[performance.Status(key)] = n
	})
	return counts, err
}

// CountByType implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) CountByType(ctx context.Context, from, to time.Time) (map[performance.ReviewType]int, error) {
	counts := make(map[performance.ReviewType]int)
	err := r.countGrouped(ctx, "review_type", from, to, func(key string, n int) {
		counts[performance.ReviewType(key)] = n
	})
	return counts, err
}

// column is always one of the two literals above.
func (r *performanceRepositoryImpl) countGrouped(ctx context.Context, column string, from, to time.Time, put func(string, int)) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*)
		FROM performance_reviews
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY %[1]s
	`, column)
	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return fmt.Errorf("failed to count reviews by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		put(key, n)
	}
	return rows.Err()
}

// SummarizeRatings implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) SummarizeRatings(ctx context.Context, from, to time.Time) (performance.RatingSummary, error) {
	q := GetQuerier(ctx, r.db)

	var s performance.RatingSummary
	err := q.QueryRow(ctx, `
		SELECT
			COALESCE(ROUND(AVG(overall_rating)::numeric, 2), 0)::float8,
			COUNT(*),
			COUNT(*) FILTER (WHERE overall_rating >= 4.5),
			COUNT(*) FILTER (WHERE overall_rating < 3)
		FROM performance_reviews
		WHERE created_at >= $1 AND created_at < $2 AND status IN ('completed', 'acknowledged')
	`, from, to).Scan(&s.AverageRating, &s.TotalReviews, &s.HighPerformers, &s.LowPerformers)
	if err != nil {
		return performance.RatingSummary{}, fmt.Errorf("failed to summarize ratings: %w", err)
	}
	return s, nil
}

// SummarizeByMonth implements performance.ReviewRepository.
func (r *performanceRepositoryImpl) SummarizeByMonth(ctx context.Context, from, to time.Time) ([]performance.MonthSummary, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*),
			ROUND(AVG(overall_rating)::numeric, 2)::float8
		FROM performance_reviews
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY month
		ORDER BY month
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize reviews by month: %w", err)
	}
	defer rows.Close()

	summaries := []performance.MonthSummary{}
	for rows.Next() {
		var s performance.MonthSummary
		if err := rows.Scan(&s.Month, &s.Count, &s.AverageRating); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
