package performance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/performance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
)

type ReviewServiceImpl struct {
	performance.ReviewRepository
	employeeRepository employee.EmployeeRepository
	now                func() time.Time
}

func NewReviewService(reviewRepository performance.ReviewRepository, employeeRepository employee.EmployeeRepository) performance.ReviewService {
	return &ReviewServiceImpl{
		ReviewRepository:   reviewRepository,
		employeeRepository: employeeRepository,
		now:                time.Now,
	}
}

func toListResponse(reviews []performance.Review, params pagination.Params, total int64) performance.ListReviewResponse {
	responses := make([]performance.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, performance.NewReviewResponse(r))
	}
	return performance.ListReviewResponse{
		Info:    pagination.NewInfo(params, total),
		Reviews: responses,
	}
}

// load fetches a review and checks it against allowed.
func (s *ReviewServiceImpl) load(ctx context.Context, id string, allowed func(performance.Review, user.Actor) bool) (performance.Review, user.Actor, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return performance.Review{}, user.Actor{}, err
	}
	review, err := s.ReviewRepository.GetByID(ctx, id)
	if err != nil {
		return performance.Review{}, user.Actor{}, err
	}
	if !allowed(review, actor) {
		return performance.Review{}, user.Actor{}, performance.ErrReviewAccessDenied
	}
	return review, actor, nil
}

func (s *ReviewServiceImpl) save(ctx context.Context, review performance.Review) (performance.ReviewResponse, error) {
	updated, err := s.ReviewRepository.Update(ctx, review)
	if err != nil {
		return performance.ReviewResponse{}, fmt.Errorf("failed to update performance review: %w", err)
	}
	return performance.NewReviewResponse(updated), nil
}

// Create implements performance.ReviewService.
func (s *ReviewServiceImpl) Create(ctx context.Context, req performance.CreateReviewRequest) (performance.ReviewResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionPerformanceManage)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	if actor.EmployeeID == "" {
		return performance.ReviewResponse{}, performance.ErrReviewerRequired
	}
	if err := req.Validate(); err != nil {
		return performance.ReviewResponse{}, err
	}
	if req.EmployeeID == actor.EmployeeID {
		return performance.ReviewResponse{}, performance.ErrCannotReviewSelf
	}
	if _, err := s.employeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return performance.ReviewResponse{}, err
	}

	created, err := s.ReviewRepository.Create(ctx, req.ToReview(actor.EmployeeID))
	if err != nil {
		return performance.ReviewResponse{}, err
	}

	slog.Info("performance review created", "review_id", created.ID, "employee_id", created.EmployeeID, "reviewer_id", created.ReviewerID)
	return performance.NewReviewResponse(created), nil
}

// Get implements performance.ReviewService.
func (s *ReviewServiceImpl) Get(ctx context.Context, id string) (performance.ReviewResponse, error) {
	review, _, err := s.load(ctx, id, performance.Review.CanBeViewedBy)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	return performance.NewReviewResponse(review), nil
}

// Update implements performance.ReviewService.
func (s *ReviewServiceImpl) Update(ctx context.Context, req performance.UpdateReviewRequest) (performance.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return performance.ReviewResponse{}, err
	}
	review, _, err := s.load(ctx, req.ID, performance.Review.CanBeUpdatedBy)
	if err != nil {
		return performance.ReviewResponse{}, err
	}

	req.Apply(&review)
	return s.save(ctx, review)
}

// Delete implements performance.ReviewService.
func (s *ReviewServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := user.RequirePermission(ctx, user.PermissionPerformanceDelete)
	if err != nil {
		return err
	}
	if err := s.ReviewRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("performance review deleted", "review_id", id, "by", actor.UserID)
	return nil
}

// Submit implements performance.ReviewService.
func (s *ReviewServiceImpl) Submit(ctx context.Context, id string) (performance.ReviewResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionPerformanceManage); err != nil {
		return performance.ReviewResponse{}, err
	}
	review, _, err := s.load(ctx, id, performance.Review.CanBeUpdatedBy)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	if err := review.Submit(s.now().UTC()); err != nil {
		return performance.ReviewResponse{}, err
	}
	return s.save(ctx, review)
}

// Complete implements performance.ReviewService.
func (s *ReviewServiceImpl) Complete(ctx context.Context, id string) (performance.ReviewResponse, error) {
	review, actor, err := s.load(ctx, id, performance.Review.CanBeCompletedBy)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	if err := review.Complete(); err != nil {
		return performance.ReviewResponse{}, err
	}

	resp, err := s.save(ctx, review)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	slog.Info("performance review completed", "review_id", id, "rating", review.OverallRating, "by", actor.UserID)
	return resp, nil
}

// Acknowledge implements performance.ReviewService. Only the reviewed
// employee may acknowledge.
func (s *ReviewServiceImpl) Acknowledge(ctx context.Context, req performance.AcknowledgeReviewRequest) (performance.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return performance.ReviewResponse{}, err
	}
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	review, err := s.ReviewRepository.GetByID(ctx, req.ID)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	if !actor.IsEmployee(review.EmployeeID) {
		return performance.ReviewResponse{}, performance.ErrNotReviewee
	}
	if err := review.Acknowledge(req.EmployeeComments, s.now().UTC()); err != nil {
		return performance.ReviewResponse{}, err
	}
	return s.save(ctx, review)
}

// List implements performance.ReviewService.
func (s *ReviewServiceImpl) List(ctx context.Context, filter performance.ReviewFilter) (performance.ListReviewResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionPerformanceManage); err != nil {
		return performance.ListReviewResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return performance.ListReviewResponse{}, err
	}

	reviews, total, err := s.ReviewRepository.List(ctx, filter)
	if err != nil {
		return performance.ListReviewResponse{}, fmt.Errorf("failed to list performance reviews: %w", err)
	}
	return toListResponse(reviews, filter.Params, total), nil
}

// GetMyReviews implements performance.ReviewService.
func (s *ReviewServiceImpl) GetMyReviews(ctx context.Context, filter performance.MyReviewFilter) (performance.ListReviewResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return performance.ListReviewResponse{}, err
	}
	if actor.EmployeeID == "" {
		return performance.ListReviewResponse{}, employee.ErrEmployeeProfileRequired
	}
	if err := filter.Validate(); err != nil {
		return performance.ListReviewResponse{}, err
	}

	reviews, total, err := s.ReviewRepository.ListByEmployee(ctx, actor.EmployeeID, filter)
	if err != nil {
		return performance.ListReviewResponse{}, fmt.Errorf("failed to list performance reviews: %w", err)
	}
	return toListResponse(reviews, filter.Params, total), nil
}

// GetStats implements performance.ReviewService. Figures cover reviews
// created in the current calendar year.
func (s *ReviewServiceImpl) GetStats(ctx context.Context) (performance.StatsResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionPerformanceStats); err != nil {
		return performance.StatsResponse{}, err
	}

	year := s.now().UTC().Year()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	stats := performance.StatsResponse{Year: year}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ByStatus, err = s.ReviewRepository.CountByStatus(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.ByType, err = s.ReviewRepository.CountByType(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.Ratings, err = s.ReviewRepository.SummarizeRatings(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.Monthly, err = s.ReviewRepository.SummarizeByMonth(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return performance.StatsResponse{}, fmt.Errorf("failed to get performance stats: %w", err)
	}
	return stats, nil
}
