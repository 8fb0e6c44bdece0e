package performance

import "context"

type ReviewService interface {
	List(ctx context.Context, filter ReviewFilter) (ListReviewResponse, error)
	Get(ctx context.Context, id string) (ReviewResponse, error)
	// Create opens a draft review with the caller as reviewer
	Create(ctx context.Context, req CreateReviewRequest) (ReviewResponse, error)
	Update(ctx context.Context, req UpdateReviewRequest) (ReviewResponse, error)
	Delete(ctx context.Context, id string) error

	Submit(ctx context.Context, id string) (ReviewResponse, error)
	Complete(ctx context.Context, id string) (ReviewResponse, error)
	Acknowledge(ctx context.Context, req AcknowledgeReviewRequest) (ReviewResponse, error)

	GetMyReviews(ctx context.Context, filter MyReviewFilter) (ListReviewResponse, error)
	GetStats(ctx context.Context) (StatsResponse, error)
}
