package performance

import "github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"

var (
	ErrReviewNotFound     = apperror.NotFound("performance review not found")
	ErrReviewExists       = apperror.Conflict("a review already exists for this employee and period")
	ErrNotDraft           = apperror.Conflict("review is not in draft status")
	ErrNotInReview        = apperror.Conflict("review is not in review")
	ErrNotCompleted       = apperror.Conflict("review must be completed before acknowledgement")
	ErrReviewAccessDenied = apperror.Forbidden("not authorized to access this performance review")
	ErrNotReviewee        = apperror.Forbidden("only the reviewed employee can acknowledge this review")
	ErrReviewerRequired   = apperror.NotFound("reviewer profile not found")
	ErrCannotReviewSelf   = apperror.Validation("reviewer and employee must differ")
)
