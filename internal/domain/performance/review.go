package performance

import (
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
)

// GoalAchievement is the weight-averaged achievement of all goals, as a
// percentage. Zero when there are no goals or the weights sum to zero.
func (r Review) GoalAchievement() float64 {
	var weighted, totalWeight float64
	for _, g := range r.Goals {
		weighted += g.Achievement * g.Weight / 100
		totalWeight += g.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight * 100
}

func (r Review) AverageCompetencyRating() float64 {
	if len(r.Competencies) == 0 {
		return 0
	}
	var total float64
	for _, c := range r.Competencies {
		total += c.Rating
	}
	return total / float64(len(r.Competencies))
}

// Submit sends a draft for review.
func (r *Review) Submit(at time.Time) error {
	if r.Status != StatusDraft {
		return ErrNotDraft
	}
	r.Status = StatusInReview
	r.SubmittedDate = &at
	return nil
}

// Complete closes a review that is in review.
func (r *Review) Complete() error {
	if r.Status != StatusInReview {
		return ErrNotInReview
	}
	r.Status = StatusCompleted
	return nil
}

// Acknowledge records the reviewee's sign-off on a completed review.
func (r *Review) Acknowledge(comments *string, at time.Time) error {
	if r.Status != StatusCompleted {
		return ErrNotCompleted
	}
	r.Status = StatusAcknowledged
	r.AcknowledgedDate = &at
	if comments != nil {
		r.Feedback.EmployeeComments = comments
	}
	return nil
}

// IsParticipant reports whether actor is the reviewer or the reviewee.
func (r Review) IsParticipant(actor user.Actor) bool {
	return actor.IsEmployee(r.EmployeeID) || actor.IsEmployee(r.ReviewerID)
}

// CanBeViewedBy allows participants and anyone managing reviews.
func (r Review) CanBeViewedBy(actor user.Actor) bool {
	return r.IsParticipant(actor) || actor.Can(user.PermissionPerformanceManage)
}

// CanBeUpdatedBy allows participants, hr and admin.
func (r Review) CanBeUpdatedBy(actor user.Actor) bool {
	return r.IsParticipant(actor) || actor.Can(user.PermissionPerformanceOverride)
}

// CanBeCompletedBy allows the reviewer, hr and admin.
func (r Review) CanBeCompletedBy(actor user.Actor) bool {
	return actor.IsEmployee(r.ReviewerID) || actor.Can(user.PermissionPerformanceOverride)
}
