package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
)

func TestGoalAchievement(t *testing.T) {
	tests := []struct {
		name  string
		goals []Goal
		want  float64
	}{
		{"no goals", nil, 0},
		{"zero weights", []Goal{{Weight: 0, Achievement: 80}}, 0},
		{"single goal", []Goal{{Weight: 50, Achievement: 80}}, 80},
		{"weighted", []Goal{{Weight: 60, Achievement: 100}, {Weight: 40, Achievement: 50}}, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Review{Goals: tt.goals}.GoalAchievement(), 1e-9)
		})
	}
}

func TestAverageCompetencyRating(t *testing.T) {
	assert.Equal(t, 0.0, Review{}.AverageCompetencyRating())

	r := Review{Competencies: []Competency{{Rating: 4}, {Rating: 5}, {Rating: 3}}}
	assert.InDelta(t, 4.0, r.AverageCompetencyRating(), 1e-9)
}

func TestLifecycle(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := Review{Status: StatusDraft}

	assert.ErrorIs(t, r.Complete(), ErrNotInReview)
	assert.ErrorIs(t, r.Acknowledge(nil, now), ErrNotCompleted)

	require.NoError(t, r.Submit(now))
	assert.Equal(t, StatusInReview, r.Status)
	assert.Equal(t, now, *r.SubmittedDate)
	assert.ErrorIs(t, r.Submit(now), apperror.ErrConflict)

	require.NoError(t, r.Complete())
	assert.Equal(t, StatusCompleted, r.Status)

	comment := "thanks"
	require.NoError(t, r.Acknowledge(&comment, now))
	assert.Equal(t, StatusAcknowledged, r.Status)
	assert.Equal(t, "thanks", *r.Feedback.EmployeeComments)
	assert.ErrorIs(t, r.Acknowledge(nil, now), ErrNotCompleted)
}

func TestAccessRules(t *testing.T) {
	r := Review{EmployeeID: "emp-1", ReviewerID: "emp-2"}

	reviewee := user.Actor{EmployeeID: "emp-1", Role: user.RoleEmployee}
	reviewer := user.Actor{EmployeeID: "emp-2", Role: user.RoleManager}
	otherManager := user.Actor{EmployeeID: "emp-3", Role: user.RoleManager}
	hr := user.Actor{EmployeeID: "emp-4", Role: user.RoleHR}
	stranger := user.Actor{EmployeeID: "emp-5", Role: user.RoleEmployee}

	assert.True(t, r.CanBeUpdatedBy(reviewee))
	assert.True(t, r.CanBeUpdatedBy(reviewer))
	assert.True(t, r.CanBeUpdatedBy(hr))
	assert.False(t, r.CanBeUpdatedBy(otherManager))

	assert.True(t, r.CanBeCompletedBy(reviewer))
	assert.True(t, r.CanBeCompletedBy(hr))
	assert.False(t, r.CanBeCompletedBy(reviewee))

	assert.True(t, r.CanBeViewedBy(otherManager))
	assert.False(t, r.CanBeViewedBy(stranger))
}

func TestCreateReviewRequest_ValidateFillsGoalDefaults(t *testing.T) {
	req := CreateReviewRequest{
		EmployeeID:    "emp-1",
		PeriodStart:   "2024-01-01",
		PeriodEnd:     "2024-03-31",
		ReviewType:    ReviewQuarterly,
		OverallRating: 4,
		Goals:         []Goal{{Title: " Ship v2 "}},
	}

	require.NoError(t, req.Validate())
	assert.Equal(t, "Ship v2", req.Goals[0].Title)
	assert.Equal(t, DefaultGoalWeight, req.Goals[0].Weight)
	assert.Equal(t, GoalNotStarted, req.Goals[0].Status)

	review := req.ToReview("emp-2")
	assert.Equal(t, StatusDraft, review.Status)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), review.PeriodEnd)
}

func TestCreateReviewRequest_ValidateRejectsBadInput(t *testing.T) {
	req := CreateReviewRequest{
		EmployeeID:    "emp-1",
		PeriodStart:   "2024-03-31",
		PeriodEnd:     "2024-01-01",
		ReviewType:    "monthly",
		OverallRating: 6,
		Competencies:  []Competency{{Name: "Go", Category: CategoryTechnical, Rating: 0}},
	}

	err := req.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "period_end")
	assert.Contains(t, msg, "review_type")
	assert.Contains(t, msg, "overall_rating")
	assert.Contains(t, msg, "competencies[0].rating")
}
