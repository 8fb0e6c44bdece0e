package performance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/performance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
	"github.com/vijaygla/HRMS-sub000/internal/repository/memory"
)

type fixture struct {
	svc        *ReviewServiceImpl
	employeeID string
	self       context.Context
	peer       context.Context
	manager    context.Context
	hr         context.Context
	admin      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return now }

	dept, err := store.SeedDepartment(ctx, "Engineering")
	require.NoError(t, err)
	actors := make([]user.Actor, 0, 5)
	for _, role := range []user.Role{user.RoleEmployee, user.RoleEmployee, user.RoleManager, user.RoleHR, user.RoleAdmin} {
		_, actor, err := store.SeedEmployee(ctx, dept.ID, role, decimal.NewFromInt(3000))
		require.NoError(t, err)
		actors = append(actors, actor)
	}

	svc := NewReviewService(store.Reviews(), store.Employees()).(*ReviewServiceImpl)
	svc.now = store.Now

	return &fixture{
		svc:        svc,
		employeeID: actors[0].EmployeeID,
		self:       user.WithActor(ctx, actors[0]),
		peer:       user.WithActor(ctx, actors[1]),
		manager:    user.WithActor(ctx, actors[2]),
		hr:         user.WithActor(ctx, actors[3]),
		admin:      user.WithActor(ctx, actors[4]),
	}
}

func (f *fixture) quarterly(rating float64) performance.CreateReviewRequest {
	return performance.CreateReviewRequest{
		EmployeeID:  f.employeeID,
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-03-31",
		ReviewType:  performance.ReviewQuarterly,
		Goals: []performance.Goal{
			{Title: "Ship billing v2", Weight: 60, Achievement: 100},
			{Title: "Mentor a new hire", Weight: 40, Achievement: 50},
		},
		Competencies: []performance.Competency{
			{Name: "Go", Category: performance.CategoryTechnical, Rating: 5},
			{Name: "Writing", Category: performance.CategoryCommunication, Rating: 3},
		},
		OverallRating: rating,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(f.manager, f.quarterly(4))
	require.NoError(t, err)
	assert.Equal(t, performance.StatusDraft, resp.Status)
	assert.InDelta(t, 80.0, resp.GoalAchievement, 1e-9)
	assert.InDelta(t, 4.0, resp.AverageCompetencyRating, 1e-9)
	assert.Equal(t, "2025-01-01", resp.ReviewPeriod.StartDate)
	require.NotNil(t, resp.ReviewerName)

	_, err = f.svc.Create(f.hr, f.quarterly(3))
	assert.ErrorIs(t, err, performance.ErrReviewExists)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.svc.Create(f.peer, f.quarterly(3))
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	self := f.quarterly(3)
	self.PeriodStart, self.PeriodEnd = "2025-04-01", "2025-06-30"
	_, err = f.svc.Create(f.self, self)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	bad := f.quarterly(6)
	bad.PeriodEnd = "2024-12-31"
	_, err = f.svc.Create(f.manager, bad)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "overall_rating")
	assert.Contains(t, err.Error(), "period_end")
}

func TestCreate_DefaultsGoalFields(t *testing.T) {
	f := newFixture(t)
	req := f.quarterly(4)
	req.Goals = []performance.Goal{{Title: "  Reduce p99 latency  "}}

	resp, err := f.svc.Create(f.manager, req)
	require.NoError(t, err)
	require.Len(t, resp.Goals, 1)
	assert.Equal(t, "Reduce p99 latency", resp.Goals[0].Title)
	assert.Equal(t, performance.GoalNotStarted, resp.Goals[0].Status)
	assert.Equal(t, performance.DefaultGoalWeight, resp.Goals[0].Weight)
}

func TestLifecycle(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.manager, f.quarterly(4))
	require.NoError(t, err)

	_, err = f.svc.Complete(f.manager, created.ID)
	assert.ErrorIs(t, err, performance.ErrNotInReview)

	submitted, err := f.svc.Submit(f.manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, performance.StatusInReview, submitted.Status)
	require.NotNil(t, submitted.SubmittedDate)
	assert.Equal(t, "2025-06-10T15:00:00Z", *submitted.SubmittedDate)

	_, err = f.svc.Submit(f.hr, created.ID)
	assert.ErrorIs(t, err, performance.ErrNotDraft)

	_, err = f.svc.Complete(f.self, created.ID)
	assert.ErrorIs(t, err, performance.ErrReviewAccessDenied)

	completed, err := f.svc.Complete(f.manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, performance.StatusCompleted, completed.Status)

	comment := "Agreed on the mentoring goal"
	_, err = f.svc.Acknowledge(f.manager, performance.AcknowledgeReviewRequest{ID: created.ID, EmployeeComments: &comment})
	assert.ErrorIs(t, err, performance.ErrNotReviewee)

	acked, err := f.svc.Acknowledge(f.self, performance.AcknowledgeReviewRequest{ID: created.ID, EmployeeComments: &comment})
	require.NoError(t, err)
	assert.Equal(t, performance.StatusAcknowledged, acked.Status)
	require.NotNil(t, acked.Feedback.EmployeeComments)
	assert.Equal(t, comment, *acked.Feedback.EmployeeComments)
	assert.NotNil(t, acked.AcknowledgedDate)

	_, err = f.svc.Acknowledge(f.self, performance.AcknowledgeReviewRequest{ID: created.ID})
	assert.ErrorIs(t, err, performance.ErrNotCompleted)
}

func TestUpdate_ParticipantsOrOverride(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.manager, f.quarterly(4))
	require.NoError(t, err)

	assessment := "Good quarter overall"
	feedback := performance.Feedback{SelfAssessment: &assessment}
	updated, err := f.svc.Update(f.self, performance.UpdateReviewRequest{ID: created.ID, Feedback: &feedback})
	require.NoError(t, err)
	require.NotNil(t, updated.Feedback.SelfAssessment)
	assert.Equal(t, assessment, *updated.Feedback.SelfAssessment)

	rating := 4.5
	updated, err = f.svc.Update(f.hr, performance.UpdateReviewRequest{ID: created.ID, OverallRating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4.5, updated.OverallRating)

	_, err = f.svc.Update(f.peer, performance.UpdateReviewRequest{ID: created.ID, OverallRating: &rating})
	assert.ErrorIs(t, err, performance.ErrReviewAccessDenied)

	tooHigh := 7.0
	_, err = f.svc.Update(f.manager, performance.UpdateReviewRequest{ID: created.ID, OverallRating: &tooHigh})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGetAndDelete(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.manager, f.quarterly(4))
	require.NoError(t, err)

	for _, ctx := range []context.Context{f.self, f.manager, f.hr} {
		_, err := f.svc.Get(ctx, created.ID)
		assert.NoError(t, err)
	}
	_, err = f.svc.Get(f.peer, created.ID)
	assert.ErrorIs(t, err, performance.ErrReviewAccessDenied)

	assert.ErrorIs(t, f.svc.Delete(f.manager, created.ID), user.ErrInsufficientPermissions)
	require.NoError(t, f.svc.Delete(f.hr, created.ID))
	_, err = f.svc.Get(f.admin, created.ID)
	assert.ErrorIs(t, err, performance.ErrReviewNotFound)
}

func TestListAndMyReviews(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.manager, f.quarterly(4))
	require.NoError(t, err)
	annual := f.quarterly(3)
	annual.PeriodEnd = "2025-12-31"
	annual.ReviewType = performance.ReviewAnnual
	_, err = f.svc.Create(f.hr, annual)
	require.NoError(t, err)

	_, err = f.svc.List(f.self, performance.ReviewFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	typ := string(performance.ReviewAnnual)
	list, err := f.svc.List(f.manager, performance.ReviewFilter{ReviewType: &typ})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)

	mine, err := f.svc.GetMyReviews(f.self, performance.MyReviewFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.TotalCount)
	assert.Equal(t, "2025-12-31", mine.Reviews[0].ReviewPeriod.EndDate)

	theirs, err := f.svc.GetMyReviews(f.peer, performance.MyReviewFilter{})
	require.NoError(t, err)
	assert.Empty(t, theirs.Reviews)
}

func TestGetStats_RatesFinishedReviewsOnly(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.Create(f.manager, f.quarterly(5))
	require.NoError(t, err)
	second := f.quarterly(2)
	second.PeriodStart, second.PeriodEnd = "2025-04-01", "2025-06-30"
	_, err = f.svc.Create(f.manager, second)
	require.NoError(t, err)

	_, err = f.svc.Submit(f.manager, first.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(f.manager, first.ID)
	require.NoError(t, err)

	_, err = f.svc.GetStats(f.manager)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	stats, err := f.svc.GetStats(f.hr)
	require.NoError(t, err)
	assert.Equal(t, 2025, stats.Year)
	assert.Equal(t, 1, stats.ByStatus[performance.StatusCompleted])
	assert.Equal(t, 1, stats.ByStatus[performance.StatusDraft])
	assert.Equal(t, 2, stats.ByType[performance.ReviewQuarterly])
	assert.Equal(t, 1, stats.Ratings.TotalReviews)
	assert.Equal(t, 5.0, stats.Ratings.AverageRating)
	assert.Equal(t, 1, stats.Ratings.HighPerformers)
	require.Len(t, stats.Monthly, 1)
	assert.Equal(t, 6, stats.Monthly[0].Month)
	assert.Equal(t, 2, stats.Monthly[0].Count)
}
