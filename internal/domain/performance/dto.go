package performance

import (
	"fmt"
	"strings"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

// ========================================
// COMMAND DTOs
// ========================================

type CreateReviewRequest struct {
	EmployeeID          string       `json:"employee_id"`
	PeriodStart         string       `json:"period_start"`
	PeriodEnd           string       `json:"period_end"`
	ReviewType          ReviewType   `json:"review_type"`
	Goals               []Goal       `json:"goals"`
	Competencies        []Competency `json:"competencies"`
	OverallRating       float64      `json:"overall_rating"`
	Strengths           []string     `json:"strengths"`
	AreasForImprovement []string     `json:"areas_for_improvement"`
	DevelopmentPlan     []PlanItem   `json:"development_plan"`
	Feedback            Feedback     `json:"feedback"`
	NextReviewDate      *string      `json:"next_review_date,omitempty"`

	start time.Time
	end   time.Time
}

func (r *CreateReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	var startOK, endOK bool
	if r.start, startOK = validator.IsValidDate(r.PeriodStart); !startOK {
		errs.Add("period_start", "period_start is required in YYYY-MM-DD format")
	}
	if r.end, endOK = validator.IsValidDate(r.PeriodEnd); !endOK {
		errs.Add("period_end", "period_end is required in YYYY-MM-DD format")
	}
	if startOK && endOK && r.end.Before(r.start) {
		errs.Add("period_end", "period_end must not be before period_start")
	}
	if !r.ReviewType.IsValid() {
		errs.Add("review_type", "review_type must be one of: quarterly, semi-annual, annual, probation, project-based")
	}
	validateRating(&errs, r.OverallRating)
	validateGoals(&errs, r.Goals)
	validateCompetencies(&errs, r.Competencies)
	validatePlan(&errs, r.DevelopmentPlan)
	validateOptionalDate(&errs, "next_review_date", r.NextReviewDate)

	return errs.Err()
}

// ToReview builds a draft review by reviewerID. Validate must have succeeded first.
func (r CreateReviewRequest) ToReview(reviewerID string) Review {
	return Review{
		EmployeeID:          r.EmployeeID,
		ReviewerID:          reviewerID,
		PeriodStart:         r.start,
		PeriodEnd:           r.end,
		Type:                r.ReviewType,
		Goals:               r.Goals,
		Competencies:        r.Competencies,
		OverallRating:       r.OverallRating,
		Strengths:           r.Strengths,
		AreasForImprovement: r.AreasForImprovement,
		DevelopmentPlan:     r.DevelopmentPlan,
		Feedback:            r.Feedback,
		Status:              StatusDraft,
		NextReviewDate:      parseDate(r.NextReviewDate),
	}
}

type UpdateReviewRequest struct {
	ID                  string        `json:"-"`
	Goals               *[]Goal       `json:"goals,omitempty"`
	Competencies        *[]Competency `json:"competencies,omitempty"`
	OverallRating       *float64      `json:"overall_rating,omitempty"`
	Strengths           *[]string     `json:"strengths,omitempty"`
	AreasForImprovement *[]string     `json:"areas_for_improvement,omitempty"`
	DevelopmentPlan     *[]PlanItem   `json:"development_plan,omitempty"`
	Feedback            *Feedback     `json:"feedback,omitempty"`
	NextReviewDate      *string       `json:"next_review_date,omitempty"`
}

func (r *UpdateReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.OverallRating != nil {
		validateRating(&errs, *r.OverallRating)
	}
	if r.Goals != nil {
		validateGoals(&errs, *r.Goals)
	}
	if r.Competencies != nil {
		validateCompetencies(&errs, *r.Competencies)
	}
	if r.DevelopmentPlan != nil {
		validatePlan(&errs, *r.DevelopmentPlan)
	}
	validateOptionalDate(&errs, "next_review_date", r.NextReviewDate)

	return errs.Err()
}

func (r *UpdateReviewRequest) Apply(rv *Review) {
	if r.Goals != nil {
		rv.Goals = *r.Goals
	}
	if r.Competencies != nil {
		rv.Competencies = *r.Competencies
	}
	if r.OverallRating != nil {
		rv.OverallRating = *r.OverallRating
	}
	if r.Strengths != nil {
		rv.Strengths = *r.Strengths
	}
	if r.AreasForImprovement != nil {
		rv.AreasForImprovement = *r.AreasForImprovement
	}
	if r.DevelopmentPlan != nil {
		rv.DevelopmentPlan = *r.DevelopmentPlan
	}
	if r.Feedback != nil {
		rv.Feedback = *r.Feedback
	}
	if r.NextReviewDate != nil {
		rv.NextReviewDate = parseDate(r.NextReviewDate)
	}
}

type AcknowledgeReviewRequest struct {
	ID               string  `json:"-"`
	EmployeeComments *string `json:"employee_comments,omitempty"`
}

func (r *AcknowledgeReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.EmployeeComments != nil && len(*r.EmployeeComments) > 2000 {
		errs.Add("employee_comments", "employee_comments must not exceed 2000 characters")
	}

	return errs.Err()
}

func validateRating(errs *validator.ValidationErrors, rating float64) {
	if rating < 1 || rating > 5 {
		errs.Add("overall_rating", "overall_rating must be between 1 and 5")
	}
}

// validateGoals also fills defaults: status not-started and weight 20.
func validateGoals(errs *validator.ValidationErrors, goals []Goal) {
	for i := range goals {
		g := &goals[i]
		field := fmt.Sprintf("goals[%d]", i)
		g.Title = strings.TrimSpace(g.Title)
		if g.Title == "" {
			errs.Add(field+".title", "goal title is required")
		}
		if g.Status == "" {
			g.Status = GoalNotStarted
		} else if !g.Status.IsValid() {
			errs.Add(field+".status", "goal status must be one of: not-started, in-progress, completed, overdue, cancelled")
		}
		if g.Weight == 0 {
			g.Weight = DefaultGoalWeight
		}
		if g.Weight < 0 || g.Weight > 100 {
			errs.Add(field+".weight", "goal weight must be between 0 and 100")
		}
		if g.Achievement < 0 || g.Achievement > 100 {
			errs.Add(field+".achievement", "goal achievement must be between 0 and 100")
		}
		validateOptionalDate(errs, field+".target_date", g.TargetDate)
	}
}

func validateCompetencies(errs *validator.ValidationErrors, competencies []Competency) {
	for i := range competencies {
		c := &competencies[i]
		field := fmt.Sprintf("competencies[%d]", i)
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			errs.Add(field+".name", "competency name is required")
		}
		if !c.Category.IsValid() {
			errs.Add(field+".category", "competency category must be one of: technical, behavioral, leadership, communication")
		}
		if c.Rating < 1 || c.Rating > 5 {
			errs.Add(field+".rating", "competency rating must be between 1 and 5")
		}
	}
}

func validatePlan(errs *validator.ValidationErrors, plan []PlanItem) {
	for i := range plan {
		p := &plan[i]
		field := fmt.Sprintf("development_plan[%d]", i)
		p.Action = strings.TrimSpace(p.Action)
		if p.Action == "" {
			errs.Add(field+".action", "plan action is required")
		}
		if p.Status == "" {
			p.Status = PlanPlanned
		} else if !validator.IsInSlice(string(p.Status), []string{string(PlanPlanned), string(PlanInProgress), string(PlanCompleted), string(PlanCancelled)}) {
			errs.Add(field+".status", "plan status must be one of: planned, in-progress, completed, cancelled")
		}
	}
}

func validateOptionalDate(errs *validator.ValidationErrors, field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if _, ok := validator.IsValidDate(*value); !ok {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
	}
}

func parseDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, ok := validator.IsValidDate(*value)
	if !ok {
		return nil
	}
	return &t
}

// ========================================
// QUERY DTOs
// ========================================

type ReviewFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	ReviewerID *string `json:"reviewer_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	ReviewType *string `json:"review_type,omitempty"`

	pagination.Params
}

func (f *ReviewFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Params.Normalize(&errs)
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: draft, in-review, completed, acknowledged")
	}
	if f.ReviewType != nil && !ReviewType(*f.ReviewType).IsValid() {
		errs.Add("review_type", "review_type must be one of: quarterly, semi-annual, annual, probation, project-based")
	}

	return errs.Err()
}

type MyReviewFilter struct {
	Status *string `json:"status,omitempty"`

	pagination.Params
}

func (f *MyReviewFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Params.Normalize(&errs)
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: draft, in-review, completed, acknowledged")
	}

	return errs.Err()
}

// ========================================
// RESPONSE DTOs
// ========================================

type ReviewPeriodResponse struct {
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Type      ReviewType `json:"type"`
}

type ReviewResponse struct {
	ID                      string               `json:"id"`
	EmployeeID              string               `json:"employee_id"`
	EmployeeCode            *string              `json:"employee_code,omitempty"`
	EmployeeName            *string              `json:"employee_name,omitempty"`
	DepartmentName          *string              `json:"department_name,omitempty"`
	ReviewerID              string               `json:"reviewer_id"`
	ReviewerName            *string              `json:"reviewer_name,omitempty"`
	ReviewPeriod            ReviewPeriodResponse `json:"review_period"`
	Goals                   []Goal               `json:"goals"`
	Competencies            []Competency         `json:"competencies"`
	OverallRating           float64              `json:"overall_rating"`
	GoalAchievement         float64              `json:"goal_achievement"`
	AverageCompetencyRating float64              `json:"average_competency_rating"`
	Strengths               []string             `json:"strengths"`
	AreasForImprovement     []string             `json:"areas_for_improvement"`
	DevelopmentPlan         []PlanItem           `json:"development_plan"`
	Feedback                Feedback             `json:"feedback"`
	Status                  Status               `json:"status"`
	SubmittedDate           *string              `json:"submitted_date,omitempty"`
	AcknowledgedDate        *string              `json:"acknowledged_date,omitempty"`
	NextReviewDate          *string              `json:"next_review_date,omitempty"`
	CreatedAt               string               `json:"created_at"`
	UpdatedAt               string               `json:"updated_at"`
}

func NewReviewResponse(r Review) ReviewResponse {
	return ReviewResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeCode:   r.EmployeeCode,
		EmployeeName:   r.EmployeeName,
		DepartmentName: r.DepartmentName,
		ReviewerID:     r.ReviewerID,
		ReviewerName:   r.ReviewerName,
		ReviewPeriod: ReviewPeriodResponse{
			StartDate: r.PeriodStart.Format(time.DateOnly),
			EndDate:   r.PeriodEnd.Format(time.DateOnly),
			Type:      r.Type,
		},
		Goals:                   nonNil(r.Goals),
		Competencies:            nonNil(r.Competencies),
		OverallRating:           r.OverallRating,
		GoalAchievement:         r.GoalAchievement(),
		AverageCompetencyRating: r.AverageCompetencyRating(),
		Strengths:               nonNil(r.Strengths),
		AreasForImprovement:     nonNil(r.AreasForImprovement),
		DevelopmentPlan:         nonNil(r.DevelopmentPlan),
		Feedback:                r.Feedback,
		Status:                  r.Status,
		SubmittedDate:           formatTime(r.SubmittedDate, time.RFC3339),
		AcknowledgedDate:        formatTime(r.AcknowledgedDate, time.RFC3339),
		NextReviewDate:          formatTime(r.NextReviewDate, time.DateOnly),
		CreatedAt:               r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               r.UpdatedAt.Format(time.RFC3339),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

type ListReviewResponse struct {
	pagination.Info
	Reviews []ReviewResponse `json:"reviews"`
}

type StatsResponse struct {
	Year     int                `json:"year"`
	ByStatus map[Status]int     `json:"by_status"`
	ByType   map[ReviewType]int `json:"by_type"`
	Ratings  RatingSummary      `json:"ratings"`
	Monthly  []MonthSummary     `json:"monthly"`
}
