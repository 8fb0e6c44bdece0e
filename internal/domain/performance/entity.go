package performance

import "time"

type Status string

const (
	StatusDraft        Status = "draft"
	StatusInReview     Status = "in-review"
	StatusCompleted    Status = "completed"
	StatusAcknowledged Status = "acknowledged"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusCompleted, StatusAcknowledged:
		return true
	}
	return false
}

type ReviewType string

const (
	ReviewQuarterly    ReviewType = "quarterly"
	ReviewSemiAnnual   ReviewType = "semi-annual"
	ReviewAnnual       ReviewType = "annual"
	ReviewProbation    ReviewType = "probation"
	ReviewProjectBased ReviewType = "project-based"
)

func (t ReviewType) IsValid() bool {
	switch t {
	case ReviewQuarterly, ReviewSemiAnnual, ReviewAnnual, ReviewProbation, ReviewProjectBased:
		return true
	}
	return false
}

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not-started"
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
	GoalOverdue    GoalStatus = "overdue"
	GoalCancelled  GoalStatus = "cancelled"
)

func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalNotStarted, GoalInProgress, GoalCompleted, GoalOverdue, GoalCancelled:
		return true
	}
	return false
}

type CompetencyCategory string

const (
	CategoryTechnical     CompetencyCategory = "technical"
	CategoryBehavioral    CompetencyCategory = "behavioral"
	CategoryLeadership    CompetencyCategory = "leadership"
	CategoryCommunication CompetencyCategory = "communication"
)

func (c CompetencyCategory) IsValid() bool {
	switch c {
	case CategoryTechnical, CategoryBehavioral, CategoryLeadership, CategoryCommunication:
		return true
	}
	return false
}

type PlanStatus string

const (
	PlanPlanned    PlanStatus = "planned"
	PlanInProgress PlanStatus = "in-progress"
	PlanCompleted  PlanStatus = "completed"
	PlanCancelled  PlanStatus = "cancelled"
)

const DefaultGoalWeight = 20.0

type Goal struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	TargetDate  *string    `json:"target_date,omitempty"`
	Status      GoalStatus `json:"status"`
	Weight      float64    `json:"weight"`
	Achievement float64    `json:"achievement"`
	Comments    *string    `json:"comments,omitempty"`
}

type Competency struct {
	Name     string             `json:"name"`
	Category CompetencyCategory `json:"category"`
	Rating   float64            `json:"rating"`
	Comments *string            `json:"comments,omitempty"`
}

type PlanItem struct {
	Action    string     `json:"action"`
	Timeline  *string    `json:"timeline,omitempty"`
	Resources *string    `json:"resources,omitempty"`
	Status    PlanStatus `json:"status"`
}

type Feedback struct {
	SelfAssessment   *string `json:"self_assessment,omitempty"`
	ManagerComments  *string `json:"manager_comments,omitempty"`
	EmployeeComments *string `json:"employee_comments,omitempty"`
}

type Review struct {
	ID                  string
	EmployeeID          string
	ReviewerID          string
	PeriodStart         time.Time
	PeriodEnd           time.Time
	Type                ReviewType
	Goals               []Goal
	Competencies        []Competency
	OverallRating       float64
	Strengths           []string
	AreasForImprovement []string
	DevelopmentPlan     []PlanItem
	Feedback            Feedback
	Status              Status
	SubmittedDate       *time.Time
	AcknowledgedDate    *time.Time
	NextReviewDate      *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Join
	EmployeeCode   *string
	EmployeeName   *string
	DepartmentName *string
	ReviewerName   *string
}

type RatingSummary struct {
	AverageRating  float64 `json:"average_rating"`
	TotalReviews   int     `json:"total_reviews"`
	HighPerformers int     `json:"high_performers"`
	LowPerformers  int     `json:"low_performers"`
}

type MonthSummary struct {
	Month         int     `json:"month"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}
