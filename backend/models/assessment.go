package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeShortAnswer    = "short_answer"
	QuestionTypeCode           = "code"
)

// DefaultPassingScore applies when an assessment row has no threshold set.
const DefaultPassingScore = 70

type Assessment struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID         string    `gorm:"type:uuid;index;not null" json:"course_id"`
	Title            string    `gorm:"not null" json:"title"`
	Description      string    `json:"description"`
	PassingScore     int       `gorm:"default:70" json:"passing_score"`
	TimeLimitMinutes int       `json:"time_limit_minutes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type QuizQuestion struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	AssessmentID  string    `gorm:"type:uuid;index;not null" json:"assessment_id"`
	QuestionText  string    `gorm:"not null" json:"question_text"`
	QuestionType  string    `gorm:"default:multiple_choice" json:"question_type"` // multiple_choice, short_answer, code
	SequenceOrder int       `json:"order"`
	CreatedAt     time.Time `json:"created_at"`
}

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

type QuizOption struct {
	ID            string `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID    string `gorm:"type:uuid;index;not null" json:"question_id"`
	OptionText    string `gorm:"not null" json:"option_text"`
	IsCorrect     bool   `gorm:"default:false" json:"is_correct"`
	SequenceOrder int    `json:"order"`
}

func (o *QuizOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// AssessmentResult rows are append-only: one per submission, never updated.
type AssessmentResult struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string    `gorm:"type:uuid;index;not null" json:"user_id"`
	AssessmentID     string    `gorm:"type:uuid;index;not null" json:"assessment_id"`
	Score            int       `json:"score"`
	TotalPoints      int       `json:"total_points"`
	Passed           bool      `json:"passed"`
	TimeSpentMinutes int       `json:"time_spent_minutes"`
	CompletedAt      time.Time `json:"completed_at"`
}

func (r *AssessmentResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now()
	}
	return nil
}
