package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserProgress struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string    `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"user_id"`
	CourseID           string    `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"course_id"`
	LessonsCompleted   int       `json:"lessons_completed"`
	TotalLessons       int       `json:"total_lessons"`
	ProgressPercentage int       `json:"progress_percentage"` // round(completed/total*100)
	LastAccessedAt     time.Time `json:"last_accessed_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// GamificationStats is written by external award processes; this service
// only reads it and seeds a zero row at registration.
type GamificationStats struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	TotalPoints   int       `json:"total_points"`
	TotalBadges   int       `json:"total_badges"`
	CurrentStreak int       `json:"current_streak"`
	Level         int       `gorm:"default:1" json:"level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (g *GamificationStats) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
