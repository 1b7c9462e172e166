package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationCourseUpdate     = "course_update"
	NotificationAssessmentResult = "assessment_result"
	NotificationAchievement      = "achievement"
	NotificationMessage          = "message"
)

type Notification struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index;not null" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"` // course_update, assessment_result, achievement, message
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	RelatedID string    `json:"related_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
