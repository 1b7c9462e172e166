package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Course struct {
	ID                     string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title                  string         `gorm:"not null" json:"title"`
	Description            string         `json:"description"`
	Level                  string         `gorm:"not null" json:"level"` // beginner, intermediate, advanced
	Category               string         `json:"category"`
	InstructorID           string         `gorm:"type:uuid" json:"instructor_id"`
	TotalLessons           int            `json:"total_lessons"`
	EstimatedDurationHours int            `json:"estimated_duration_hours"`
	IsPublished            bool           `gorm:"default:false" json:"is_published"`
	Lessons                []Lesson       `json:"lessons,omitempty"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Lesson struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID      string         `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_course_order" json:"course_id"`
	Title         string         `gorm:"not null" json:"title"`
	Content       string         `json:"content"`
	SequenceOrder int            `gorm:"uniqueIndex:idx_lesson_course_order" json:"order"`
	VideoURL      string         `json:"video_url,omitempty"`
	Resources     datatypes.JSON `json:"resources,omitempty"` // []string of resource links
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
