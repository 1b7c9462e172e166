package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomMember is one entry of the denormalized members array on a room.
type RoomMember struct {
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type CollaborationRoom struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Topic     string         `json:"topic"`
	CreatedBy string         `gorm:"type:uuid;index;not null" json:"created_by"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	Members   datatypes.JSON `json:"members"` // []RoomMember
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (r *CollaborationRoom) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type CollaborationSession struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID   string    `gorm:"type:uuid;index;not null" json:"room_id"`
	UserID   string    `gorm:"type:uuid;index;not null" json:"user_id"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
	JoinedAt time.Time `json:"joined_at"`
}

func (s *CollaborationSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.JoinedAt.IsZero() {
		s.JoinedAt = time.Now()
	}
	return nil
}
