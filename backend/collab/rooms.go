// Package collab manages study-group rooms and their membership lists.
package collab

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"cloudmentor/backend/apperr"
	"cloudmentor/backend/models"
	"cloudmentor/backend/store"
)

const defaultTopic = "AWS Study Group"

type Manager struct {
	rooms    *store.Collection[models.CollaborationRoom]
	sessions *store.Collection[models.CollaborationSession]
	users    *store.Collection[models.User]
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		rooms:    store.NewCollection[models.CollaborationRoom](db, "collaboration_rooms"),
		sessions: store.NewCollection[models.CollaborationSession](db, "collaboration_sessions"),
		users:    store.NewCollection[models.User](db, "users"),
	}
}

// CreateRoom inserts the room and the creator's session row. The two
// writes are not atomic; if the session insert fails the room is
// compensated with a best-effort delete so no orphaned room remains.
func (m *Manager) CreateRoom(ctx context.Context, userID, title string) (models.CollaborationRoom, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.CollaborationRoom{}, &apperr.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	members, _ := json.Marshal([]models.RoomMember{{UserID: userID, JoinedAt: time.Now()}})
	room := models.CollaborationRoom{
		Title:     title,
		Topic:     defaultTopic,
		CreatedBy: userID,
		IsActive:  true,
		Members:   members,
	}
	if err := m.rooms.Create(ctx, &room); err != nil {
		return models.CollaborationRoom{}, err
	}

	session := models.CollaborationSession{RoomID: room.ID, UserID: userID, IsActive: true}
	if err := m.sessions.Create(ctx, &session); err != nil {
		_ = m.rooms.Delete(ctx, store.Filter{"id": room.ID})
		return models.CollaborationRoom{}, err
	}

	return room, nil
}

// InviteByEmail appends the matching user to the room's member list.
// An email with no matching user is a silent no-op.
func (m *Manager) InviteByEmail(ctx context.Context, roomID, email string) error {
	invited, err := m.users.Get(ctx, store.Filter{"email": email})
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	room, err := m.rooms.Get(ctx, store.Filter{"id": roomID})
	if err != nil {
		return err
	}

	var members []models.RoomMember
	if len(room.Members) > 0 {
		if err := json.Unmarshal(room.Members, &members); err != nil {
			return err
		}
	}
	members = append(members, models.RoomMember{UserID: invited.ID, JoinedAt: time.Now()})

	raw, err := json.Marshal(members)
	if err != nil {
		return err
	}
	_, err = m.rooms.Update(ctx, store.Filter{"id": roomID}, map[string]interface{}{"members": raw})
	return err
}

// ListRooms returns rooms the user created plus rooms with an active
// session for the user, deduplicated, newest first.
func (m *Manager) ListRooms(ctx context.Context, userID string) ([]models.CollaborationRoom, error) {
	created, err := m.rooms.Query(ctx, store.Filter{"created_by": userID},
		&store.Order{Field: "created_at", Descending: true})
	if err != nil {
		return nil, err
	}

	sessions, err := m.sessions.Query(ctx,
		store.Filter{"user_id": userID, "is_active": true}, nil)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	rooms := []models.CollaborationRoom{}
	for _, r := range created {
		seen[r.ID] = true
		rooms = append(rooms, r)
	}
	for _, s := range sessions {
		if seen[s.RoomID] {
			continue
		}
		room, err := m.rooms.Get(ctx, store.Filter{"id": s.RoomID})
		if err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		seen[room.ID] = true
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (m *Manager) Members(ctx context.Context, roomID string) ([]models.RoomMember, error) {
	room, err := m.rooms.Get(ctx, store.Filter{"id": roomID})
	if err != nil {
		return nil, err
	}
	members := []models.RoomMember{}
	if len(room.Members) > 0 {
		if err := json.Unmarshal(room.Members, &members); err != nil {
			return nil, err
		}
	}
	return members, nil
}
