// Package chat owns chat sessions and their message logs, plus the
// post-turn side-effect pipeline.
package chat

import (
	"context"
	"time"

	"github.com/daosail/daosail-server/internal/domain/knowledge"
)

// SessionStatus is the lifecycle state of a session. Deletion is a
// status change; rows are purged later by the background sweep.
type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionArchived SessionStatus = "archived"
	SessionDeleted  SessionStatus = "deleted"
)

// Session is one chat thread. Guest sessions carry no user id.
type Session struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id,omitempty"`
	Title          string        `json:"title"`
	AssistantType  string        `json:"assistant_type"`
	MessageCount   int           `json:"message_count"`
	Status         SessionStatus `json:"status"`
	LastActivityAt time.Time     `json:"last_activity_at"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Message is one turn in a session. Immutable after insert.
type Message struct {
	ID            string               `json:"id"`
	SessionID     string               `json:"session_id"`
	Role          string               `json:"role"`
	Content       string               `json:"content"`
	AssistantType string               `json:"assistant_type,omitempty"`
	ModelID       string               `json:"model,omitempty"`
	Citations     []knowledge.Citation `json:"citations,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// SessionRepository persists sessions. TouchActivity must bump the
// message count atomically at the data layer.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	ListByUser(ctx context.Context, userID string) ([]Session, error)
	UpdateTitle(ctx context.Context, id, title string) error
	UpdateStatus(ctx context.Context, id string, status SessionStatus) error
	TouchActivity(ctx context.Context, id string, messageDelta int, at time.Time) error
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error)
}

// MessageRepository persists messages.
type MessageRepository interface {
	Insert(ctx context.Context, m *Message) error
	ListBySession(ctx context.Context, sessionID string) ([]Message, error)
}

// Export is the serialized form of a session download.
type Export struct {
	Session  Session   `json:"session"`
	Messages []Message `json:"messages"`
	Exported time.Time `json:"exported_at"`
}
