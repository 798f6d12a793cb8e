package dbschema

import (
	"time"

	"github.com/daosail/daosail-server/internal/domain/chat"
	"github.com/daosail/daosail-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(ChatSession{})
}

// ChatSession persists one conversation thread.
type ChatSession struct {
	ID             string    `gorm:"column:id;type:varchar(64);primaryKey"`
	UserID         string    `gorm:"type:varchar(255);not null;index:ix_chat_sessions_user_activity,priority:1"`
	Title          string    `gorm:"type:varchar(255);not null"`
	AssistantType  string    `gorm:"type:varchar(32);not null;default:'navigator'"`
	MessageCount   int       `gorm:"not null;default:0"`
	Status         string    `gorm:"type:varchar(16);not null;default:'active'"`
	LastActivityAt time.Time `gorm:"column:last_activity_at;not null;index:ix_chat_sessions_user_activity,priority:2,sort:desc"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// NewSchemaChatSession converts a domain session into a schema instance.
func NewSchemaChatSession(s *chat.Session) *ChatSession {
	if s == nil {
		return nil
	}

	return &ChatSession{
		ID:             s.ID,
		UserID:         s.UserID,
		Title:          s.Title,
		AssistantType:  s.AssistantType,
		MessageCount:   s.MessageCount,
		Status:         string(s.Status),
		LastActivityAt: s.LastActivityAt,
		CreatedAt:      s.CreatedAt,
	}
}

// EtoD converts a schema session back to the domain representation.
func (s *ChatSession) EtoD() *chat.Session {
	if s == nil {
		return nil
	}

	return &chat.Session{
		ID:             s.ID,
		UserID:         s.UserID,
		Title:          s.Title,
		AssistantType:  s.AssistantType,
		MessageCount:   s.MessageCount,
		Status:         chat.SessionStatus(s.Status),
		LastActivityAt: s.LastActivityAt,
		CreatedAt:      s.CreatedAt,
	}
}
