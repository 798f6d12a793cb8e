package dbschema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/daosail/daosail-server/internal/domain/chat"
	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(ChatMessage{})
}

// ChatMessage persists one turn message. Citations are stored as a
// jsonb array next to assistant messages.
type ChatMessage struct {
	ID            string         `gorm:"column:id;type:varchar(64);primaryKey"`
	SessionID     string         `gorm:"type:varchar(64);not null;index:ix_chat_messages_session_created,priority:1"`
	Role          string         `gorm:"type:varchar(16);not null"`
	Content       string         `gorm:"type:text;not null"`
	AssistantType *string        `gorm:"type:varchar(32)"`
	ModelID       *string        `gorm:"type:varchar(64)"`
	Citations     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null;index:ix_chat_messages_session_created,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// NewSchemaChatMessage converts a domain message into a schema instance.
func NewSchemaChatMessage(m *chat.Message) (*ChatMessage, error) {
	if m == nil {
		return nil, nil
	}

	out := &ChatMessage{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.AssistantType != "" {
		at := m.AssistantType
		out.AssistantType = &at
	}
	if m.ModelID != "" {
		mid := m.ModelID
		out.ModelID = &mid
	}
	if len(m.Citations) > 0 {
		data, err := json.Marshal(m.Citations)
		if err != nil {
			return nil, err
		}
		out.Citations = datatypes.JSON(data)
	}
	return out, nil
}

// EtoD converts a schema message back to the domain representation.
func (m *ChatMessage) EtoD() (*chat.Message, error) {
	if m == nil {
		return nil, nil
	}

	out := &chat.Message{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.AssistantType != nil {
		out.AssistantType = *m.AssistantType
	}
	if m.ModelID != nil {
		out.ModelID = *m.ModelID
	}
	if len(m.Citations) > 0 {
		var citations []knowledge.Citation
		if err := json.Unmarshal(m.Citations, &citations); err != nil {
			return nil, err
		}
		out.Citations = citations
	}
	return out, nil
}
