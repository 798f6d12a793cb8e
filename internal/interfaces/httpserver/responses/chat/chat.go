package chatresponses

import (
	"time"

	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/infrastructure/llm"
)

// MessageMetadata is attached to every assistant message the API returns.
type MessageMetadata struct {
	UserRole            string `json:"userRole"`
	KnowledgeChunksUsed int    `json:"knowledgeChunksUsed"`
	AccessLevel         string `json:"accessLevel"`
	IsGuest             bool   `json:"isGuest"`
}

// AssistantMessage is the completed assistant turn.
type AssistantMessage struct {
	Role          string               `json:"role"`
	Content       string               `json:"content"`
	Timestamp     time.Time            `json:"timestamp"`
	Model         string               `json:"model"`
	AssistantType string               `json:"assistantType"`
	Citations     []knowledge.Citation `json:"citations,omitempty"`
	Metadata      MessageMetadata      `json:"metadata"`
}

// ChatResponse is the batch (non-streaming) chat reply.
type ChatResponse struct {
	Message             AssistantMessage `json:"message"`
	Usage               llm.TokenUsage   `json:"usage"`
	KnowledgeChunksUsed int              `json:"knowledgeChunksUsed"`
	UserRole            string           `json:"userRole"`
	IsGuest             bool             `json:"isGuest"`
	SessionID           string           `json:"sessionId,omitempty"`
}

// Stream frame types. Every SSE data payload carries a Type discriminator.
const (
	FrameMetadata = "metadata"
	FrameContent  = "content"
	FrameFinish   = "finish"
	FrameError    = "error"
)

// MetadataFrame opens the stream before any model output.
type MetadataFrame struct {
	Type                string    `json:"type"`
	AssistantType       string    `json:"assistantType"`
	UserRole            string    `json:"userRole"`
	KnowledgeChunksUsed int       `json:"knowledgeChunksUsed"`
	IsGuest             bool      `json:"isGuest"`
	SessionID           string    `json:"sessionId,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
}

// ContentFrame carries one model delta plus the accumulated text.
type ContentFrame struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	FullContent string `json:"fullContent"`
}

// FinishFrame closes a successful stream.
type FinishFrame struct {
	Type        string           `json:"type"`
	Reason      string           `json:"reason"`
	FullContent string           `json:"fullContent"`
	Message     AssistantMessage `json:"message"`
}

// ErrorFrame closes a failed stream.
type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
