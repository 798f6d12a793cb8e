package chatrequests

// HistoryMessage is one prior turn supplied by the client for sessionless
// conversations. Session-backed turns load history from the message log
// instead.
type HistoryMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is the body of both the batch and streaming chat endpoints.
// FilesContext carries the text of files the client attached to the turn;
// it is appended to the system prompt, not to the message history.
type ChatRequest struct {
	Message       string           `json:"message" binding:"required"`
	AssistantType string           `json:"assistantType"`
	SessionID     string           `json:"sessionId"`
	Language      string           `json:"language" binding:"omitempty,oneof=ru en"`
	History       []HistoryMessage `json:"history" binding:"omitempty,max=50,dive"`
	FilesContext  string           `json:"filesContext" binding:"omitempty,max=100000"`
}

// CaptureEmailRequest extends the guest allowance in exchange for an email.
type CaptureEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SearchRequest is the body of the explicit knowledge search endpoint.
type SearchRequest struct {
	Query      string  `json:"query" binding:"required"`
	Category   string  `json:"category"`
	Language   string  `json:"language" binding:"omitempty,oneof=ru en"`
	MaxResults int     `json:"maxResults" binding:"omitempty,min=1,max=20"`
	Threshold  float64 `json:"threshold" binding:"omitempty,gt=0,lte=1"`
}
