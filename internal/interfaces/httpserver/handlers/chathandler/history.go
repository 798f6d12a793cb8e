package chathandler

import (
	"github.com/daosail/daosail-server/internal/domain/assistant"
	"github.com/daosail/daosail-server/internal/domain/chat"
	chatrequests "github.com/daosail/daosail-server/internal/interfaces/httpserver/requests/chat"
)

// History limits keep the prompt within the model's context window. The
// per-message cap guards against a single pasted wall of text crowding
// out the system prompt.
const (
	historyMaxTurns       = 10
	historyMaxMessageLen  = 4000
	historyTruncationMark = "\n[...]"
)

// historyFromLog converts persisted session messages into prompt turns,
// keeping only the most recent ones.
func historyFromLog(messages []chat.Message) []assistant.Message {
	out := make([]assistant.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role != assistant.RoleUser && m.Role != assistant.RoleAssistant {
			continue
		}
		out = append(out, assistant.Message{Role: m.Role, Content: clampContent(m.Content)})
	}
	return lastTurns(out, historyMaxTurns)
}

// historyFromRequest converts client-supplied history for sessionless
// (guest) conversations.
func historyFromRequest(messages []chatrequests.HistoryMessage) []assistant.Message {
	out := make([]assistant.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role != assistant.RoleUser && m.Role != assistant.RoleAssistant {
			continue
		}
		out = append(out, assistant.Message{Role: m.Role, Content: clampContent(m.Content)})
	}
	return lastTurns(out, historyMaxTurns)
}

func lastTurns(messages []assistant.Message, max int) []assistant.Message {
	if len(messages) <= max {
		return messages
	}
	return messages[len(messages)-max:]
}

func clampContent(content string) string {
	runes := []rune(content)
	if len(runes) <= historyMaxMessageLen {
		return content
	}
	return string(runes[:historyMaxMessageLen]) + historyTruncationMark
}
