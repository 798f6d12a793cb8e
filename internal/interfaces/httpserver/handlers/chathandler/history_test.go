package chathandler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daosail/daosail-server/internal/domain/assistant"
	"github.com/daosail/daosail-server/internal/domain/chat"
	chatrequests "github.com/daosail/daosail-server/internal/interfaces/httpserver/requests/chat"
)

func TestHistoryFromRequestFiltersRoles(t *testing.T) {
	in := []chatrequests.HistoryMessage{
		{Role: "user", Content: "что такое галс?"},
		{Role: "system", Content: "should be dropped"},
		{Role: "assistant", Content: "курс судна относительно ветра"},
		{Role: "tool", Content: "should be dropped"},
	}

	out := historyFromRequest(in)

	assert.Len(t, out, 2)
	assert.Equal(t, assistant.RoleUser, out[0].Role)
	assert.Equal(t, assistant.RoleAssistant, out[1].Role)
}

func TestHistoryFromRequestKeepsMostRecentTurns(t *testing.T) {
	in := make([]chatrequests.HistoryMessage, 0, historyMaxTurns+5)
	for i := 0; i < historyMaxTurns+5; i++ {
		in = append(in, chatrequests.HistoryMessage{Role: "user", Content: fmt.Sprintf("вопрос %d", i)})
	}

	out := historyFromRequest(in)

	assert.Len(t, out, historyMaxTurns)
	assert.Equal(t, "вопрос 5", out[0].Content)
	assert.Equal(t, fmt.Sprintf("вопрос %d", historyMaxTurns+4), out[len(out)-1].Content)
}

func TestHistoryFromLogFiltersRoles(t *testing.T) {
	in := []chat.Message{
		{Role: "user", Content: "вопрос"},
		{Role: "system", Content: "dropped"},
		{Role: "assistant", Content: "ответ"},
	}

	out := historyFromLog(in)

	assert.Len(t, out, 2)
	assert.Equal(t, "вопрос", out[0].Content)
	assert.Equal(t, "ответ", out[1].Content)
}

func TestClampContent(t *testing.T) {
	t.Run("short content passes through", func(t *testing.T) {
		assert.Equal(t, "как вступить в клуб?", clampContent("как вступить в клуб?"))
	})

	t.Run("long content is truncated with marker", func(t *testing.T) {
		long := strings.Repeat("я", historyMaxMessageLen+100)
		out := clampContent(long)

		assert.True(t, strings.HasSuffix(out, historyTruncationMark))
		assert.Equal(t, historyMaxMessageLen, len([]rune(strings.TrimSuffix(out, historyTruncationMark))))
	})

	t.Run("boundary length untouched", func(t *testing.T) {
		exact := strings.Repeat("a", historyMaxMessageLen)
		assert.Equal(t, exact, clampContent(exact))
	})
}
