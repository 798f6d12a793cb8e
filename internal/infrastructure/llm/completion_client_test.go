package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"
)

func sseChunk(content, finishReason string) string {
	if finishReason != "" {
		return fmt.Sprintf(`{"choices":[{"delta":{},"finish_reason":"%s"}],"usage":{"prompt_tokens":5,"completion_tokens":3,"total_tokens":8}}`, finishReason)
	}
	return fmt.Sprintf(`{"choices":[{"delta":{"content":"%s"},"finish_reason":""}]}`, content)
}

func writeSSE(w http.ResponseWriter, payload string) {
	fmt.Fprintf(w, "data: %s\n\n", payload)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func newStreamClient(t *testing.T, upstream *httptest.Server) *CompletionClient {
	t.Helper()
	rc := resty.New()
	t.Cleanup(func() { _ = rc.Close() })
	return NewCompletionClient(rc, upstream.URL, "", 10*time.Second)
}

func TestStreamRelaysDeltasInOrder(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, sseChunk("А", ""))
		writeSSE(w, sseChunk("Б", ""))
		writeSSE(w, sseChunk("В", ""))
		writeSSE(w, sseChunk("", "stop"))
		writeSSE(w, "[DONE]")
	}))
	defer upstream.Close()

	client := newStreamClient(t, upstream)

	var deltas []string
	result, err := client.Stream(context.Background(), openai.ChatCompletionRequest{Model: "test-model"}, func(delta string) error {
		deltas = append(deltas, delta)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"А", "Б", "В"}, deltas)
	assert.Equal(t, "АБВ", result.Content)
	assert.Equal(t, "stop", result.FinishReason)
	assert.Equal(t, 5, result.Usage.PromptTokens)
	assert.Equal(t, 3, result.Usage.CompletionTokens)
}

func TestStreamEmptyContentStillCompletes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, sseChunk("", "stop"))
		writeSSE(w, "[DONE]")
	}))
	defer upstream.Close()

	client := newStreamClient(t, upstream)

	calls := 0
	result, err := client.Stream(context.Background(), openai.ChatCompletionRequest{Model: "test-model"}, func(string) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Zero(t, calls)
	assert.Empty(t, result.Content)
	assert.Equal(t, "stop", result.FinishReason)
}

// A provider failure right before the data channel closes must surface
// as an error even when the consumer is busy inside its delta callback
// at that moment; a truncated stream must never report success.
func TestStreamMidStreamFailureNeverReportsSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, sseChunk("А", ""))
		writeSSE(w, sseChunk("Б", ""))
		panic(http.ErrAbortHandler)
	}))
	defer upstream.Close()

	for i := 0; i < 25; i++ {
		client := newStreamClient(t, upstream)
		result, err := client.Stream(context.Background(), openai.ChatCompletionRequest{Model: "test-model"}, func(string) error {
			// slow consumer: the upstream failure lands while this
			// callback is still running
			time.Sleep(15 * time.Millisecond)
			return nil
		})

		require.Error(t, err, "iteration %d: truncated stream reported as success", i)
		assert.Nil(t, result)
	}
}

func TestStreamConsumerErrorAbortsStream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, sseChunk("А", ""))
		writeSSE(w, sseChunk("Б", ""))
		writeSSE(w, "[DONE]")
	}))
	defer upstream.Close()

	client := newStreamClient(t, upstream)

	result, err := client.Stream(context.Background(), openai.ChatCompletionRequest{Model: "test-model"}, func(string) error {
		return fmt.Errorf("client went away")
	})

	require.Error(t, err)
	assert.Nil(t, result)
}
