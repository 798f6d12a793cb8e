package chathandler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/domain"
	"github.com/daosail/daosail-server/internal/domain/chat"
	"github.com/daosail/daosail-server/internal/domain/guest"
	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/infrastructure/llm"
)

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

type fakeSearcher struct{}

func (fakeSearcher) MatchChunks(context.Context, knowledge.ChunkQuery) ([]knowledge.ChunkMatch, error) {
	return nil, nil
}

func (fakeSearcher) SearchDocumentsByRole(context.Context, knowledge.DocumentQuery) ([]knowledge.Document, error) {
	return nil, nil
}

type fakeGuestRepo struct {
	mu    sync.Mutex
	usage guest.Usage
}

func (r *fakeGuestRepo) GetOrCreate(_ context.Context, guestID string) (*guest.Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage.GuestID = guestID
	if r.usage.State == "" {
		r.usage.State = guest.StateInitial
	}
	u := r.usage
	return &u, nil
}

func (r *fakeGuestRepo) IncrementResponses(_ context.Context, guestID string) (*guest.Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage.GuestID = guestID
	r.usage.ResponsesUsed++
	u := r.usage
	return &u, nil
}

func (r *fakeGuestRepo) SetEmail(_ context.Context, guestID, email string) (*guest.Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage.Email = email
	r.usage.State = guest.StateEmailCaptured
	u := r.usage
	return &u, nil
}

func (r *fakeGuestRepo) SetState(_ context.Context, _ string, state guest.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage.State = state
	return nil
}

type fakeLeadStore struct{}

func (fakeLeadStore) InsertLead(context.Context, string, string) error { return nil }

type stubSessionRepo struct{}

func (stubSessionRepo) Create(context.Context, *chat.Session) error { return nil }
func (stubSessionRepo) GetByID(context.Context, string) (*chat.Session, error) {
	return nil, fmt.Errorf("not found")
}
func (stubSessionRepo) ListByUser(context.Context, string) ([]chat.Session, error) { return nil, nil }
func (stubSessionRepo) UpdateTitle(context.Context, string, string) error         { return nil }
func (stubSessionRepo) UpdateStatus(context.Context, string, chat.SessionStatus) error {
	return nil
}
func (stubSessionRepo) TouchActivity(context.Context, string, int, time.Time) error { return nil }
func (stubSessionRepo) PurgeDeletedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}
func (stubSessionRepo) ActiveUserIDs(context.Context, time.Time) ([]string, error) { return nil, nil }

type stubMessageRepo struct{}

func (stubMessageRepo) Insert(context.Context, *chat.Message) error { return nil }
func (stubMessageRepo) ListBySession(context.Context, string) ([]chat.Message, error) {
	return nil, nil
}

type stubProfileUpdater struct{}

func (stubProfileUpdater) IncrementStat(context.Context, string, profile.StatName) error {
	return nil
}
func (stubProfileUpdater) EvaluateAchievements(context.Context, string) ([]string, error) {
	return nil, nil
}
func (stubProfileUpdater) CheckAndPromote(context.Context, string) (*roles.Tier, error) {
	return nil, nil
}

// streamTestServer wires a full handler against an httptest upstream and
// returns the gin engine plus the last prompt body the upstream saw.
func streamTestServer(t *testing.T, upstreamHandler http.HandlerFunc) (*gin.Engine, *string) {
	t.Helper()

	var capturedBody string
	var mu sync.Mutex
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		capturedBody = string(body)
		mu.Unlock()
		upstreamHandler(w, r)
	}))
	t.Cleanup(upstream.Close)

	rc := resty.New()
	t.Cleanup(func() { _ = rc.Close() })
	client := llm.NewCompletionClient(rc, upstream.URL, "", 10*time.Second)

	retriever := knowledge.NewRetriever(fakeEmbedder{}, fakeSearcher{}, knowledge.RetrieverConfig{})
	guests := guest.NewService(&fakeGuestRepo{}, fakeLeadStore{}, guest.Config{FreeQuota: 3, HardQuota: 6})
	chats := chat.NewService(stubSessionRepo{}, stubMessageRepo{})
	recorder := chat.NewTurnRecorder(chats, stubProfileUpdater{}, guests, time.Second)
	cfg := &config.Config{ChatModel: "test-model", ChatMaxTokens: 100, ServiceName: "test"}

	handler := NewChatHandler(retriever, guests, chats, recorder, client, cfg)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat/stream", func(c *gin.Context) {
		c.Set("principal", domain.Principal{
			AuthMethod: domain.AuthMethodGuest,
			GuestID:    "guest-test-1",
			RoleLabel:  roles.TierPublic.String(),
		})
		c.Next()
	}, handler.ChatStream)

	return r, &capturedBody
}

type sseFrame struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	FullContent string `json:"fullContent"`
	Reason      string `json:"reason"`
	Error       string `json:"error"`
	IsGuest     bool   `json:"isGuest"`
}

func parseFrames(t *testing.T, body string) []sseFrame {
	t.Helper()
	var frames []sseFrame
	for _, line := range strings.Split(body, "\n") {
		payload, found := strings.CutPrefix(line, "data: ")
		if !found {
			continue
		}
		var frame sseFrame
		require.NoError(t, json.Unmarshal([]byte(payload), &frame), "bad frame: %s", payload)
		frames = append(frames, frame)
	}
	return frames
}

func framesOfType(frames []sseFrame, frameType string) []sseFrame {
	var out []sseFrame
	for _, f := range frames {
		if f.Type == frameType {
			out = append(out, f)
		}
	}
	return out
}

func TestChatStreamFrameSequence(t *testing.T) {
	r, captured := streamTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeStreamChunk(w, `{"choices":[{"delta":{"content":"А"},"finish_reason":""}]}`)
		writeStreamChunk(w, `{"choices":[{"delta":{"content":"Б"},"finish_reason":""}]}`)
		writeStreamChunk(w, `{"choices":[{"delta":{"content":"В"},"finish_reason":""}]}`)
		writeStreamChunk(w, `{"choices":[{"delta":{},"finish_reason":"stop"}]}`)
		writeStreamChunk(w, "[DONE]")
	})

	body := `{"message":"как вступить в клуб?","filesContext":"Размер членского взноса: 100 EUR"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat/stream", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-ID", "guest-test-1")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	frames := parseFrames(t, w.Body.String())
	require.NotEmpty(t, frames)

	assert.Equal(t, "metadata", frames[0].Type)
	assert.True(t, frames[0].IsGuest)

	contents := framesOfType(frames, "content")
	require.Len(t, contents, 3)
	assert.Equal(t, "А", contents[0].Content)
	assert.Equal(t, "Б", contents[1].Content)
	assert.Equal(t, "В", contents[2].Content)
	assert.Equal(t, "АБВ", contents[2].FullContent)

	finishes := framesOfType(frames, "finish")
	require.Len(t, finishes, 1)
	assert.Equal(t, "stop", finishes[0].Reason)
	assert.Equal(t, "АБВ", finishes[0].FullContent)
	assert.Equal(t, "finish", frames[len(frames)-1].Type)
	assert.Empty(t, framesOfType(frames, "error"))

	// attached file context travels with the prompt
	assert.Contains(t, *captured, "членского взноса")
}

func TestChatStreamEmptyContentStillFinishes(t *testing.T) {
	r, _ := streamTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeStreamChunk(w, `{"choices":[{"delta":{},"finish_reason":"stop"}]}`)
		writeStreamChunk(w, "[DONE]")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat/stream", strings.NewReader(`{"message":"привет"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	frames := parseFrames(t, w.Body.String())
	assert.Empty(t, framesOfType(frames, "content"))

	finishes := framesOfType(frames, "finish")
	require.Len(t, finishes, 1)
	assert.Empty(t, finishes[0].FullContent)
	assert.Equal(t, "stop", finishes[0].Reason)
}

func TestChatStreamUpstreamFailureEmitsErrorFrame(t *testing.T) {
	r, _ := streamTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeStreamChunk(w, `{"choices":[{"delta":{"content":"А"},"finish_reason":""}]}`)
		panic(http.ErrAbortHandler)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat/stream", strings.NewReader(`{"message":"привет"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	frames := parseFrames(t, w.Body.String())
	assert.Empty(t, framesOfType(frames, "finish"))

	errors := framesOfType(frames, "error")
	require.Len(t, errors, 1)
	assert.Equal(t, "completion failed", errors[0].Error)
	assert.Equal(t, "error", frames[len(frames)-1].Type)
}

func writeStreamChunk(w http.ResponseWriter, payload string) {
	fmt.Fprintf(w, "data: %s\n\n", payload)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
