package chathandler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/domain"
	"github.com/daosail/daosail-server/internal/domain/assistant"
	"github.com/daosail/daosail-server/internal/domain/chat"
	"github.com/daosail/daosail-server/internal/domain/guest"
	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/infrastructure/llm"
	"github.com/daosail/daosail-server/internal/infrastructure/logger"
	"github.com/daosail/daosail-server/internal/infrastructure/metrics"
	"github.com/daosail/daosail-server/internal/infrastructure/observability"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
	chatrequests "github.com/daosail/daosail-server/internal/interfaces/httpserver/requests/chat"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/responses"
	chatresponses "github.com/daosail/daosail-server/internal/interfaces/httpserver/responses/chat"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// ChatHandler runs one retrieval-augmented chat turn, batch or streamed.
type ChatHandler struct {
	retriever *knowledge.Retriever
	guests    *guest.Service
	chats     *chat.Service
	recorder  *chat.TurnRecorder
	client    *llm.CompletionClient
	cfg       *config.Config
}

func NewChatHandler(
	retriever *knowledge.Retriever,
	guests *guest.Service,
	chats *chat.Service,
	recorder *chat.TurnRecorder,
	client *llm.CompletionClient,
	cfg *config.Config,
) *ChatHandler {
	return &ChatHandler{
		retriever: retriever,
		guests:    guests,
		chats:     chats,
		recorder:  recorder,
		client:    client,
		cfg:       cfg,
	}
}

// preparedTurn carries everything resolved before the model call.
type preparedTurn struct {
	request   chatrequests.ChatRequest
	principal domain.Principal
	tier      roles.Tier
	asst      assistant.Type
	language  string
	session   *chat.Session
	retrieved knowledge.RetrievedContext
	prompt    []openai.ChatCompletionMessage
}

// Chat handles POST /chat: a single non-streaming turn.
func (h *ChatHandler) Chat(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), h.cfg.ServiceName, "ChatHandler.Chat")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	turn, ok := h.prepare(c)
	if !ok {
		return
	}

	start := time.Now()
	resp, err := h.client.Complete(ctx, h.completionRequest(turn))
	if err != nil {
		observability.RecordError(ctx, err)
		responses.HandleError(c, err, "chat completion failed")
		return
	}
	if len(resp.Choices) == 0 {
		responses.HandleNewError(c, platformerrors.ErrorTypeExternal, "provider returned no choices", "")
		return
	}

	content := resp.Choices[0].Message.Content
	metrics.RecordChatTurn(string(turn.asst), turn.principal.IsGuest(), false)
	observability.AddSpanAttributes(ctx,
		attribute.String("chat.assistant", string(turn.asst)),
		attribute.Bool("chat.guest", turn.principal.IsGuest()),
		attribute.Int("chat.chunks_used", turn.retrieved.ChunksUsed),
		attribute.Float64("chat.duration_ms", float64(time.Since(start).Milliseconds())),
	)
	observability.SetSpanStatus(ctx, codes.Ok, "")

	h.recordTurn(turn, content)

	message := h.assistantMessage(turn, content)
	c.JSON(http.StatusOK, chatresponses.ChatResponse{
		Message: message,
		Usage: llm.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		KnowledgeChunksUsed: turn.retrieved.ChunksUsed,
		UserRole:            turn.tier.String(),
		IsGuest:             turn.principal.IsGuest(),
		SessionID:           sessionID(turn.session),
	})
}

// ChatStream handles POST /chat/stream: the same turn over SSE.
func (h *ChatHandler) ChatStream(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), h.cfg.ServiceName, "ChatHandler.ChatStream")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	turn, ok := h.prepare(c)
	if !ok {
		return
	}

	flusher, ok := middlewares.PrepareSSE(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeInternal, "streaming unsupported by connection", "")
		return
	}

	h.writeFrame(c, flusher, chatresponses.MetadataFrame{
		Type:                chatresponses.FrameMetadata,
		AssistantType:       string(turn.asst),
		UserRole:            turn.tier.String(),
		KnowledgeChunksUsed: turn.retrieved.ChunksUsed,
		IsGuest:             turn.principal.IsGuest(),
		SessionID:           sessionID(turn.session),
		Timestamp:           time.Now().UTC(),
	})

	var full string
	result, err := h.client.Stream(ctx, h.completionRequest(turn), func(delta string) error {
		full += delta
		h.writeFrame(c, flusher, chatresponses.ContentFrame{
			Type:        chatresponses.FrameContent,
			Content:     delta,
			FullContent: full,
		})
		return nil
	})
	if err != nil {
		observability.RecordError(ctx, err)
		log := logger.GetLogger()
		log.Warn().Err(err).Str("assistant", string(turn.asst)).Msg("chat stream failed")
		h.writeFrame(c, flusher, chatresponses.ErrorFrame{
			Type:  chatresponses.FrameError,
			Error: "completion failed",
		})
		return
	}

	metrics.RecordChatTurn(string(turn.asst), turn.principal.IsGuest(), true)
	observability.SetSpanStatus(ctx, codes.Ok, "")

	h.recordTurn(turn, result.Content)

	reason := result.FinishReason
	if reason == "" {
		reason = "stop"
	}
	h.writeFrame(c, flusher, chatresponses.FinishFrame{
		Type:        chatresponses.FrameFinish,
		Reason:      reason,
		FullContent: result.Content,
		Message:     h.assistantMessage(turn, result.Content),
	})
}

// prepare binds the request, enforces the guest quota, loads history and
// runs retrieval. On failure the response has already been written.
func (h *ChatHandler) prepare(c *gin.Context) (*preparedTurn, bool) {
	var req chatrequests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid chat request: "+err.Error(), "")
		return nil, false
	}

	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication or guest id required", "")
		return nil, false
	}

	ctx := c.Request.Context()
	asst := assistant.Parse(req.AssistantType)
	language := req.Language
	if language == "" {
		language = "ru"
	}

	turn := &preparedTurn{
		request:   req,
		principal: principal,
		asst:      asst,
		language:  language,
		tier:      roles.ParseTier(principal.RoleLabel),
	}

	if principal.IsGuest() {
		turn.tier = roles.TierPublic
		if err := h.guests.CheckAllowed(ctx, principal.GuestID); err != nil {
			h.rejectGuest(c, principal.GuestID, err)
			return nil, false
		}
	}

	history := historyFromRequest(req.History)
	if !principal.IsGuest() {
		sess, err := h.chats.EnsureSession(ctx, principal.ID, req.SessionID, string(asst), req.Message)
		if err != nil {
			responses.HandleError(c, err, "resolve chat session")
			return nil, false
		}
		turn.session = sess
		if log, err := h.chats.Messages(ctx, principal.ID, sess.ID); err == nil {
			history = historyFromLog(log)
		} else {
			lg := logger.GetLogger()
			lg.Warn().Err(err).Str("session_id", sess.ID).Msg("history load failed, continuing without")
		}
	}

	turn.retrieved = h.retriever.Retrieve(ctx, req.Message, asst, turn.tier, language)
	metrics.RecordRetrieval(string(asst), turn.retrieved.ChunksUsed, turn.retrieved.ChunksUsed == 0)

	history = append(history, assistant.Message{Role: assistant.RoleUser, Content: req.Message})
	prompt := assistant.Assemble(assistant.PromptInput{
		Assistant:    asst,
		Language:     language,
		Context:      turn.retrieved.Context,
		FilesContext: req.FilesContext,
		History:      history,
	})
	turn.prompt = make([]openai.ChatCompletionMessage, 0, len(prompt))
	for _, m := range prompt {
		turn.prompt = append(turn.prompt, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	return turn, true
}

func (h *ChatHandler) completionRequest(turn *preparedTurn) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       h.cfg.ChatModel,
		Messages:    turn.prompt,
		Temperature: h.cfg.ChatTemperature,
		MaxTokens:   h.cfg.ChatMaxTokens,
	}
}

func (h *ChatHandler) assistantMessage(turn *preparedTurn, content string) chatresponses.AssistantMessage {
	return chatresponses.AssistantMessage{
		Role:          assistant.RoleAssistant,
		Content:       content,
		Timestamp:     time.Now().UTC(),
		Model:         h.cfg.ChatModel,
		AssistantType: string(turn.asst),
		Citations:     turn.retrieved.Citations,
		Metadata: chatresponses.MessageMetadata{
			UserRole:            turn.tier.String(),
			KnowledgeChunksUsed: turn.retrieved.ChunksUsed,
			AccessLevel:         turn.retrieved.AccessLevel,
			IsGuest:             turn.principal.IsGuest(),
		},
	}
}

// recordTurn hands persistence and gamification to the side-effect
// pipeline; the response does not wait for it.
func (h *ChatHandler) recordTurn(turn *preparedTurn, content string) {
	userMsg := chat.Message{Role: assistant.RoleUser, Content: turn.request.Message}
	assistantMsg := chat.NewCitationMessage(content, string(turn.asst), h.cfg.ChatModel, turn.retrieved.Citations)

	h.recorder.Record(chat.Turn{
		SessionID:    sessionID(turn.session),
		UserID:       turn.principal.ID,
		GuestID:      turn.principal.GuestID,
		UserMessage:  userMsg,
		AssistantMsg: assistantMsg,
	})
}

// rejectGuest maps a quota failure to 403 with the current quota attached
// so the client can render the paywall state.
func (h *ChatHandler) rejectGuest(c *gin.Context, guestID string, err error) {
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeQuotaExceeded) {
		responses.HandleError(c, err, "guest quota check failed")
		return
	}

	var quota *guest.Quota
	if q, qErr := h.guests.Status(c.Request.Context(), guestID); qErr == nil {
		quota = q
	}
	state := guest.StateRegistrationRequired
	if quota != nil {
		state = quota.State
	}
	metrics.RecordGuestRejection(string(state))

	c.JSON(http.StatusForbidden, gin.H{
		"error": "guest quota exhausted",
		"quota": quota,
	})
	c.Abort()
}

func (h *ChatHandler) writeFrame(c *gin.Context, flusher http.Flusher, frame any) {
	payload, err := json.Marshal(frame)
	if err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Msg("marshal sse frame")
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
	flusher.Flush()
}

func sessionID(s *chat.Session) string {
	if s == nil {
		return ""
	}
	return s.ID
}
