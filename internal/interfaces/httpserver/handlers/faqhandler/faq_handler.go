package faqhandler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/domain/assistant"
	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/infrastructure/llm"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/middlewares"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/responses"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

const faqAgent = "faq_steward"

// FAQHandler answers one-shot questions with a grounded steward reply
// and an execution trace. No session, no quota: the endpoint is public
// and rate-limited at the route level.
type FAQHandler struct {
	retriever *knowledge.Retriever
	client    *llm.CompletionClient
	cfg       *config.Config
}

func NewFAQHandler(retriever *knowledge.Retriever, client *llm.CompletionClient, cfg *config.Config) *FAQHandler {
	return &FAQHandler{retriever: retriever, client: client, cfg: cfg}
}

type askRequest struct {
	Question string `json:"question" binding:"required,min=3"`
	Language string `json:"language" binding:"omitempty,oneof=ru en"`
}

type askTrace struct {
	Intent    string   `json:"intent"`
	Tools     []string `json:"tools"`
	LatencyMs int64    `json:"latency_ms"`
}

type askResponse struct {
	Agent     string               `json:"agent"`
	FinalText string               `json:"final_text"`
	Citations []knowledge.Citation `json:"citations"`
	Trace     askTrace             `json:"trace"`
}

// Ask handles POST /faq/ask.
func (h *FAQHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "question of at least 3 characters is required", "")
		return
	}
	language := req.Language
	if language == "" {
		language = "ru"
	}

	tier := roles.TierPublic
	if principal, ok := middlewares.PrincipalFromContext(c); ok && !principal.IsGuest() {
		tier = roles.ParseTier(principal.RoleLabel)
	}

	start := time.Now()
	ctx := c.Request.Context()
	tools := []string{"knowledge_search"}

	retrieved := h.retriever.Retrieve(ctx, req.Question, assistant.TypeSteward, tier, language)

	prompt := assistant.Assemble(assistant.PromptInput{
		Assistant: assistant.TypeSteward,
		Language:  language,
		Context:   retrieved.Context,
		History:   []assistant.Message{{Role: assistant.RoleUser, Content: req.Question}},
	})
	messages := make([]openai.ChatCompletionMessage, 0, len(prompt))
	for _, m := range prompt {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := h.client.Complete(ctx, openai.ChatCompletionRequest{
		Model:       h.cfg.ChatModel,
		Messages:    messages,
		Temperature: h.cfg.ChatTemperature,
		MaxTokens:   h.cfg.ChatMaxTokens,
	})
	if err != nil {
		responses.HandleError(c, err, "faq completion failed")
		return
	}
	if len(resp.Choices) == 0 {
		responses.HandleNewError(c, platformerrors.ErrorTypeExternal, "provider returned no choices", "")
		return
	}

	c.JSON(http.StatusOK, askResponse{
		Agent:     faqAgent,
		FinalText: resp.Choices[0].Message.Content,
		Citations: retrieved.Citations,
		Trace: askTrace{
			Intent:    classifyIntent(req.Question),
			Tools:     tools,
			LatencyMs: time.Since(start).Milliseconds(),
		},
	})
}

// classifyIntent is a keyword heuristic, good enough for trace labelling.
func classifyIntent(question string) string {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, "dao", "голосован", "токен", "govern", "voting"):
		return "dao"
	case containsAny(q, "member", "вступ", "членств", "join", "тариф", "price", "стоимост"):
		return "membership"
	case containsAny(q, "яхт", "парус", "sail", "регат", "boat", "лодк"):
		return "sailing"
	default:
		return "general"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
