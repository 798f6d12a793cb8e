package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Club API metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Chat turns by assistant and caller kind
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "chat_turns_total",
			Help:      "Total chat turns answered",
		},
		[]string{"assistant", "caller", "stream"},
	)

	// Token counters
	TokensPromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "tokens_prompt_total",
			Help:      "Total prompt tokens consumed",
		},
		[]string{"model"},
	)

	TokensCompletionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "tokens_completion_total",
			Help:      "Total completion tokens generated",
		},
		[]string{"model"},
	)

	// Provider errors
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "provider_errors_total",
			Help:      "Total provider call failures",
		},
		[]string{"provider", "error_type"},
	)

	// Retrieval
	RetrievalChunksUsed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "retrieval_chunks_used",
			Help:      "Knowledge chunks injected per chat turn",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		},
		[]string{"assistant"},
	)

	RetrievalDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "retrieval_degraded_total",
			Help:      "Chat turns answered with empty context after a retrieval failure",
		},
	)

	// LLM inference duration
	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "llm_duration_seconds",
			Help:      "LLM inference duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model", "stream"},
	)

	// Time to first token (streaming)
	FirstTokenDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "first_token_seconds",
			Help:      "Time to first token for streaming requests",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"model"},
	)

	// Active streaming connections gauge
	ActiveStreams = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "active_streams",
			Help:      "Currently active streaming connections",
		},
		[]string{"model"},
	)

	// Sessions
	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "sessions_created_total",
			Help:      "Total chat sessions created",
		},
	)

	// Guest quota
	GuestRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "guest_rejections_total",
			Help:      "Guest turns rejected by quota state",
		},
		[]string{"state"},
	)

	EmailLeadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "email_leads_total",
			Help:      "Guest emails captured",
		},
	)

	// Gamification
	PromotionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "promotions_total",
			Help:      "Role promotions applied",
		},
		[]string{"to_tier"},
	)

	AchievementsUnlockedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked",
		},
		[]string{"achievement"},
	)

	// Side-effect task outcomes
	SideEffectTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "side_effect_tasks_total",
			Help:      "Post-turn side-effect task outcomes",
		},
		[]string{"task", "status"},
	)

	// Auth requests
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daosail",
			Subsystem: "club_api",
			Name:      "auth_requests_total",
			Help:      "Total authentication requests",
		},
		[]string{"auth_type", "status"},
	)
)

// RecordRequest records an HTTP request with all relevant labels
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordChatTurn records one answered chat turn
func RecordChatTurn(assistant string, isGuest, stream bool) {
	caller := "member"
	if isGuest {
		caller = "guest"
	}
	streamStr := "false"
	if stream {
		streamStr = "true"
	}
	ChatTurnsTotal.WithLabelValues(assistant, caller, streamStr).Inc()
}

// RecordTokens records token usage for a completion request
func RecordTokens(model string, promptTokens, completionTokens int) {
	TokensPromptTotal.WithLabelValues(model).Add(float64(promptTokens))
	TokensCompletionTotal.WithLabelValues(model).Add(float64(completionTokens))
}

// RecordLLMDuration records the duration of an LLM inference call
func RecordLLMDuration(model string, stream bool, durationSec float64) {
	streamStr := "false"
	if stream {
		streamStr = "true"
	}
	LLMDuration.WithLabelValues(model, streamStr).Observe(durationSec)
}

// RecordFirstToken records time to first token for streaming
func RecordFirstToken(model string, durationSec float64) {
	FirstTokenDuration.WithLabelValues(model).Observe(durationSec)
}

// RecordProviderError records a provider error
func RecordProviderError(provider, errorType string) {
	ProviderErrorsTotal.WithLabelValues(provider, errorType).Inc()
}

// RecordRetrieval records how many chunks backed a turn
func RecordRetrieval(assistant string, chunksUsed int, degraded bool) {
	RetrievalChunksUsed.WithLabelValues(assistant).Observe(float64(chunksUsed))
	if degraded {
		RetrievalDegradedTotal.Inc()
	}
}

// IncrementActiveStreams increments the active streams gauge
func IncrementActiveStreams(model string) {
	ActiveStreams.WithLabelValues(model).Inc()
}

// DecrementActiveStreams decrements the active streams gauge
func DecrementActiveStreams(model string) {
	ActiveStreams.WithLabelValues(model).Dec()
}

// RecordGuestRejection counts a quota rejection by state
func RecordGuestRejection(state string) {
	if state == "" {
		state = "unknown"
	}
	GuestRejectionsTotal.WithLabelValues(state).Inc()
}

// RecordPromotion counts a role promotion
func RecordPromotion(toTier string) {
	PromotionsTotal.WithLabelValues(toTier).Inc()
}

// RecordAchievement counts an unlocked achievement
func RecordAchievement(id string) {
	AchievementsUnlockedTotal.WithLabelValues(id).Inc()
}

// RecordSideEffectTask records a post-turn task outcome
func RecordSideEffectTask(task string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SideEffectTasksTotal.WithLabelValues(task, status).Inc()
}
