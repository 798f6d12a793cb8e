package chat

import (
	"context"
	"time"

	"github.com/daosail/daosail-server/internal/domain/guest"
	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/infrastructure/logger"
	"github.com/daosail/daosail-server/internal/infrastructure/metrics"
)

// ProfileUpdater covers the gamification updates run after a turn.
type ProfileUpdater interface {
	IncrementStat(ctx context.Context, userID string, stat profile.StatName) error
	EvaluateAchievements(ctx context.Context, userID string) ([]string, error)
	CheckAndPromote(ctx context.Context, userID string) (*roles.Tier, error)
}

// GuestRecorder consumes one guest response from the quota.
type GuestRecorder interface {
	RecordAnswered(ctx context.Context, guestID string) (*guest.Quota, error)
}

// TurnRecorder runs the post-turn side effects. The tasks run on a
// detached context so a closed client connection cannot abort them,
// and a failure in one task never blocks the others.
type TurnRecorder struct {
	chats   *Service
	profile ProfileUpdater
	guests  GuestRecorder
	timeout time.Duration
}

// Turn describes one completed exchange to record.
type Turn struct {
	SessionID    string
	UserID       string
	GuestID      string
	UserMessage  Message
	AssistantMsg Message
}

func NewTurnRecorder(chats *Service, profile ProfileUpdater, guests GuestRecorder, timeout time.Duration) *TurnRecorder {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TurnRecorder{chats: chats, profile: profile, guests: guests, timeout: timeout}
}

// Record schedules the side effects and returns immediately. done is
// closed once every task finished, which tests use to synchronize.
func (r *TurnRecorder) Record(turn Turn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.run(ctx, turn)
	}()
	return done
}

func (r *TurnRecorder) run(ctx context.Context, turn Turn) {
	log := logger.GetLogger()

	if turn.SessionID != "" {
		err := r.chats.AppendTurn(ctx, turn.SessionID, turn.UserMessage, turn.AssistantMsg)
		metrics.RecordSideEffectTask("persist_messages", err)
		if err != nil {
			log.Error().Err(err).Str("session_id", turn.SessionID).Msg("failed to persist turn messages")
		}
	}

	if turn.GuestID != "" {
		_, err := r.guests.RecordAnswered(ctx, turn.GuestID)
		metrics.RecordSideEffectTask("guest_quota", err)
		if err != nil {
			log.Error().Err(err).Str("guest_id", turn.GuestID).Msg("failed to record guest response")
		}
		return
	}

	if turn.UserID == "" {
		return
	}

	err := r.profile.IncrementStat(ctx, turn.UserID, profile.StatQuestionsAsked)
	metrics.RecordSideEffectTask("increment_questions", err)
	if err != nil {
		log.Error().Err(err).Str("user_id", turn.UserID).Msg("failed to increment question stat")
	}

	unlocked, err := r.profile.EvaluateAchievements(ctx, turn.UserID)
	metrics.RecordSideEffectTask("achievements", err)
	if err != nil {
		log.Error().Err(err).Str("user_id", turn.UserID).Msg("failed to evaluate achievements")
	} else if len(unlocked) > 0 {
		for _, id := range unlocked {
			metrics.RecordAchievement(id)
		}
		log.Info().Str("user_id", turn.UserID).Strs("achievements", unlocked).Msg("achievements unlocked")
	}

	promoted, err := r.profile.CheckAndPromote(ctx, turn.UserID)
	metrics.RecordSideEffectTask("promotion", err)
	if err != nil {
		log.Error().Err(err).Str("user_id", turn.UserID).Msg("failed to evaluate promotion")
	} else if promoted != nil {
		metrics.RecordPromotion(promoted.String())
		log.Info().Str("user_id", turn.UserID).Str("tier", promoted.String()).Msg("member promoted")
	}
}
