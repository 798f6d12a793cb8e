// Package crontab schedules the background sweep: it re-evaluates
// promotions and achievements for recently active members and purges
// soft-deleted chat sessions past their retention window.
package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/domain/chat"
	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/infrastructure/logger"
	"github.com/daosail/daosail-server/internal/infrastructure/metrics"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

const CronJobTimeout = 10 * time.Minute

type Crontab struct {
	ctab     *crontab.Crontab
	chats    *chat.Service
	sessions chat.SessionRepository
	profiles *profile.Service
}

func NewCrontab(
	chats *chat.Service,
	sessions chat.SessionRepository,
	profiles *profile.Service,
) *Crontab {
	return &Crontab{
		ctab:     crontab.New(),
		chats:    chats,
		sessions: sessions,
		profiles: profiles,
	}
}

func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()
	cfg := config.GetGlobal()

	schedule := "*/30 * * * *"
	if cfg != nil && cfg.SweepSchedule != "" {
		schedule = cfg.SweepSchedule
	}

	// execute once on server start
	c.sweep(ctx)

	if err := c.ctab.AddJob(schedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
		defer cancel()
		c.sweep(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add sweep job")
	}
	log.Info().Str("schedule", schedule).Msg("gamification sweep scheduled")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) sweep(ctx context.Context) {
	log := logger.GetLogger()
	cfg := config.GetGlobal()

	lookback := 24 * time.Hour
	retention := 720 * time.Hour
	if cfg != nil {
		if cfg.SweepLookback > 0 {
			lookback = cfg.SweepLookback
		}
		if cfg.DeletedSessionMaxAge > 0 {
			retention = cfg.DeletedSessionMaxAge
		}
	}

	userIDs, err := c.sessions.ActiveUserIDs(ctx, time.Now().UTC().Add(-lookback))
	if err != nil {
		metrics.RecordSideEffectTask("sweep_list_users", err)
		log.Error().Err(err).Msg("sweep: failed to list active users")
	} else {
		for _, userID := range userIDs {
			if _, err := c.profiles.EvaluateAchievements(ctx, userID); err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("sweep: achievement evaluation failed")
			}
			promoted, err := c.profiles.CheckAndPromote(ctx, userID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("sweep: promotion evaluation failed")
				continue
			}
			if promoted != nil {
				log.Info().Str("user_id", userID).Str("tier", promoted.String()).Msg("sweep: member promoted")
			}
		}
		metrics.RecordSideEffectTask("sweep_gamification", nil)
	}

	purged, err := c.chats.PurgeDeleted(ctx, retention)
	metrics.RecordSideEffectTask("sweep_purge_sessions", err)
	if err != nil {
		log.Error().Err(err).Msg("sweep: failed to purge deleted sessions")
		return
	}
	if purged > 0 {
		log.Info().Int64("purged", purged).Msg("sweep: removed deleted sessions")
	}
}
