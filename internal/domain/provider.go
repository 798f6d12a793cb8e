package domain

import (
	"github.com/google/wire"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/domain/chat"
	"github.com/daosail/daosail-server/internal/domain/guest"
	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/domain/user"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	// Chat domain
	chat.NewService,
	ProvideTurnRecorder,

	// Profile / gamification
	ProvideProfileService,
	ProvideProfileBootstrapper,

	// Guest quota
	ProvideGuestConfig,
	guest.NewService,

	// Knowledge retrieval
	ProvideRetrieverConfig,
	knowledge.NewRetriever,
	ProvideKnowledgeServiceConfig,
	knowledge.NewService,

	// User domain
	user.NewService,
)

func ProvideGuestConfig(cfg *config.Config) guest.Config {
	return guest.Config{
		FreeQuota: cfg.GuestFreeQuota,
		HardQuota: cfg.GuestHardQuota,
	}
}

func ProvideRetrieverConfig(cfg *config.Config) knowledge.RetrieverConfig {
	return knowledge.RetrieverConfig{
		StewardMatchCount:     cfg.StewardMatchCount,
		StewardMinSimilarity:  cfg.StewardMinSimilarity,
		CategoryMatchCount:    cfg.CategoryMatchCount,
		CategoryMinSimilarity: cfg.CategoryMinSimilarity,
		ContextMaxChunks:      cfg.ContextMaxChunks,
	}
}

func ProvideKnowledgeServiceConfig(cfg *config.Config) knowledge.ServiceConfig {
	return knowledge.ServiceConfig{
		DefaultThreshold: cfg.SearchDefaultThreshold,
		MaxResults:       cfg.SearchMaxResults,
	}
}

func ProvideProfileService(
	repo profile.Repository,
	achievements profile.AchievementRepository,
	avatars profile.AvatarStorage,
	cfg *config.Config,
) *profile.Service {
	return profile.NewService(repo, achievements, avatars, cfg.AvatarMaxSize)
}

func ProvideProfileBootstrapper(profiles *profile.Service) user.ProfileBootstrapper {
	return profiles
}

func ProvideTurnRecorder(
	chats *chat.Service,
	profiles *profile.Service,
	guests *guest.Service,
) *chat.TurnRecorder {
	return chat.NewTurnRecorder(chats, profiles, guests, 0)
}
