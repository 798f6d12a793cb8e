package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/infrastructure/logger"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// AvatarStorage stores avatar blobs and returns a public URL.
type AvatarStorage interface {
	StoreAvatar(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}

var allowedAvatarTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// Service implements profile reads, updates and the gamification
// evaluation steps.
type Service struct {
	repo          Repository
	achievements  AchievementRepository
	avatars       AvatarStorage
	avatarMaxSize int64
	now           func() time.Time
}

func NewService(repo Repository, achievements AchievementRepository, avatars AvatarStorage, avatarMaxSize int64) *Service {
	if avatarMaxSize <= 0 {
		avatarMaxSize = 2 << 20
	}
	return &Service{
		repo:          repo,
		achievements:  achievements,
		avatars:       avatars,
		avatarMaxSize: avatarMaxSize,
		now:           time.Now,
	}
}

// EnsureProfile creates the default profile row if none exists yet.
func (s *Service) EnsureProfile(ctx context.Context, userID string) error {
	if err := s.repo.EnsureProfile(ctx, userID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "ensure profile")
	}
	return nil
}

// Get returns the profile with role progress attached.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load profile")
	}
	return p, nil
}

// Achievements lists the member's unlocked achievements.
func (s *Service) Achievements(ctx context.Context, userID string) ([]Achievement, error) {
	list, err := s.achievements.List(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list achievements")
	}
	return list, nil
}

// UpdateProfile applies a partial profile update.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd Update) error {
	if err := s.repo.Update(ctx, userID, upd); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update profile")
	}
	return nil
}

// IncrementStat bumps one counter atomically.
func (s *Service) IncrementStat(ctx context.Context, userID string, stat StatName) error {
	if err := s.repo.IncrementStat(ctx, userID, stat); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "increment stat")
	}
	return nil
}

// RecordLogin updates the login streak: same calendar day is a no-op for
// the streak, the next day extends it, a gap resets it to one.
func (s *Service) RecordLogin(ctx context.Context, userID string) error {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load profile for login")
	}

	now := s.now().UTC()
	streak := 1
	if !p.Stats.LastLoginAt.IsZero() {
		last := p.Stats.LastLoginAt.UTC()
		switch daysBetween(last, now) {
		case 0:
			streak = p.Stats.LoginStreak
			if streak < 1 {
				streak = 1
			}
		case 1:
			streak = p.Stats.LoginStreak + 1
		}
	}

	if err := s.repo.RecordLogin(ctx, userID, now, streak); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "record login")
	}
	return nil
}

// UploadAvatar validates and stores an avatar image, then points the
// profile at the stored URL.
func (s *Service) UploadAvatar(ctx context.Context, userID string, data []byte) (string, error) {
	if int64(len(data)) > s.avatarMaxSize {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("avatar exceeds %d bytes", s.avatarMaxSize), nil, "")
	}

	mtype := mimetype.Detect(data)
	if _, ok := allowedAvatarTypes[mtype.String()]; !ok {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported avatar type %s", mtype.String()), nil, "")
	}

	url, err := s.avatars.StoreAvatar(ctx, userID, data, mtype.String())
	if err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "store avatar")
	}
	if err := s.repo.SetAvatarURL(ctx, userID, url); err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "persist avatar url")
	}
	return url, nil
}

// EvaluateAchievements inserts every newly satisfied achievement and
// returns the ids unlocked this pass. Duplicate inserts are no-ops, so
// running it twice is harmless.
func (s *Service) EvaluateAchievements(ctx context.Context, userID string) ([]string, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load profile for achievements")
	}

	existing, err := s.achievements.List(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list achievements")
	}
	have := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		have[a.AchievementID] = struct{}{}
	}

	var unlocked []string
	now := s.now().UTC()
	for _, tpl := range Templates() {
		if _, ok := have[tpl.ID]; ok {
			continue
		}
		if !tpl.Unlocked(*p) {
			continue
		}
		created, err := s.achievements.Insert(ctx, userID, tpl, now)
		if err != nil {
			log := logger.GetLogger()
			log.Warn().Err(err).Str("achievement", tpl.ID).Msg("achievement insert failed")
			continue
		}
		if created {
			unlocked = append(unlocked, tpl.ID)
		}
	}
	return unlocked, nil
}

// CheckAndPromote evaluates the promotion thresholds and applies at most
// one tier step. The repository guards the update with the current tier,
// so concurrent evaluations cannot double-promote or demote.
func (s *Service) CheckAndPromote(ctx context.Context, userID string) (*roles.Tier, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load profile for promotion")
	}

	next, promote := EvaluatePromotion(p.Tier, p.Stats)
	if !promote {
		return nil, nil
	}

	applied, err := s.repo.SetTier(ctx, userID, p.Tier, next)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "apply promotion")
	}
	if !applied {
		// Someone else already moved the tier; nothing to do.
		return nil, nil
	}

	log := logger.GetLogger()
	log.Info().
		Str("user_id", userID).
		Str("from", p.Tier.String()).
		Str("to", next.String()).
		Msg("role promoted")

	// The promotion achievements follow from the new tier.
	p.Tier = next
	if _, err := s.EvaluateAchievements(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("post-promotion achievement evaluation failed")
	}
	return &next, nil
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
