package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

type memoryProfileRepo struct {
	profiles map[string]*Profile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: make(map[string]*Profile)}
}

func (m *memoryProfileRepo) GetByUserID(_ context.Context, userID string) (*Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, platformerrors.NewError(context.Background(), platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "profile not found", nil, "")
	}
	cp := *p
	return &cp, nil
}

func (m *memoryProfileRepo) EnsureProfile(_ context.Context, userID string) error {
	if _, ok := m.profiles[userID]; !ok {
		m.profiles[userID] = &Profile{UserID: userID, Tier: roles.TierInterested}
	}
	return nil
}

func (m *memoryProfileRepo) Update(_ context.Context, userID string, upd Update) error {
	p := m.profiles[userID]
	if upd.FullName != nil {
		p.FullName = *upd.FullName
	}
	if upd.Nickname != nil {
		p.Nickname = *upd.Nickname
	}
	if upd.City != nil {
		p.City = *upd.City
	}
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
	return nil
}

func (m *memoryProfileRepo) SetAvatarURL(_ context.Context, userID, url string) error {
	m.profiles[userID].AvatarURL = url
	return nil
}

func (m *memoryProfileRepo) SetTier(_ context.Context, userID string, from, to roles.Tier) (bool, error) {
	p := m.profiles[userID]
	if p.Tier != from {
		return false, nil
	}
	p.Tier = to
	p.Role = to.DisplayLabel()
	return true, nil
}

func (m *memoryProfileRepo) IncrementStat(_ context.Context, userID string, stat StatName) error {
	p := m.profiles[userID]
	switch stat {
	case StatQuestionsAsked:
		p.Stats.QuestionsAsked++
	case StatLessonsCompleted:
		p.Stats.LessonsCompleted++
	case StatArticlesRead:
		p.Stats.ArticlesRead++
	case StatCommunityMessages:
		p.Stats.CommunityMessages++
	}
	return nil
}

func (m *memoryProfileRepo) RecordLogin(_ context.Context, userID string, at time.Time, streak int) error {
	p := m.profiles[userID]
	p.Stats.LastLoginAt = at
	p.Stats.LoginStreak = streak
	p.Stats.TotalLogins++
	return nil
}

type memoryAchievementRepo struct {
	rows map[string]map[string]Achievement
}

func newMemoryAchievementRepo() *memoryAchievementRepo {
	return &memoryAchievementRepo{rows: make(map[string]map[string]Achievement)}
}

func (m *memoryAchievementRepo) List(_ context.Context, userID string) ([]Achievement, error) {
	var out []Achievement
	for _, a := range m.rows[userID] {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryAchievementRepo) Insert(_ context.Context, userID string, tpl Template, at time.Time) (bool, error) {
	if m.rows[userID] == nil {
		m.rows[userID] = make(map[string]Achievement)
	}
	if _, exists := m.rows[userID][tpl.ID]; exists {
		// Mirrors the unique-violation no-op in the real repository.
		return false, nil
	}
	m.rows[userID][tpl.ID] = Achievement{AchievementID: tpl.ID, Title: tpl.Title, UnlockedAt: at}
	return true, nil
}

type fakeAvatarStorage struct{}

func (fakeAvatarStorage) StoreAvatar(_ context.Context, userID string, _ []byte, _ string) (string, error) {
	return "https://cdn.example.com/avatars/" + userID, nil
}

func newTestService(p *Profile) (*Service, *memoryProfileRepo, *memoryAchievementRepo) {
	repo := newMemoryProfileRepo()
	repo.profiles[p.UserID] = p
	ach := newMemoryAchievementRepo()
	svc := NewService(repo, ach, fakeAvatarStorage{}, 1024)
	return svc, repo, ach
}

func TestEvaluateAchievementsIdempotent(t *testing.T) {
	svc, _, ach := newTestService(&Profile{
		UserID:   "u1",
		Tier:     roles.TierInterested,
		JoinedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Stats:    Stats{QuestionsAsked: 12, LessonsCompleted: 1},
	})
	ctx := context.Background()

	first, err := svc.EvaluateAchievements(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first_question", "curious_explorer", "first_lesson"}, first)

	second, err := svc.EvaluateAchievements(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, second, "second evaluation must unlock nothing")

	list, err := ach.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 3, "no duplicate achievement rows")
}

func TestCheckAndPromote(t *testing.T) {
	svc, repo, ach := newTestService(&Profile{
		UserID: "u1",
		Tier:   roles.TierInterested,
		Stats:  Stats{QuestionsAsked: 10, LessonsCompleted: 2, ArticlesRead: 5},
	})
	ctx := context.Background()

	promoted, err := svc.CheckAndPromote(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, promoted)
	assert.Equal(t, roles.TierPassenger, *promoted)
	assert.Equal(t, roles.TierPassenger, repo.profiles["u1"].Tier)

	// The promotion achievement lands with the promotion.
	list, _ := ach.List(ctx, "u1")
	ids := make(map[string]bool)
	for _, a := range list {
		ids[a.AchievementID] = true
	}
	assert.True(t, ids["role_promotion_passenger"])

	// Re-evaluation with unchanged stats does not promote again.
	promoted, err = svc.CheckAndPromote(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, promoted)
	assert.Equal(t, roles.TierPassenger, repo.profiles["u1"].Tier)
}

func TestCheckAndPromotePartialThresholds(t *testing.T) {
	svc, repo, _ := newTestService(&Profile{
		UserID: "u1",
		Tier:   roles.TierInterested,
		Stats:  Stats{QuestionsAsked: 50, LessonsCompleted: 2, ArticlesRead: 4},
	})

	promoted, err := svc.CheckAndPromote(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, promoted, "partial satisfaction must not promote")
	assert.Equal(t, roles.TierInterested, repo.profiles["u1"].Tier)
}

func TestRecordLoginStreak(t *testing.T) {
	svc, repo, _ := newTestService(&Profile{UserID: "u1", Tier: roles.TierInterested})
	ctx := context.Background()

	day := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }
	require.NoError(t, svc.RecordLogin(ctx, "u1"))
	assert.Equal(t, 1, repo.profiles["u1"].Stats.LoginStreak)

	// Same day again: streak unchanged, login counted.
	svc.now = func() time.Time { return day.Add(4 * time.Hour) }
	require.NoError(t, svc.RecordLogin(ctx, "u1"))
	assert.Equal(t, 1, repo.profiles["u1"].Stats.LoginStreak)
	assert.Equal(t, 2, repo.profiles["u1"].Stats.TotalLogins)

	// Next day extends the streak.
	svc.now = func() time.Time { return day.AddDate(0, 0, 1) }
	require.NoError(t, svc.RecordLogin(ctx, "u1"))
	assert.Equal(t, 2, repo.profiles["u1"].Stats.LoginStreak)

	// A gap resets it.
	svc.now = func() time.Time { return day.AddDate(0, 0, 5) }
	require.NoError(t, svc.RecordLogin(ctx, "u1"))
	assert.Equal(t, 1, repo.profiles["u1"].Stats.LoginStreak)
}

func TestUploadAvatarValidation(t *testing.T) {
	svc, repo, _ := newTestService(&Profile{UserID: "u1", Tier: roles.TierInterested})
	ctx := context.Background()

	// Not an image.
	_, err := svc.UploadAvatar(ctx, "u1", []byte("plain text, not an image"))
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	// Oversized payload.
	big := make([]byte, 2048)
	_, err = svc.UploadAvatar(ctx, "u1", big)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	// Minimal PNG magic sniffs as image/png.
	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)
	url, err := svc.UploadAvatar(ctx, "u1", png)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/u1", url)
	assert.Equal(t, url, repo.profiles["u1"].AvatarURL)
}

func TestParseStatName(t *testing.T) {
	for _, valid := range []string{"questions_asked", "lessons_completed", "articles_read", "community_messages"} {
		if _, ok := ParseStatName(valid); !ok {
			t.Errorf("ParseStatName(%q) should be valid", valid)
		}
	}
	if _, ok := ParseStatName("boats_owned"); ok {
		t.Error("unknown stat accepted")
	}
}
