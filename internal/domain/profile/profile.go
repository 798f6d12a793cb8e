// Package profile holds member profiles, usage stats and the gamification
// rules built on them: achievements and monotonic role promotion.
package profile

import (
	"context"
	"time"

	"github.com/daosail/daosail-server/internal/domain/roles"
)

// Stats are the per-member usage counters driving gamification.
type Stats struct {
	QuestionsAsked    int       `json:"questions_asked"`
	LessonsCompleted  int       `json:"lessons_completed"`
	ArticlesRead      int       `json:"articles_read"`
	CommunityMessages int       `json:"community_messages"`
	TotalLogins       int       `json:"total_logins"`
	LoginStreak       int       `json:"login_streak"`
	LastLoginAt       time.Time `json:"last_login_at"`
}

// Profile is one member's profile with embedded stats.
type Profile struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Nickname  string     `json:"nickname,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	City      string     `json:"city,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	Tier      roles.Tier `json:"-"`
	Role      string     `json:"role"`
	JoinedAt  time.Time  `json:"join_date"`
	Stats     Stats      `json:"stats"`
}

// Achievement is one unlocked achievement row. Append-only.
type Achievement struct {
	AchievementID string    `json:"id"`
	Title         string    `json:"title"`
	TitleRu       string    `json:"title_ru"`
	Description   string    `json:"description"`
	DescriptionRu string    `json:"description_ru"`
	IconName      string    `json:"icon_name"`
	Category      string    `json:"category"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// StatName identifies an incrementable counter.
type StatName string

const (
	StatQuestionsAsked    StatName = "questions_asked"
	StatLessonsCompleted  StatName = "lessons_completed"
	StatArticlesRead      StatName = "articles_read"
	StatCommunityMessages StatName = "community_messages"
)

// ParseStatName validates a stat identifier from the API surface.
func ParseStatName(s string) (StatName, bool) {
	switch StatName(s) {
	case StatQuestionsAsked, StatLessonsCompleted, StatArticlesRead, StatCommunityMessages:
		return StatName(s), true
	}
	return "", false
}

// Update is a partial profile update.
type Update struct {
	FullName *string
	Nickname *string
	City     *string
	Bio      *string
}

// Repository persists profiles. IncrementStat and SetTier must be atomic
// SQL updates; SetTier only applies when the stored tier equals from, so
// promotion can never demote or double-apply.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	EnsureProfile(ctx context.Context, userID string) error
	Update(ctx context.Context, userID string, upd Update) error
	SetAvatarURL(ctx context.Context, userID, url string) error
	SetTier(ctx context.Context, userID string, from, to roles.Tier) (bool, error)
	IncrementStat(ctx context.Context, userID string, stat StatName) error
	RecordLogin(ctx context.Context, userID string, at time.Time, streak int) error
}

// AchievementRepository persists unlocked achievements. Insert tolerates
// duplicates as a no-op and reports whether a row was created.
type AchievementRepository interface {
	List(ctx context.Context, userID string) ([]Achievement, error)
	Insert(ctx context.Context, userID string, tpl Template, at time.Time) (bool, error)
}
