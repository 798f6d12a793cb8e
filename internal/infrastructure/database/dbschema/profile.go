package dbschema

import (
	"time"

	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Profile{})
}

// Profile persists one member profile with the embedded gamification
// counters. The role column stores the tier slug.
type Profile struct {
	UserID            string     `gorm:"column:user_id;type:varchar(255);primaryKey"`
	Email             *string    `gorm:"type:varchar(320)"`
	FullName          *string    `gorm:"type:varchar(255)"`
	Nickname          *string    `gorm:"type:varchar(150)"`
	AvatarURL         *string    `gorm:"type:varchar(512)"`
	City              *string    `gorm:"type:varchar(150)"`
	Bio               *string    `gorm:"type:text"`
	Role              string     `gorm:"type:varchar(32);not null;default:'interested'"`
	QuestionsAsked    int        `gorm:"not null;default:0"`
	LessonsCompleted  int        `gorm:"not null;default:0"`
	ArticlesRead      int        `gorm:"not null;default:0"`
	CommunityMessages int        `gorm:"not null;default:0"`
	TotalLogins       int        `gorm:"not null;default:0"`
	LoginStreak       int        `gorm:"not null;default:0"`
	LastLoginAt       *time.Time `gorm:"column:last_login_at"`
	JoinedAt          time.Time  `gorm:"column:joined_at;not null"`
	CreatedAt         time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;not null"`
}

func (Profile) TableName() string {
	return "profiles"
}

// EtoD converts a schema profile to the domain representation.
func (p *Profile) EtoD() *profile.Profile {
	if p == nil {
		return nil
	}

	tier := roles.ParseTier(p.Role)
	out := &profile.Profile{
		UserID:   p.UserID,
		Tier:     tier,
		Role:     tier.String(),
		JoinedAt: p.JoinedAt,
		Stats: profile.Stats{
			QuestionsAsked:    p.QuestionsAsked,
			LessonsCompleted:  p.LessonsCompleted,
			ArticlesRead:      p.ArticlesRead,
			CommunityMessages: p.CommunityMessages,
			TotalLogins:       p.TotalLogins,
			LoginStreak:       p.LoginStreak,
		},
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.FullName != nil {
		out.FullName = *p.FullName
	}
	if p.Nickname != nil {
		out.Nickname = *p.Nickname
	}
	if p.AvatarURL != nil {
		out.AvatarURL = *p.AvatarURL
	}
	if p.City != nil {
		out.City = *p.City
	}
	if p.Bio != nil {
		out.Bio = *p.Bio
	}
	if p.LastLoginAt != nil {
		out.Stats.LastLoginAt = *p.LastLoginAt
	}
	return out
}
