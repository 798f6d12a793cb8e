package dbschema

import (
	"time"

	"github.com/daosail/daosail-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Achievement{})
}

// Achievement is one unlocked achievement row. The unique index makes
// repeated unlock attempts idempotent at the data layer.
type Achievement struct {
	BaseModel
	UserID          string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_achievements_user_type"`
	AchievementType string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_achievements_user_type"`
	UnlockedAt      time.Time `gorm:"column:unlocked_at;not null"`
}

func (Achievement) TableName() string {
	return "achievements"
}
