package profilerepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/infrastructure/database/dbschema"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

type AchievementGormRepository struct {
	db *gorm.DB
}

var _ profile.AchievementRepository = (*AchievementGormRepository)(nil)

func NewAchievementGormRepository(db *gorm.DB) profile.AchievementRepository {
	return &AchievementGormRepository{db: db}
}

func (repo *AchievementGormRepository) List(ctx context.Context, userID string) ([]profile.Achievement, error) {
	var entities []dbschema.Achievement
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list achievements",
			err,
			"b1e3a5c7-9d0f-4a2b-8c4d-6e8f0a1b2c3d",
		)
	}

	templates := templateIndex()
	out := make([]profile.Achievement, 0, len(entities))
	for _, entity := range entities {
		a := profile.Achievement{
			AchievementID: entity.AchievementType,
			UnlockedAt:    entity.UnlockedAt,
		}
		// Titles and icons come from the static catalog, not the row.
		if tpl, ok := templates[entity.AchievementType]; ok {
			a.Title = tpl.Title
			a.TitleRu = tpl.TitleRu
			a.Description = tpl.Description
			a.DescriptionRu = tpl.DescriptionRu
			a.IconName = tpl.IconName
			a.Category = tpl.Category
		}
		out = append(out, a)
	}
	return out, nil
}

// Insert unlocks an achievement. The unique index absorbs duplicates,
// reported as created=false.
func (repo *AchievementGormRepository) Insert(ctx context.Context, userID string, tpl profile.Template, at time.Time) (bool, error) {
	entity := dbschema.Achievement{
		UserID:          userID,
		AchievementType: tpl.ID,
		UnlockedAt:      at,
	}
	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_type"}},
			DoNothing: true,
		}).
		Create(&entity)
	if result.Error != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert achievement",
			result.Error,
			"c2f4b6d8-0e1a-4b3c-9d5e-7f9a1c3e5b7d",
		)
	}
	return result.RowsAffected > 0, nil
}

func templateIndex() map[string]profile.Template {
	templates := profile.Templates()
	idx := make(map[string]profile.Template, len(templates))
	for _, tpl := range templates {
		idx[tpl.ID] = tpl
	}
	return idx
}
