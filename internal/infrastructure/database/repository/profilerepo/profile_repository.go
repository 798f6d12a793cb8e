package profilerepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/infrastructure/database/dbschema"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

type ProfileGormRepository struct {
	db *gorm.DB
}

var _ profile.Repository = (*ProfileGormRepository)(nil)

func NewProfileGormRepository(db *gorm.DB) profile.Repository {
	return &ProfileGormRepository{db: db}
}

func (repo *ProfileGormRepository) GetByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	var entity dbschema.Profile
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"profile not found",
			err,
			"1d4f8a9e-0c7b-4f21-8e6a-2f5b9c8d7e10",
		)
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load profile",
			err,
			"6a2e9b4c-8d01-47f3-b5e9-3c7d1f0a8b22",
		)
	}
	return entity.EtoD(), nil
}

func (repo *ProfileGormRepository) EnsureProfile(ctx context.Context, userID string) error {
	entity := dbschema.Profile{
		UserID:   userID,
		Role:     roles.TierInterested.String(),
		JoinedAt: time.Now().UTC(),
	}
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to ensure profile",
			err,
			"4e8c1d7a-92f5-4b3a-8d6e-5c7a9b1d3f2e",
		)
	}
	return nil
}

func (repo *ProfileGormRepository) Update(ctx context.Context, userID string, upd profile.Update) error {
	assignments := map[string]any{"updated_at": gorm.Expr("NOW()")}
	if upd.FullName != nil {
		assignments["full_name"] = *upd.FullName
	}
	if upd.Nickname != nil {
		assignments["nickname"] = *upd.Nickname
	}
	if upd.City != nil {
		assignments["city"] = *upd.City
	}
	if upd.Bio != nil {
		assignments["bio"] = *upd.Bio
	}

	result := repo.db.WithContext(ctx).
		Model(&dbschema.Profile{}).
		Where("user_id = ?", userID).
		Updates(assignments)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update profile",
			result.Error,
			"9f3b6e2d-57a8-4c10-bd4f-8e1a2c3d4f56",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"profile not found",
			nil,
			"0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d",
		)
	}
	return nil
}

func (repo *ProfileGormRepository) SetAvatarURL(ctx context.Context, userID, url string) error {
	err := repo.db.WithContext(ctx).
		Model(&dbschema.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"avatar_url": url,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to set avatar url",
			err,
			"7c5d3e1f-90a2-4b48-a6c8-1d2e3f4a5b6c",
		)
	}
	return nil
}

// SetTier applies the promotion only when the stored role still equals
// from, so concurrent evaluations cannot double-promote.
func (repo *ProfileGormRepository) SetTier(ctx context.Context, userID string, from, to roles.Tier) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&dbschema.Profile{}).
		Where("user_id = ? AND role = ?", userID, from.String()).
		Updates(map[string]any{
			"role":       to.String(),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to apply promotion",
			result.Error,
			"2b4d6f8a-1c3e-4a5b-9d7f-0e2a4c6b8d1e",
		)
	}
	return result.RowsAffected > 0, nil
}

// IncrementStat bumps one counter column in a single SQL update.
func (repo *ProfileGormRepository) IncrementStat(ctx context.Context, userID string, stat profile.StatName) error {
	column, ok := statColumns[stat]
	if !ok {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			"unknown stat counter",
			nil,
			"5e7a9c1b-3d5f-4e6a-8b0c-2d4f6a8c0e2b",
		)
	}

	err := repo.db.WithContext(ctx).
		Model(&dbschema.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			column:       gorm.Expr(column+" + ?", 1),
			"updated_at": gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to increment stat",
			err,
			"8d0f2a4c-6e8b-4c1d-a3e5-7f9b1d3e5a7c",
		)
	}
	return nil
}

func (repo *ProfileGormRepository) RecordLogin(ctx context.Context, userID string, at time.Time, streak int) error {
	err := repo.db.WithContext(ctx).
		Model(&dbschema.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"total_logins":  gorm.Expr("total_logins + ?", 1),
			"login_streak":  streak,
			"last_login_at": at,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to record login",
			err,
			"3f5b7d9e-1a3c-4d2e-b6f8-0c2e4a6d8f0b",
		)
	}
	return nil
}

var statColumns = map[profile.StatName]string{
	profile.StatQuestionsAsked:    "questions_asked",
	profile.StatLessonsCompleted:  "lessons_completed",
	profile.StatArticlesRead:      "articles_read",
	profile.StatCommunityMessages: "community_messages",
}
