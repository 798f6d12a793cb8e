package guestrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/daosail/daosail-server/internal/domain/guest"
	"github.com/daosail/daosail-server/internal/infrastructure/database/dbschema"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

type GuestGormRepository struct {
	db *gorm.DB
}

var _ guest.Repository = (*GuestGormRepository)(nil)

func NewGuestGormRepository(db *gorm.DB) guest.Repository {
	return &GuestGormRepository{db: db}
}

func (repo *GuestGormRepository) GetOrCreate(ctx context.Context, guestID string) (*guest.Usage, error) {
	entity := dbschema.GuestUsage{
		GuestID: guestID,
		State:   string(guest.StateInitial),
	}
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guest_id"}},
			DoNothing: true,
		}).
		Create(&entity).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create guest usage",
			err,
			"c4f6b8d0-2a3c-4b5d-7e8f-1a3c5e7b9d1f",
		)
	}
	return repo.load(ctx, guestID)
}

// IncrementResponses bumps the counter in one SQL update and returns the
// fresh row. Concurrent turns cannot lose counts.
func (repo *GuestGormRepository) IncrementResponses(ctx context.Context, guestID string) (*guest.Usage, error) {
	err := repo.db.WithContext(ctx).
		Model(&dbschema.GuestUsage{}).
		Where("guest_id = ?", guestID).
		Updates(map[string]any{
			"responses_used": gorm.Expr("responses_used + ?", 1),
			"updated_at":     gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to increment guest responses",
			err,
			"d5a7c9e1-3b4d-4c6e-8f9a-2b4d6f8c0e2a",
		)
	}
	return repo.load(ctx, guestID)
}

func (repo *GuestGormRepository) SetEmail(ctx context.Context, guestID, email string) (*guest.Usage, error) {
	err := repo.db.WithContext(ctx).
		Model(&dbschema.GuestUsage{}).
		Where("guest_id = ?", guestID).
		Updates(map[string]any{
			"email":      email,
			"state":      string(guest.StateEmailCaptured),
			"updated_at": gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to set guest email",
			err,
			"e6b8d0f2-4c5e-4d7f-9a0b-3c5e7a9d1f3b",
		)
	}
	return repo.load(ctx, guestID)
}

func (repo *GuestGormRepository) SetState(ctx context.Context, guestID string, state guest.State) error {
	err := repo.db.WithContext(ctx).
		Model(&dbschema.GuestUsage{}).
		Where("guest_id = ?", guestID).
		Updates(map[string]any{
			"state":      string(state),
			"updated_at": gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to set guest state",
			err,
			"f7c9e1a3-5d6f-4e8a-0b1c-4d6f8b0e2a4c",
		)
	}
	return nil
}

func (repo *GuestGormRepository) load(ctx context.Context, guestID string) (*guest.Usage, error) {
	var entity dbschema.GuestUsage
	err := repo.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		First(&entity).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load guest usage",
			err,
			"a8d0f2b4-6e7a-4f9b-1c2d-5e7a9c1f3b5d",
		)
	}
	return entity.EtoD(), nil
}
