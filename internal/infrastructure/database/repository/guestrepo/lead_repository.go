package guestrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/daosail/daosail-server/internal/domain/guest"
	"github.com/daosail/daosail-server/internal/infrastructure/database/dbschema"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

type LeadGormRepository struct {
	db *gorm.DB
}

var _ guest.LeadStore = (*LeadGormRepository)(nil)

func NewLeadGormRepository(db *gorm.DB) guest.LeadStore {
	return &LeadGormRepository{db: db}
}

// InsertLead records a captured email. The unique index absorbs repeats.
func (repo *LeadGormRepository) InsertLead(ctx context.Context, email, source string) error {
	entity := dbschema.EmailLead{
		Email:  email,
		Source: source,
	}
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}, {Name: "source"}},
			DoNothing: true,
		}).
		Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert email lead",
			err,
			"b9e1a3c5-7f8b-4a0c-2d3e-6f8b0d2a4c6e",
		)
	}
	return nil
}
