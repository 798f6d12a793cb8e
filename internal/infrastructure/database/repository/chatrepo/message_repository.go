package chatrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/daosail/daosail-server/internal/domain/chat"
	"github.com/daosail/daosail-server/internal/infrastructure/database/dbschema"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

type MessageGormRepository struct {
	db *gorm.DB
}

var _ chat.MessageRepository = (*MessageGormRepository)(nil)

func NewMessageGormRepository(db *gorm.DB) chat.MessageRepository {
	return &MessageGormRepository{db: db}
}

func (repo *MessageGormRepository) Insert(ctx context.Context, msg *chat.Message) error {
	entity, err := dbschema.NewSchemaChatMessage(msg)
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to encode chat message",
			err,
			"e0b2d4f6-8c9e-4d1f-3a4b-7c9e1b3d5f7a",
		)
	}
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert chat message",
			err,
			"f1c3e5a7-9d0f-4e2a-4b5c-8d0f2c4e6a8b",
		)
	}
	return nil
}

func (repo *MessageGormRepository) ListBySession(ctx context.Context, sessionID string) ([]chat.Message, error) {
	var entities []dbschema.ChatMessage
	err := repo.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list chat messages",
			err,
			"a2d4f6b8-0e1a-4f3b-5c6d-9e1b3d5f7a9c",
		)
	}

	out := make([]chat.Message, 0, len(entities))
	for _, entity := range entities {
		msg, err := entity.EtoD()
		if err != nil {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeInternal,
				"failed to decode chat message",
				err,
				"b3e5a7c9-1f2b-4a4c-6d7e-0f2c4e6a8b0d",
			)
		}
		out = append(out, *msg)
	}
	return out, nil
}
