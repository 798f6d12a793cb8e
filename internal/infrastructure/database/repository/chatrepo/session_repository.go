package chatrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/daosail/daosail-server/internal/domain/chat"
	"github.com/daosail/daosail-server/internal/infrastructure/database/dbschema"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

type SessionGormRepository struct {
	db *gorm.DB
}

var _ chat.SessionRepository = (*SessionGormRepository)(nil)

func NewSessionGormRepository(db *gorm.DB) chat.SessionRepository {
	return &SessionGormRepository{db: db}
}

func (repo *SessionGormRepository) Create(ctx context.Context, sess *chat.Session) error {
	entity := dbschema.NewSchemaChatSession(sess)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create chat session",
			err,
			"d3a5c7e9-1b2d-4c4e-8f6a-0b2d4f6a8c0e",
		)
	}
	return nil
}

func (repo *SessionGormRepository) GetByID(ctx context.Context, id string) (*chat.Session, error) {
	var entity dbschema.ChatSession
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"chat session not found",
			err,
			"e4b6d8f0-2c3e-4d5f-9a7b-1c3e5a7c9e1f",
		)
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load chat session",
			err,
			"f5c7e9a1-3d4f-4e6a-8b9c-2d4f6b8d0f2a",
		)
	}
	return entity.EtoD(), nil
}

func (repo *SessionGormRepository) ListByUser(ctx context.Context, userID string) ([]chat.Session, error) {
	var entities []dbschema.ChatSession
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, string(chat.SessionDeleted)).
		Order("last_activity_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list chat sessions",
			err,
			"a6d8f0b2-4e5a-4f7b-9c0d-3e5a7c9e1b3d",
		)
	}

	out := make([]chat.Session, 0, len(entities))
	for _, entity := range entities {
		out = append(out, *entity.EtoD())
	}
	return out, nil
}

func (repo *SessionGormRepository) UpdateTitle(ctx context.Context, id, title string) error {
	return repo.updateColumns(ctx, id, map[string]any{"title": title}, "failed to rename chat session")
}

func (repo *SessionGormRepository) UpdateStatus(ctx context.Context, id string, status chat.SessionStatus) error {
	return repo.updateColumns(ctx, id, map[string]any{"status": string(status)}, "failed to update chat session status")
}

// TouchActivity bumps the message counter and activity timestamp in one
// SQL update.
func (repo *SessionGormRepository) TouchActivity(ctx context.Context, id string, messageDelta int, at time.Time) error {
	return repo.updateColumns(ctx, id, map[string]any{
		"message_count":    gorm.Expr("message_count + ?", messageDelta),
		"last_activity_at": at,
	}, "failed to touch chat session activity")
}

func (repo *SessionGormRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("status = ? AND last_activity_at < ?", string(chat.SessionDeleted), cutoff).
		Delete(&dbschema.ChatSession{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to purge deleted chat sessions",
			result.Error,
			"b7e9a1c3-5f6b-4a8c-0d1e-4f6b8d0f2c4e",
		)
	}
	return result.RowsAffected, nil
}

// ActiveUserIDs lists the distinct users with session activity since
// the cutoff. The sweep re-evaluates gamification for them.
func (repo *SessionGormRepository) ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	var ids []string
	err := repo.db.WithContext(ctx).
		Model(&dbschema.ChatSession{}).
		Distinct("user_id").
		Where("last_activity_at >= ?", since).
		Pluck("user_id", &ids).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list active users",
			err,
			"e1f3b5d7-9a0c-4e2b-8d4f-6a8c0e2b4d6f",
		)
	}
	return ids, nil
}

func (repo *SessionGormRepository) updateColumns(ctx context.Context, id string, assignments map[string]any, message string) error {
	assignments["updated_at"] = gorm.Expr("NOW()")
	result := repo.db.WithContext(ctx).
		Model(&dbschema.ChatSession{}).
		Where("id = ?", id).
		Updates(assignments)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			message,
			result.Error,
			"c8f0b2d4-6a7c-4b9d-1e2f-5a7c9e1b3d5f",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"chat session not found",
			nil,
			"d9a1c3e5-7b8d-4c0e-2f3a-6b8d0f2c4e6a",
		)
	}
	return nil
}
