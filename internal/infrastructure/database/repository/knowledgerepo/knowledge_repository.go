package knowledgerepo

import (
	"context"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/infrastructure/database/dbschema"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// KnowledgeGormRepository runs the similarity-search functions owned by
// the database and plain listing queries over knowledge documents.
type KnowledgeGormRepository struct {
	db *gorm.DB
}

var (
	_ knowledge.VectorSearcher = (*KnowledgeGormRepository)(nil)
	_ knowledge.DocumentLister = (*KnowledgeGormRepository)(nil)
)

func NewKnowledgeGormRepository(db *gorm.DB) *KnowledgeGormRepository {
	return &KnowledgeGormRepository{db: db}
}

type chunkRow struct {
	ID         string  `gorm:"column:id"`
	Content    string  `gorm:"column:content"`
	SourcePath *string `gorm:"column:source_path"`
	SourceURL  *string `gorm:"column:source_url"`
	ChunkIndex int     `gorm:"column:chunk_index"`
	Similarity float64 `gorm:"column:similarity"`
}

func (repo *KnowledgeGormRepository) MatchChunks(ctx context.Context, q knowledge.ChunkQuery) ([]knowledge.ChunkMatch, error) {
	var rows []chunkRow
	err := repo.db.WithContext(ctx).
		Raw(
			"SELECT * FROM club_api.match_chunks_docs(?, ?, ?, ?)",
			pgvector.NewVector(q.Embedding),
			q.MatchCount,
			pq.StringArray(q.Roles),
			q.MinSimilarity,
		).
		Scan(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to match knowledge chunks",
			err,
			"c0a2e4b6-8d1f-4b3a-a5c7-9e1b3f5a7c9d",
		)
	}

	out := make([]knowledge.ChunkMatch, 0, len(rows))
	for _, row := range rows {
		m := knowledge.ChunkMatch{
			Content:    row.Content,
			ChunkIdx:   row.ChunkIndex,
			Similarity: row.Similarity,
		}
		if row.SourcePath != nil {
			m.Path = *row.SourcePath
		} else if row.SourceURL != nil {
			m.Path = *row.SourceURL
		}
		out = append(out, m)
	}
	return out, nil
}

type documentRow struct {
	ID             string  `gorm:"column:id"`
	Title          string  `gorm:"column:title"`
	Content        string  `gorm:"column:content"`
	SourceType     *string `gorm:"column:source_type"`
	SourceURL      *string `gorm:"column:source_url"`
	Category       *string `gorm:"column:category"`
	Language       string  `gorm:"column:language"`
	KnowledgeLevel *string `gorm:"column:knowledge_level"`
	TargetAudience *string `gorm:"column:target_audience"`
	Similarity     float64 `gorm:"column:similarity"`
}

func (repo *KnowledgeGormRepository) SearchDocumentsByRole(ctx context.Context, q knowledge.DocumentQuery) ([]knowledge.Document, error) {
	var category any
	if q.Category != "" {
		category = q.Category
	}
	var language any
	if q.Language != "" {
		language = q.Language
	}

	var rows []documentRow
	err := repo.db.WithContext(ctx).
		Raw(
			"SELECT * FROM club_api.search_knowledge_documents_by_role(?, ?, ?, ?, ?, ?)",
			pgvector.NewVector(q.Embedding),
			pq.StringArray(q.AccessibleRoles),
			category,
			language,
			q.Threshold,
			q.MatchCount,
		).
		Scan(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to search knowledge documents",
			err,
			"d1b3f5c7-9e2a-4c4b-b6d8-0f2c4a6b8d0e",
		)
	}

	out := make([]knowledge.Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (repo *KnowledgeGormRepository) ListDocuments(ctx context.Context, category, language string) ([]knowledge.Document, error) {
	query := repo.db.WithContext(ctx).Model(&dbschema.KnowledgeDocument{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if language != "" {
		query = query.Where("language = ?", language)
	}

	var entities []dbschema.KnowledgeDocument
	if err := query.Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list knowledge documents",
			err,
			"e2c4a6d8-0f3b-4d5c-c7e9-1a3d5b7c9e1f",
		)
	}

	out := make([]knowledge.Document, 0, len(entities))
	for _, entity := range entities {
		out = append(out, *entity.EtoD())
	}
	return out, nil
}

func (row documentRow) toDomain() knowledge.Document {
	doc := knowledge.Document{
		ID:         row.ID,
		Title:      row.Title,
		Content:    row.Content,
		Language:   row.Language,
		Similarity: row.Similarity,
	}
	if row.SourceType != nil {
		doc.SourceType = *row.SourceType
	}
	if row.SourceURL != nil {
		doc.SourceURL = *row.SourceURL
	}
	if row.Category != nil {
		doc.Category = *row.Category
	}
	if row.KnowledgeLevel != nil {
		doc.KnowledgeLevel = *row.KnowledgeLevel
	}
	if row.TargetAudience != nil {
		doc.TargetAudience = *row.TargetAudience
	}
	return doc
}
