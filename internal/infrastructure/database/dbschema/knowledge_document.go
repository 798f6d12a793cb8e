package dbschema

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(KnowledgeDocument{})
}

// KnowledgeDocument persists one knowledge base chunk with its embedding
// and the role slugs allowed to retrieve it.
type KnowledgeDocument struct {
	ID             string           `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Title          string           `gorm:"type:varchar(512);not null"`
	Content        string           `gorm:"type:text;not null"`
	SourceType     *string          `gorm:"type:varchar(32)"`
	SourceURL      *string          `gorm:"type:varchar(1024)"`
	SourcePath     *string          `gorm:"type:varchar(1024)"`
	ChunkIndex     int              `gorm:"not null;default:0"`
	Category       *string          `gorm:"type:varchar(64);index:ix_knowledge_documents_category,priority:1"`
	Language       string           `gorm:"type:varchar(8);not null;default:'ru';index:ix_knowledge_documents_category,priority:2"`
	KnowledgeLevel *string          `gorm:"type:varchar(64)"`
	TargetAudience *string          `gorm:"type:varchar(128)"`
	AllowedRoles   pq.StringArray   `gorm:"type:text[];not null;default:ARRAY['public']"`
	Embedding      *pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt      time.Time        `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;not null"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}

// EtoD converts a schema document back to the domain representation.
func (d *KnowledgeDocument) EtoD() *knowledge.Document {
	if d == nil {
		return nil
	}

	out := &knowledge.Document{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Language:  d.Language,
		CreatedAt: d.CreatedAt,
	}
	if d.SourceType != nil {
		out.SourceType = *d.SourceType
	}
	if d.SourceURL != nil {
		out.SourceURL = *d.SourceURL
	}
	if d.Category != nil {
		out.Category = *d.Category
	}
	if d.KnowledgeLevel != nil {
		out.KnowledgeLevel = *d.KnowledgeLevel
	}
	if d.TargetAudience != nil {
		out.TargetAudience = *d.TargetAudience
	}
	return out
}
