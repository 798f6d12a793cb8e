package infrastructure

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/infrastructure/auth"
	"github.com/daosail/daosail-server/internal/infrastructure/crontab"
	"github.com/daosail/daosail-server/internal/infrastructure/database"
	"github.com/daosail/daosail-server/internal/infrastructure/database/repository"
	"github.com/daosail/daosail-server/internal/infrastructure/database/repository/knowledgerepo"
	"github.com/daosail/daosail-server/internal/infrastructure/llm"
	"github.com/daosail/daosail-server/internal/infrastructure/logger"
	"github.com/daosail/daosail-server/internal/infrastructure/storage"
	"github.com/daosail/daosail-server/internal/utils/httpclients"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideValidator builds the JWKS-backed token validator.
func ProvideValidator(cfg *config.Config, log zerolog.Logger) (*auth.OIDCValidator, error) {
	ctx := context.Background()
	jwksURL, err := cfg.ResolveJWKSURL(ctx)
	if err != nil {
		return nil, err
	}
	return auth.NewOIDCValidator(
		ctx,
		jwksURL,
		cfg.Issuer,
		cfg.Audience,
		cfg.RefreshJWKSInterval,
		log,
	)
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// ProvideCompletionClient provides the chat completion client.
func ProvideCompletionClient(cfg *config.Config) *llm.CompletionClient {
	client := httpclients.NewClient("llm")
	return llm.NewCompletionClient(client, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.CompletionTimeout)
}

// ProvideEmbedder provides the embedding client behind the retrieval interface.
func ProvideEmbedder(cfg *config.Config) knowledge.Embedder {
	return llm.NewEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel)
}

// ProvideAvatarStorage provides the S3 backed avatar store.
func ProvideAvatarStorage(cfg *config.Config, log zerolog.Logger) (profile.AvatarStorage, error) {
	return storage.NewS3AvatarStorage(context.Background(), cfg, log)
}

// ProvideVectorSearcher exposes the knowledge repository as the searcher port.
func ProvideVectorSearcher(repo *knowledgerepo.KnowledgeGormRepository) knowledge.VectorSearcher {
	return repo
}

// ProvideDocumentLister exposes the knowledge repository as the lister port.
func ProvideDocumentLister(repo *knowledgerepo.KnowledgeGormRepository) knowledge.DocumentLister {
	return repo
}

// Infrastructure holds the cross-cutting infrastructure dependencies.
type Infrastructure struct {
	DB        *gorm.DB
	Validator *auth.OIDCValidator
	Logger    zerolog.Logger
}

func NewInfrastructure(
	db *gorm.DB,
	validator *auth.OIDCValidator,
	logger zerolog.Logger,
) *Infrastructure {
	return &Infrastructure{
		DB:        db,
		Validator: validator,
		Logger:    logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Database
	ProvideDatabase,

	// Repositories
	repository.RepositoryProvider,

	// LLM clients
	ProvideCompletionClient,
	ProvideEmbedder,

	// Media storage
	ProvideAvatarStorage,

	// Retrieval ports
	ProvideVectorSearcher,
	ProvideDocumentLister,

	// Logger
	logger.GetLogger,

	// Token validation
	ProvideValidator,

	// Background sweeps
	crontab.NewCrontab,

	// Infrastructure struct
	NewInfrastructure,
)
