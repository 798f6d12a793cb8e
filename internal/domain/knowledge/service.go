package knowledge

import (
	"context"
	"strings"

	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// DocumentLister reads persisted documents without similarity scoring.
type DocumentLister interface {
	ListDocuments(ctx context.Context, category, language string) ([]Document, error)
}

// SearchParams are the caller-tunable knobs of an explicit search.
type SearchParams struct {
	Query      string
	Category   string
	Language   string
	MaxResults int
	Threshold  float64
}

// SearchResult echoes the effective parameters alongside the hits.
type SearchResult struct {
	Documents    []Document `json:"documents"`
	Query        string     `json:"query"`
	TotalResults int        `json:"totalResults"`
	SearchParams SearchEcho `json:"searchParams"`
}

// SearchEcho reports the parameters the search actually ran with.
type SearchEcho struct {
	Category   string  `json:"category,omitempty"`
	Language   string  `json:"language"`
	MaxResults int     `json:"maxResults"`
	Threshold  float64 `json:"threshold"`
}

// ServiceConfig holds search defaults and caps.
type ServiceConfig struct {
	DefaultThreshold float64
	MaxResults       int
}

// Service backs the explicit knowledge-search endpoints. Unlike chat
// retrieval, a failed search here is surfaced to the caller.
type Service struct {
	embedder Embedder
	searcher VectorSearcher
	lister   DocumentLister
	cfg      ServiceConfig
}

func NewService(embedder Embedder, searcher VectorSearcher, lister DocumentLister, cfg ServiceConfig) *Service {
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = 0.78
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	return &Service{embedder: embedder, searcher: searcher, lister: lister, cfg: cfg}
}

// Search embeds the query and runs the role-filtered document search.
func (s *Service) Search(ctx context.Context, params SearchParams, tier roles.Tier) (*SearchResult, error) {
	query := strings.TrimSpace(params.Query)
	if len([]rune(query)) < 3 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"query must be at least 3 characters long", nil, "")
	}

	language := params.Language
	if language == "" {
		language = "ru"
	}
	threshold := params.Threshold
	if threshold <= 0 {
		threshold = s.cfg.DefaultThreshold
	}
	maxResults := params.MaxResults
	if maxResults <= 0 || maxResults > s.cfg.MaxResults {
		maxResults = s.cfg.MaxResults
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "embed search query")
	}

	docs, err := s.searcher.SearchDocumentsByRole(ctx, DocumentQuery{
		Embedding:       embedding,
		Threshold:       threshold,
		MatchCount:      maxResults,
		Category:        params.Category,
		Language:        language,
		AccessibleRoles: tier.AccessibleRoles(),
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "search knowledge documents")
	}

	return &SearchResult{
		Documents:    docs,
		Query:        query,
		TotalResults: len(docs),
		SearchParams: SearchEcho{
			Category:   params.Category,
			Language:   language,
			MaxResults: maxResults,
			Threshold:  threshold,
		},
	}, nil
}

// ListDocuments returns persisted documents filtered by category/language.
func (s *Service) ListDocuments(ctx context.Context, category, language string) ([]Document, error) {
	if language == "" {
		language = "ru"
	}
	docs, err := s.lister.ListDocuments(ctx, category, language)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list knowledge documents")
	}
	return docs, nil
}
