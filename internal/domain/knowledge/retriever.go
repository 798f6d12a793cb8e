package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/daosail/daosail-server/internal/domain/assistant"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/infrastructure/logger"
)

// Embedder produces a query embedding for retrieval.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher executes the similarity-search functions owned by the
// database. Implementations pass the accessible-roles filter through
// unmodified; the functions enforce it.
type VectorSearcher interface {
	MatchChunks(ctx context.Context, q ChunkQuery) ([]ChunkMatch, error)
	SearchDocumentsByRole(ctx context.Context, q DocumentQuery) ([]Document, error)
}

// RetrieverConfig bounds retrieval per assistant family.
type RetrieverConfig struct {
	StewardMatchCount     int
	StewardMinSimilarity  float64
	CategoryMatchCount    int
	CategoryMinSimilarity float64
	ContextMaxChunks      int
}

// Retriever builds the context block for a chat turn. Retrieval failures
// degrade to an empty context; the turn must still be answered.
type Retriever struct {
	embedder Embedder
	searcher VectorSearcher
	cfg      RetrieverConfig
}

func NewRetriever(embedder Embedder, searcher VectorSearcher, cfg RetrieverConfig) *Retriever {
	if cfg.StewardMatchCount <= 0 {
		cfg.StewardMatchCount = 5
	}
	if cfg.StewardMinSimilarity <= 0 {
		cfg.StewardMinSimilarity = 0.7
	}
	if cfg.CategoryMatchCount <= 0 {
		cfg.CategoryMatchCount = 2
	}
	if cfg.CategoryMinSimilarity <= 0 {
		cfg.CategoryMinSimilarity = 0.7
	}
	if cfg.ContextMaxChunks <= 0 {
		cfg.ContextMaxChunks = 3
	}
	return &Retriever{embedder: embedder, searcher: searcher, cfg: cfg}
}

// Retrieve assembles role-gated context for the question. It never returns
// an error: any failure is logged and yields an empty context so the chat
// answer is not blocked.
func (r *Retriever) Retrieve(ctx context.Context, question string, asst assistant.Type, tier roles.Tier, language string) RetrievedContext {
	log := logger.GetLogger()
	accessible := tier.AccessibleRoles()
	accessLevel := accessible[len(accessible)-1]
	empty := RetrievedContext{AccessLevel: accessLevel}

	question = strings.TrimSpace(question)
	if question == "" {
		return empty
	}

	embedding, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		log.Warn().Err(err).Msg("retrieval degraded: embedding request failed")
		return empty
	}

	if asst.RetrievalCategories() == nil {
		return r.retrieveBroad(ctx, embedding, tier, accessLevel)
	}
	return r.retrieveByCategory(ctx, embedding, asst, language, accessible, accessLevel)
}

// retrieveBroad is the steward path: one similarity call over all chunks
// the caller's roles may read, with numbered citation markers.
func (r *Retriever) retrieveBroad(ctx context.Context, embedding []float32, tier roles.Tier, accessLevel string) RetrievedContext {
	log := logger.GetLogger()
	empty := RetrievedContext{AccessLevel: accessLevel}

	searchRoles := []string{tier.String()}
	if tier != roles.TierPublic {
		searchRoles = append(searchRoles, roles.SlugPublic)
	}

	matches, err := r.searcher.MatchChunks(ctx, ChunkQuery{
		Embedding:     embedding,
		MatchCount:    r.cfg.StewardMatchCount,
		Roles:         searchRoles,
		MinSimilarity: r.cfg.StewardMinSimilarity,
	})
	if err != nil {
		log.Warn().Err(err).Msg("retrieval degraded: chunk search failed")
		return empty
	}
	if len(matches) == 0 {
		return empty
	}

	var sb strings.Builder
	citations := make([]Citation, 0, len(matches))
	for i, m := range matches {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] %s\n(Источник: %s, релевантность: %d%%)",
			i+1, m.Content, m.Path, int(math.Round(m.Similarity*100)))
		citations = append(citations, Citation{
			DocID:      m.Path,
			ChunkIdx:   m.ChunkIdx,
			Similarity: m.Similarity,
		})
	}

	return RetrievedContext{
		Context:     sb.String(),
		ChunksUsed:  len(matches),
		Citations:   citations,
		AccessLevel: accessLevel,
	}
}

// retrieveByCategory fans out one document search per topic category,
// merges, dedupes by document id, ranks by similarity and truncates.
func (r *Retriever) retrieveByCategory(ctx context.Context, embedding []float32, asst assistant.Type, language string, accessible []string, accessLevel string) RetrievedContext {
	log := logger.GetLogger()
	empty := RetrievedContext{AccessLevel: accessLevel}

	var (
		mu  sync.Mutex
		all []Document
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, category := range asst.RetrievalCategories() {
		category := category
		g.Go(func() error {
			docs, err := r.searcher.SearchDocumentsByRole(gctx, DocumentQuery{
				Embedding:       embedding,
				Threshold:       r.cfg.CategoryMinSimilarity,
				MatchCount:      r.cfg.CategoryMatchCount,
				Category:        category,
				Language:        language,
				AccessibleRoles: accessible,
			})
			if err != nil {
				// A failed category must not sink the others.
				log.Warn().Err(err).Str("category", category).Msg("retrieval degraded: category search failed")
				return nil
			}
			mu.Lock()
			all = append(all, docs...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(all) == 0 {
		return empty
	}

	seen := make(map[string]struct{}, len(all))
	unique := all[:0]
	for _, doc := range all {
		if _, ok := seen[doc.ID]; ok {
			continue
		}
		seen[doc.ID] = struct{}{}
		unique = append(unique, doc)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Similarity > unique[j].Similarity
	})
	if len(unique) > r.cfg.ContextMaxChunks {
		unique = unique[:r.cfg.ContextMaxChunks]
	}

	header := fmt.Sprintf("Контекст из базы знаний (уровень доступа: %s):", accessLevel)
	if strings.EqualFold(language, "en") {
		header = fmt.Sprintf("Context from knowledge base (access level: %s):", accessLevel)
	}

	parts := make([]string, 0, len(unique))
	citations := make([]Citation, 0, len(unique))
	for _, doc := range unique {
		level := doc.KnowledgeLevel
		if level == "" {
			level = "basic"
		}
		audience := doc.TargetAudience
		if audience == "" {
			audience = "general"
		}
		parts = append(parts, fmt.Sprintf("**%s** (%s, %s)\n%s", doc.Title, level, audience, doc.Content))

		var url *string
		if doc.SourceURL != "" {
			u := doc.SourceURL
			url = &u
		}
		citations = append(citations, Citation{DocID: doc.ID, URL: url, Similarity: doc.Similarity})
	}

	return RetrievedContext{
		Context:     header + "\n\n" + strings.Join(parts, "\n\n---\n\n"),
		ChunksUsed:  len(unique),
		Citations:   citations,
		AccessLevel: accessLevel,
	}
}
