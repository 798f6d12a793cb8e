// Package knowledge implements role-gated retrieval over the club's
// knowledge base. Similarity search itself lives in Postgres functions;
// this package assembles the queries and shapes the results.
package knowledge

import "time"

// Citation references a chunk returned alongside a generated answer.
type Citation struct {
	DocID      string  `json:"doc_id"`
	URL        *string `json:"url"`
	ChunkIdx   int     `json:"chunk_idx"`
	Similarity float64 `json:"similarity"`
}

// ChunkMatch is one row from the broad chunk similarity function.
type ChunkMatch struct {
	Content    string
	Path       string
	ChunkIdx   int
	Similarity float64
}

// Document is one knowledge document, with a query-time similarity score
// when returned from a search.
type Document struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	SourceType     string    `json:"source_type,omitempty"`
	SourceURL      string    `json:"source_url,omitempty"`
	Category       string    `json:"category"`
	Language       string    `json:"language,omitempty"`
	KnowledgeLevel string    `json:"knowledge_level,omitempty"`
	TargetAudience string    `json:"target_audience,omitempty"`
	Similarity     float64   `json:"similarity,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// RetrievedContext is the assembled context block for one chat turn.
type RetrievedContext struct {
	Context     string
	ChunksUsed  int
	Citations   []Citation
	AccessLevel string
}

// ChunkQuery parameterizes the broad chunk similarity function.
type ChunkQuery struct {
	Embedding     []float32
	MatchCount    int
	Roles         []string
	MinSimilarity float64
}

// DocumentQuery parameterizes the per-category document similarity function.
type DocumentQuery struct {
	Embedding       []float32
	Threshold       float64
	MatchCount      int
	Category        string
	Language        string
	AccessibleRoles []string
}
