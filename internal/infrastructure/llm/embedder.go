package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// Embedder produces query embeddings via the provider embeddings API.
type Embedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewEmbedder(apiKey, baseURL, model string) *Embedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Embedder{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.EmbeddingModel(model),
	}
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "embedding request failed")
	}
	if len(resp.Data) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"embedding response contained no vectors", nil, "")
	}
	return resp.Data[0].Embedding, nil
}
