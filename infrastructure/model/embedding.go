package model

import (
	"context"
	"fmt"
	"sort"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ahrav/shopbench/internal/ports"
)

// DefaultEmbeddingModel backs the sentence-similarity metrics when no
// embedding model is configured.
const DefaultEmbeddingModel = "text-embedding-3-small"

// EmbeddingConfig holds the settings for the embedding collaborator.
type EmbeddingConfig struct {
	// APIKey authenticates against the embeddings endpoint.
	APIKey string

	// Model names the embedding model; empty means DefaultEmbeddingModel.
	Model string

	// BaseURL overrides the default endpoint, for OpenAI-compatible
	// local embedding servers.
	BaseURL string
}

var _ ports.EmbeddingClient = (*OpenAIEmbeddings)(nil)

// OpenAIEmbeddings implements the embedding collaborator over the OpenAI
// embeddings API. The client is created once per run and shared
// read-only across every similarity scoring call.
type OpenAIEmbeddings struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEmbeddings creates the embedding client.
func NewOpenAIEmbeddings(config EmbeddingConfig) (*OpenAIEmbeddings, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("embeddings: %w", ErrEmptyAPIKey)
	}

	modelName := config.Model
	if modelName == "" {
		modelName = DefaultEmbeddingModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIEmbeddings{
		client: openai.NewClientWithConfig(clientConfig),
		model:  openai.EmbeddingModel(modelName),
	}, nil
}

// Embed returns one vector per input text, in input order.
func (e *OpenAIEmbeddings) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Data), len(texts))
	}

	// The API is index-annotated rather than order-guaranteed.
	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })

	vectors := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float64, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
