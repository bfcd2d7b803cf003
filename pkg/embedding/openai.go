package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Model dimensions mapping, including commonly used compatible models
var embeddingModelDimensions = map[openai.EmbeddingModel]int{
	openai.AdaEmbeddingV2:  1536,
	openai.SmallEmbedding3: 512,
	openai.LargeEmbedding3: 2048,
	"baai/bge-base-en":     768,  // BGE base model
	"baai/bge-large-en":    1024, // BGE large model
}

// OpenAIEmbedder computes embeddings through an OpenAI-compatible endpoint
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// NewOpenAIEmbedder validates the model name and returns an embedder bound
// to it
func NewOpenAIEmbedder(client *openai.Client, model string) (*OpenAIEmbedder, error) {
	m := openai.EmbeddingModel(model)
	dimensions, ok := embeddingModelDimensions[m]
	if !ok {
		return nil, fmt.Errorf("unsupported embedding model: %s. Supported models: %s",
			model,
			"text-embedding-ada-002, text-embedding-3-small, text-embedding-3-large, baai/bge-base-en, baai/bge-large-en")
	}

	return &OpenAIEmbedder{
		client:     client,
		model:      m,
		dimensions: dimensions,
	}, nil
}

// Embed implements Embedder
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %v", err)
	}
	return resp.Data[0].Embedding, nil
}

// Dimensions implements Embedder
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}
