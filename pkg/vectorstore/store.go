package vectorstore

import (
	"context"

	"github.com/athapong/movie-graphrag/pkg/graph"
)

// Entry pairs a document with its embedding vector
type Entry struct {
	Document graph.Document
	Vector   []float32
}

// Result is one ranked similarity hit
type Result struct {
	Document graph.Document
	Score    float64
}

// Store holds embedded documents and answers cosine-similarity queries.
// Upserts are keyed by document title, matching the corpus merge key.
type Store interface {
	Upsert(ctx context.Context, entries []Entry) error
	Search(ctx context.Context, vector []float32, topK int) ([]Result, error)
	Count(ctx context.Context) (int, error)
}
