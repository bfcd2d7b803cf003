package embedding

import "context"

// Embedder maps text into a fixed-dimension vector space. Implementations
// must be deterministic within one comparison run: identical input text
// yields an identical vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
