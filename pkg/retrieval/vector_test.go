package retrieval

import (
	"context"
	"testing"

	"github.com/athapong/movie-graphrag/pkg/embedding"
	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/vectorstore"
)

func demoDocuments() []graph.Document {
	return []graph.Document{
		{
			Title: "Indian",
			Text:  "Movie: Indian\nOverview: A freedom fighter turns vigilante\nGenres: action\nCast: Kamal Haasan\nDirectors: Shankar\nRating: 7.7",
		},
		{
			Title: "Anbe Sivam",
			Text:  "Movie: Anbe Sivam\nOverview: Two men stranded on a road trip\nGenres: comedy, drama\nCast: Kamal Haasan\nDirectors: Sundar C\nRating: 7.6",
		},
	}
}

func newVectorRetriever(t *testing.T) *VectorRetriever {
	t.Helper()
	// Wide hash space keeps unrelated tokens from colliding into a bucket
	r := NewVectorRetriever(vectorstore.NewMemoryStore(), embedding.NewHashEmbedder(4096))
	r.AddDocuments(demoDocuments()...)
	if err := r.Index(context.Background()); err != nil {
		t.Fatalf("index: %v", err)
	}
	return r
}

func TestVectorQueryRanksByTokenOverlap(t *testing.T) {
	r := newVectorRetriever(t)

	results, err := r.Query(context.Background(), "comedy", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Document.Title != "Anbe Sivam" {
		t.Errorf("expected the comedy to rank first, got %v", results[0].Document.Title)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores not descending: %v >= %v wanted", results[0].Score, results[1].Score)
	}
}

func TestVectorQueryDeterministic(t *testing.T) {
	r := newVectorRetriever(t)
	ctx := context.Background()

	first, err := r.Query(ctx, "road trip comedy", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	second, err := r.Query(ctx, "road trip comedy", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Document.Title != second[i].Document.Title || first[i].Score != second[i].Score {
			t.Errorf("rank %d differs between identical queries", i)
		}
	}
}

func TestVectorReindexDoesNotDuplicate(t *testing.T) {
	r := newVectorRetriever(t)
	ctx := context.Background()

	// Re-adding the same titles and re-indexing must replace, not append
	r.AddDocuments(demoDocuments()...)
	if err := r.Index(ctx); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	results, err := r.Query(ctx, "movie", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 documents after reindex, got %d", len(results))
	}
}

func TestVectorQueryTopKLargerThanCorpus(t *testing.T) {
	r := newVectorRetriever(t)

	results, err := r.Query(context.Background(), "comedy", 50)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected the full ranked corpus, got %d results", len(results))
	}
}
