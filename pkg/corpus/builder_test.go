package corpus_test

import (
	"context"
	"strings"
	"testing"

	"github.com/athapong/movie-graphrag/pkg/corpus"
	"github.com/athapong/movie-graphrag/pkg/embedding"
	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/graph/storage"
	"github.com/athapong/movie-graphrag/pkg/retrieval"
	"github.com/athapong/movie-graphrag/pkg/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []graph.Record {
	return []graph.Record{
		{
			Title:     "Indian",
			Overview:  "A freedom fighter turns vigilante",
			Rating:    7.7,
			Genres:    []string{"Action"},
			Cast:      []string{"Kamal Haasan"},
			Directors: []string{"Shankar"},
		},
		{
			Title:     "Anbe Sivam",
			Overview:  "Two men stranded on a road trip",
			Rating:    7.6,
			Genres:    []string{"Comedy", "Drama"},
			Cast:      []string{"Kamal Haasan"},
			Directors: []string{"Sundar C"},
		},
	}
}

func newTestPipeline() (*storage.MemoryStore, *retrieval.VectorRetriever, *corpus.Builder) {
	store := storage.NewMemoryStore()
	vector := retrieval.NewVectorRetriever(vectorstore.NewMemoryStore(), embedding.NewHashEmbedder(4096))
	return store, vector, corpus.NewBuilder(store, vector)
}

func TestBuildPopulatesBothSides(t *testing.T) {
	ctx := context.Background()
	store, vector, builder := newTestPipeline()

	report, err := builder.Build(ctx, testRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Movies)
	assert.Equal(t, 0, report.Skipped)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["Movie"])
	assert.Equal(t, int64(3), stats["Genre"])
	assert.Equal(t, int64(3), stats["Person"])
	assert.Equal(t, int64(3), stats["HAS_GENRE"])
	assert.Equal(t, int64(2), stats["ACTED_IN"])
	assert.Equal(t, int64(2), stats["DIRECTED"])

	require.NoError(t, vector.Index(ctx))
}

func TestIdempotentIngestion(t *testing.T) {
	ctx := context.Background()
	store, vector, builder := newTestPipeline()

	_, err := builder.Build(ctx, testRecords())
	require.NoError(t, err)
	require.NoError(t, vector.Index(ctx))

	first, err := store.Stats(ctx)
	require.NoError(t, err)

	// Second run over the same records must leave both sides unchanged
	_, err = builder.Build(ctx, testRecords())
	require.NoError(t, err)
	require.NoError(t, vector.Index(ctx))

	second, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	results, err := vector.Query(ctx, "comedy", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2, "document index must not grow on rebuild")
}

func TestMalformedRowSkippedNotFatal(t *testing.T) {
	ctx := context.Background()
	_, _, builder := newTestPipeline()

	records := append([]graph.Record{{Overview: "no title here"}}, testRecords()...)
	report, err := builder.Build(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, report.Movies)
}

func TestGenreCanonicalization(t *testing.T) {
	ctx := context.Background()
	store, _, builder := newTestPipeline()

	records := []graph.Record{
		{Title: "A", Genres: []string{"Action", " action ", "ACTION"}},
		{Title: "B", Genres: []string{"action"}},
	}
	_, err := builder.Build(ctx, records)
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["Genre"], "case variants must merge into one genre node")
	assert.True(t, builder.GenreVocabulary().Contains("action"))
	assert.Equal(t, 1, builder.GenreVocabulary().Cardinality())
}

func TestMutualConsistency(t *testing.T) {
	ctx := context.Background()
	store, vector, builder := newTestPipeline()

	_, err := builder.Build(ctx, testRecords())
	require.NoError(t, err)
	require.NoError(t, vector.Index(ctx))

	graphRetriever := retrieval.NewGraphRetriever(store, builder.GenreVocabulary())
	rows, err := graphRetriever.Query(ctx, "anything at all", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	docs, err := vector.Query(ctx, "anything at all", 10)
	require.NoError(t, err)
	byTitle := make(map[string]string, len(docs))
	for _, d := range docs {
		byTitle[d.Document.Title] = d.Document.Text
	}

	for _, row := range rows {
		text, ok := byTitle[row.Title]
		require.True(t, ok, "movie %q missing from vector index", row.Title)
		for _, name := range append(append(row.Genres, row.Actors...), row.Directors...) {
			assert.Contains(t, text, name, "document for %q must carry edge name %q", row.Title, name)
		}
	}
}

func TestRenderDocumentShape(t *testing.T) {
	doc := corpus.RenderDocument(graph.Record{
		Title:     "Indian",
		Overview:  "A freedom fighter",
		Rating:    7.7,
		Genres:    []string{"action"},
		Cast:      []string{"Kamal Haasan"},
		Directors: []string{"Shankar"},
	})

	assert.Equal(t, "Indian", doc.Title)
	for _, line := range []string{
		"Movie: Indian",
		"Overview: A freedom fighter",
		"Genres: action",
		"Cast: Kamal Haasan",
		"Directors: Shankar",
		"Rating: 7.7",
	} {
		assert.True(t, strings.Contains(doc.Text, line), "missing line %q in %q", line, doc.Text)
	}
}
