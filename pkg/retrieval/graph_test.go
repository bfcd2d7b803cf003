package retrieval

import (
	"context"
	"testing"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/graph/storage"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

type seedMovie struct {
	title     string
	rating    float64
	genres    []string
	cast      []string
	directors []string
}

func seedGraph(t *testing.T, movies []seedMovie) (*storage.MemoryStore, mapset.Set[string]) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	vocab := mapset.NewSet[string]()

	for _, m := range movies {
		if err := store.UpsertNode(ctx, graph.NodeMovie, m.title, map[string]interface{}{
			"overview": m.title + " overview",
			"rating":   m.rating,
		}); err != nil {
			t.Fatalf("upsert movie: %v", err)
		}
		for _, g := range m.genres {
			if err := store.UpsertNode(ctx, graph.NodeGenre, g, nil); err != nil {
				t.Fatalf("upsert genre: %v", err)
			}
			if err := store.UpsertEdge(ctx, graph.EdgeHasGenre, m.title, g); err != nil {
				t.Fatalf("upsert genre edge: %v", err)
			}
			vocab.Add(g)
		}
		for _, name := range m.cast {
			if err := store.UpsertNode(ctx, graph.NodePerson, name, nil); err != nil {
				t.Fatalf("upsert actor: %v", err)
			}
			if err := store.UpsertEdge(ctx, graph.EdgeActedIn, name, m.title); err != nil {
				t.Fatalf("upsert acted edge: %v", err)
			}
		}
		for _, name := range m.directors {
			if err := store.UpsertNode(ctx, graph.NodePerson, name, nil); err != nil {
				t.Fatalf("upsert director: %v", err)
			}
			if err := store.UpsertEdge(ctx, graph.EdgeDirected, name, m.title); err != nil {
				t.Fatalf("upsert directed edge: %v", err)
			}
		}
	}

	return store, vocab
}

func demoMovies() []seedMovie {
	return []seedMovie{
		{"Indian", 7.7, []string{"action"}, []string{"Kamal Haasan"}, []string{"Shankar"}},
		{"Anbe Sivam", 7.6, []string{"comedy", "drama"}, []string{"Kamal Haasan"}, []string{"Sundar C"}},
		{"Cheap Laughs", 5.0, []string{"comedy"}, nil, nil},
	}
}

func TestQueryGenreAndRatingFilter(t *testing.T) {
	store, vocab := seedGraph(t, demoMovies())
	r := NewGraphRetriever(store, vocab)

	// "comedy" excludes Indian; "good ratings" excludes the 5.0 comedy
	rows, err := r.Query(context.Background(), "comedy movies with good ratings", 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Anbe Sivam" {
		t.Fatalf("expected exactly Anbe Sivam, got %v", rows)
	}

	row := rows[0]
	// A filtered genre hop aggregates only the matching genres
	if len(row.Genres) != 1 || row.Genres[0] != "comedy" {
		t.Errorf("expected the filtered genre on the row, got %v", row.Genres)
	}
	if len(row.Actors) != 1 || row.Actors[0] != "Kamal Haasan" {
		t.Errorf("unexpected actors: %v", row.Actors)
	}
	if len(row.Directors) != 1 || row.Directors[0] != "Sundar C" {
		t.Errorf("unexpected directors: %v", row.Directors)
	}
}

func TestQueryUnfilteredReturnsWholeCatalogue(t *testing.T) {
	store, vocab := seedGraph(t, demoMovies())
	r := NewGraphRetriever(store, vocab)

	rows, err := r.Query(context.Background(), "something to watch", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected all movies for an empty intent, got %d", len(rows))
	}
	// Ranked by rating descending
	if rows[0].Title != "Indian" || rows[1].Title != "Anbe Sivam" || rows[2].Title != "Cheap Laughs" {
		t.Errorf("unexpected ranking: %v, %v, %v", rows[0].Title, rows[1].Title, rows[2].Title)
	}
}

func TestQueryMovieWithoutPeopleStillAppears(t *testing.T) {
	store, vocab := seedGraph(t, demoMovies())
	r := NewGraphRetriever(store, vocab)

	rows, err := r.Query(context.Background(), "comedy", 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	// Cheap Laughs has no cast or director; optional hops must keep it
	found := false
	for _, row := range rows {
		if row.Title == "Cheap Laughs" {
			found = true
		}
	}
	if !found {
		t.Errorf("movie without people dropped from results: %v", rows)
	}
}

func TestQueryCastRequirement(t *testing.T) {
	store, vocab := seedGraph(t, demoMovies())
	r := NewGraphRetriever(store, vocab)

	rows, err := r.Query(context.Background(), "comedy with a great cast", 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Anbe Sivam" {
		t.Errorf("expected only the movie with actors, got %v", rows)
	}
}

func TestQueryTitleTieBreak(t *testing.T) {
	store, vocab := seedGraph(t, []seedMovie{
		{"Zulu", 7.0, []string{"drama"}, nil, nil},
		{"Alpha", 7.0, []string{"drama"}, nil, nil},
	})
	r := NewGraphRetriever(store, vocab)

	rows, err := r.Query(context.Background(), "drama", 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "Alpha" || rows[1].Title != "Zulu" {
		t.Errorf("equal ratings must tie-break on title: %v", rows)
	}
}

func TestQueryTopKTruncation(t *testing.T) {
	store, vocab := seedGraph(t, demoMovies())
	r := NewGraphRetriever(store, vocab)

	rows, err := r.Query(context.Background(), "movies", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Indian" {
		t.Errorf("expected the single highest-rated movie, got %v", rows)
	}
}

func TestQueryStoreUnavailable(t *testing.T) {
	store, vocab := seedGraph(t, demoMovies())
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r := NewGraphRetriever(store, vocab)
	_, err := r.Query(context.Background(), "comedy", 5)
	if !errors.Is(err, graph.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
