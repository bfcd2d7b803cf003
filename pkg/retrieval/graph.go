package retrieval

import (
	"context"
	"sort"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/graph/metrics"
	"github.com/athapong/movie-graphrag/pkg/graph/query"
	"github.com/athapong/movie-graphrag/pkg/graph/storage"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// GraphRetriever answers queries by structural traversal instead of text
// similarity: extract intent, compile it into one multi-hop pattern, run it
// against the store, then post-filter and rank. If the store is unreachable
// the error propagates; there is no fallback to the vector retriever, since
// the two are independent strategies under comparison.
type GraphRetriever struct {
	store  storage.GraphStore
	vocab  mapset.Set[string]
	logger *logrus.Logger
}

// NewGraphRetriever wires the store and the canonical genre vocabulary the
// intent parser matches against. The vocabulary set is shared with the
// corpus builder and reflects whatever the last build ingested.
func NewGraphRetriever(store storage.GraphStore, vocab mapset.Set[string]) *GraphRetriever {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &GraphRetriever{
		store:  store,
		vocab:  vocab,
		logger: logger,
	}
}

// Query returns the topK movies for the text, ranked by rating descending
// with titles breaking ties ascending. Each row carries the movie's genres,
// actors and directors, ready for a generation prompt without further
// lookup.
func (r *GraphRetriever) Query(ctx context.Context, text string, topK int) ([]graph.MovieRow, error) {
	timer := prometheus.NewTimer(metrics.RetrievalDuration.WithLabelValues("graph"))
	defer timer.ObserveDuration()

	intent := ExtractIntent(text, r.vocab)
	r.logger.WithFields(logrus.Fields{
		"genres":       intent.Genres.ToSlice(),
		"min_rating":   intent.MinRating,
		"require_cast": intent.RequireCast,
	}).Debug("Extracted query intent")

	rows, err := r.store.Traverse(ctx, CompilePattern(intent))
	if err != nil {
		return nil, err
	}

	movies := make([]graph.MovieRow, 0, len(rows))
	for _, row := range rows {
		m := decodeMovieRow(row)
		if intent.MinRating != nil && m.Rating < *intent.MinRating {
			continue
		}
		if intent.RequireCast && len(m.Actors) == 0 {
			continue
		}
		movies = append(movies, m)
	}

	sort.SliceStable(movies, func(i, j int) bool {
		if movies[i].Rating != movies[j].Rating {
			return movies[i].Rating > movies[j].Rating
		}
		return movies[i].Title < movies[j].Title
	})

	if topK > 0 && len(movies) > topK {
		movies = movies[:topK]
	}
	return movies, nil
}

// decodeMovieRow converts a traversal row into a MovieRow, tolerating the
// value shapes the two backends produce
func decodeMovieRow(row query.Row) graph.MovieRow {
	return graph.MovieRow{
		Title:     asString(row["title"]),
		Overview:  asString(row["overview"]),
		Rating:    asFloat(row["rating"]),
		Genres:    asStrings(row["genres"]),
		Actors:    asStrings(row["actors"]),
		Directors: asStrings(row["directors"]),
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func asStrings(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
