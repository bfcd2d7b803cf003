package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/graph/metrics"
	"github.com/athapong/movie-graphrag/pkg/graph/storage"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DocumentSink receives the flat documents rendered during corpus build.
// The vector retriever implements it.
type DocumentSink interface {
	AddDocuments(docs ...graph.Document)
}

// Builder performs the one-shot ingestion from raw movie rows into both the
// graph store and the vector document sink. After Build completes the two
// sides are mutually consistent: every movie present in one is present in
// the other with identical relationship data.
type Builder struct {
	store  storage.GraphStore
	sink   DocumentSink
	vocab  mapset.Set[string]
	logger *logrus.Logger
}

// BuildReport summarises one ingestion run
type BuildReport struct {
	Movies  int
	Skipped int
}

func NewBuilder(store storage.GraphStore, sink DocumentSink) *Builder {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &Builder{
		store:  store,
		sink:   sink,
		vocab:  mapset.NewSet[string](),
		logger: logger,
	}
}

// Build ingests the records. Malformed rows (missing title) are skipped and
// logged, never aborting the build; store failures are fatal and abort it.
// Re-running Build on the same records is idempotent: titles are the sole
// merge key on both sides.
func (b *Builder) Build(ctx context.Context, records []graph.Record) (*BuildReport, error) {
	report := &BuildReport{}

	for i, rec := range records {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			skip := &graph.SkippedRecordError{Index: i, Reason: "missing title"}
			b.logger.WithFields(logrus.Fields{
				"row": i,
			}).Warn(skip.Error())
			metrics.CorpusRowsSkipped.Inc()
			report.Skipped++
			continue
		}

		genres := CanonicalGenres(rec.Genres)

		if err := b.store.UpsertNode(ctx, graph.NodeMovie, title, map[string]interface{}{
			"overview": rec.Overview,
			"rating":   rec.Rating,
		}); err != nil {
			return report, errors.Wrapf(err, "upsert movie %q", title)
		}

		for _, g := range genres {
			if err := b.store.UpsertNode(ctx, graph.NodeGenre, g, nil); err != nil {
				return report, errors.Wrapf(err, "upsert genre %q", g)
			}
			if err := b.store.UpsertEdge(ctx, graph.EdgeHasGenre, title, g); err != nil {
				return report, errors.Wrapf(err, "link %q to genre %q", title, g)
			}
			b.vocab.Add(g)
		}

		for _, name := range rec.Cast {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if err := b.store.UpsertNode(ctx, graph.NodePerson, name, map[string]interface{}{
				"known_for": graph.RoleActor,
			}); err != nil {
				return report, errors.Wrapf(err, "upsert actor %q", name)
			}
			if err := b.store.UpsertEdge(ctx, graph.EdgeActedIn, name, title); err != nil {
				return report, errors.Wrapf(err, "link actor %q to %q", name, title)
			}
		}

		for _, name := range rec.Directors {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if err := b.store.UpsertNode(ctx, graph.NodePerson, name, map[string]interface{}{
				"known_for": graph.RoleDirector,
			}); err != nil {
				return report, errors.Wrapf(err, "upsert director %q", name)
			}
			if err := b.store.UpsertEdge(ctx, graph.EdgeDirected, name, title); err != nil {
				return report, errors.Wrapf(err, "link director %q to %q", name, title)
			}
		}

		normalized := rec
		normalized.Title = title
		normalized.Genres = genres
		b.sink.AddDocuments(RenderDocument(normalized))

		metrics.CorpusRowsProcessed.Inc()
		report.Movies++
	}

	if stats, err := b.store.Stats(ctx); err == nil {
		for kind, count := range stats {
			if graph.KnownNodeKind(graph.NodeKind(kind)) {
				metrics.GraphNodeCount.WithLabelValues(kind).Set(float64(count))
			} else {
				metrics.GraphEdgeCount.WithLabelValues(kind).Set(float64(count))
			}
		}
	}

	b.logger.WithFields(logrus.Fields{
		"movies":  report.Movies,
		"skipped": report.Skipped,
	}).Info("Corpus build completed")

	return report, nil
}

// GenreVocabulary returns the canonical genre labels seen so far. The graph
// retriever matches query tokens against it.
func (b *Builder) GenreVocabulary() mapset.Set[string] {
	return b.vocab
}

// CanonicalGenre normalises a genre label to its canonical lowercase form
// so the same label never produces duplicate Genre nodes
func CanonicalGenre(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// CanonicalGenres canonicalises and deduplicates, preserving first-seen
// order
func CanonicalGenres(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		g := CanonicalGenre(l)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

// RenderDocument formats the flat text blob indexed by the vector
// retriever: title, overview, genre, cast and director names in one block.
func RenderDocument(rec graph.Record) graph.Document {
	text := fmt.Sprintf("Movie: %s\nOverview: %s\nGenres: %s\nCast: %s\nDirectors: %s\nRating: %.1f",
		rec.Title,
		rec.Overview,
		strings.Join(rec.Genres, ", "),
		strings.Join(rec.Cast, ", "),
		strings.Join(rec.Directors, ", "),
		rec.Rating,
	)

	return graph.Document{
		Title:  rec.Title,
		Text:   text,
		Source: rec,
	}
}
