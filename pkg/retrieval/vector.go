package retrieval

import (
	"context"

	"github.com/athapong/movie-graphrag/pkg/embedding"
	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/graph/metrics"
	"github.com/athapong/movie-graphrag/pkg/vectorstore"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// VectorRetriever is the baseline similarity search over flat document
// text. It has no concept of relationships: two movies sharing every entity
// but with dissimilar overview text will not rank together. That is the
// deliberate baseline weakness the graph retriever addresses.
type VectorRetriever struct {
	store    vectorstore.Store
	embedder embedding.Embedder
	pending  []graph.Document
	position map[string]int
	logger   *logrus.Logger
}

// NewVectorRetriever wires a vector store and an embedding function. The
// embedder is injected so runs and tests can substitute a deterministic one.
func NewVectorRetriever(store vectorstore.Store, embedder embedding.Embedder) *VectorRetriever {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &VectorRetriever{
		store:    store,
		embedder: embedder,
		pending:  make([]graph.Document, 0),
		position: make(map[string]int),
		logger:   logger,
	}
}

// AddDocuments implements corpus.DocumentSink. Re-adding a title replaces
// the document wholesale, keeping its corpus insertion position.
func (r *VectorRetriever) AddDocuments(docs ...graph.Document) {
	for _, doc := range docs {
		if i, ok := r.position[doc.Title]; ok {
			r.pending[i] = doc
			continue
		}
		r.position[doc.Title] = len(r.pending)
		r.pending = append(r.pending, doc)
	}
}

// Index embeds every pending document and upserts it into the store.
// Documents stay pending so a rebuild can re-index them.
func (r *VectorRetriever) Index(ctx context.Context) error {
	entries := make([]vectorstore.Entry, 0, len(r.pending))
	for _, doc := range r.pending {
		vector, err := r.embedder.Embed(ctx, doc.Text)
		if err != nil {
			return errors.Wrapf(err, "embed document %q", doc.Title)
		}
		entries = append(entries, vectorstore.Entry{Document: doc, Vector: vector})
	}

	if err := r.store.Upsert(ctx, entries); err != nil {
		return errors.Wrap(err, "index documents")
	}

	r.logger.WithField("documents", len(entries)).Info("Vector index built")
	return nil
}

// Query embeds the text with the same function used for the documents and
// returns the topK documents by cosine similarity, descending. A topK
// larger than the corpus returns the full ranked corpus.
func (r *VectorRetriever) Query(ctx context.Context, text string, topK int) ([]vectorstore.Result, error) {
	timer := prometheus.NewTimer(metrics.RetrievalDuration.WithLabelValues("vector"))
	defer timer.ObserveDuration()

	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "embed query")
	}

	results, err := r.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, errors.Wrap(err, "vector search")
	}
	return results, nil
}
