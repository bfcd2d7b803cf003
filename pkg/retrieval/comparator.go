package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/vectorstore"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Comparator runs both retrievers against the same query and assembles the
// two ranked result sets side by side. It performs no ranking of its own
// and never merges the sets: exposing their differences is the point.
type Comparator struct {
	vector *VectorRetriever
	graph  *GraphRetriever
}

// Comparison holds the raw outputs of both strategies for one query
type Comparison struct {
	Query         string
	TopK          int
	VectorResults []vectorstore.Result
	GraphResults  []graph.MovieRow
}

func NewComparator(vector *VectorRetriever, graphRetriever *GraphRetriever) *Comparator {
	return &Comparator{
		vector: vector,
		graph:  graphRetriever,
	}
}

// Compare invokes both retrievers independently. The two calls share no
// state and their order does not affect the results. Both results are
// required for a valid comparison, so a failure in either aborts it.
func (c *Comparator) Compare(ctx context.Context, text string, topK int) (*Comparison, error) {
	vectorResults, err := c.vector.Query(ctx, text, topK)
	if err != nil {
		return nil, errors.Wrap(err, "vector retriever")
	}

	graphResults, err := c.graph.Query(ctx, text, topK)
	if err != nil {
		return nil, errors.Wrap(err, "graph retriever")
	}

	return &Comparison{
		Query:         text,
		TopK:          topK,
		VectorResults: vectorResults,
		GraphResults:  graphResults,
	}, nil
}

// VectorTitles returns the vector result titles in rank order
func (c *Comparison) VectorTitles() []string {
	titles := make([]string, 0, len(c.VectorResults))
	for _, r := range c.VectorResults {
		titles = append(titles, r.Document.Title)
	}
	return titles
}

// GraphTitles returns the graph result titles in rank order
func (c *Comparison) GraphTitles() []string {
	titles := make([]string, 0, len(c.GraphResults))
	for _, r := range c.GraphResults {
		titles = append(titles, r.Title)
	}
	return titles
}

// Report renders a side-by-side text report: both ranked lists, the title
// overlap, and a diff of the two context blocks.
func (c *Comparison) Report() string {
	var b strings.Builder

	fmt.Fprintf(&b, "RAG vs GraphRAG Comparison\nQuery: %s\nTop K: %d\n\n", c.Query, c.TopK)

	b.WriteString("Vector retriever results:\n")
	if len(c.VectorResults) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, r := range c.VectorResults {
		fmt.Fprintf(&b, "  %d. %s (similarity: %.3f)\n", i+1, r.Document.Title, r.Score)
	}

	b.WriteString("\nGraph retriever results:\n")
	if len(c.GraphResults) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, r := range c.GraphResults {
		fmt.Fprintf(&b, "  %d. %s (rating: %.1f)\n", i+1, r.Title, r.Rating)
	}

	overlap := mapset.NewSet(c.VectorTitles()...).Intersect(mapset.NewSet(c.GraphTitles()...))
	titles := overlap.ToSlice()
	sort.Strings(titles)
	fmt.Fprintf(&b, "\nShared titles (%d): %s\n", len(titles), strings.Join(titles, ", "))

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(
		VectorContext(c.VectorResults, DefaultContextTokens),
		GraphContext(c.GraphResults, DefaultContextTokens),
		false,
	)
	diffs = dmp.DiffCleanupSemantic(diffs)
	fmt.Fprintf(&b, "\nContext diff (vector vs graph):\n%s\n", dmp.DiffPrettyText(diffs))

	return b.String()
}
