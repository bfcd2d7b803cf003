package retrieval

import (
	"sort"
	"strings"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/graph/query"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jdkato/prose/v2"
)

// Intent is the structural interpretation of a free-text query: recognised
// genre labels plus quality signals. Extraction is lexical; unrecognised
// tokens are ignored, and an empty intent means an unfiltered traversal.
type Intent struct {
	Genres      mapset.Set[string]
	MinRating   *float64
	RequireCast bool
}

// Quality-phrase table. The bounded set of phrases recognised as rating or
// cast signals, with their thresholds.
var qualityThresholds = []struct {
	phrase    string
	minRating float64
}{
	{"great ratings", 7.5},
	{"great rating", 7.5},
	{"top rated", 7.5},
	{"excellent", 7.5},
	{"good ratings", 6.0},
	{"good rating", 6.0},
	{"highly rated", 6.0},
	{"well rated", 6.0},
}

var castPhrases = []string{
	"great actors",
	"good actors",
	"great cast",
	"strong cast",
}

// ExtractIntent parses a query against the canonical genre vocabulary built
// from the corpus. Pure function; never fails — a query with no recognised
// signal yields an empty intent.
func ExtractIntent(text string, vocab mapset.Set[string]) Intent {
	intent := Intent{Genres: mapset.NewSet[string]()}
	lowered := strings.ToLower(text)

	for _, token := range queryTokens(text) {
		if vocab.Contains(token) {
			intent.Genres.Add(token)
		}
	}
	// Multi-word genre labels never tokenize to a single match
	for _, label := range vocab.ToSlice() {
		if strings.Contains(label, " ") && strings.Contains(lowered, label) {
			intent.Genres.Add(label)
		}
	}

	for _, q := range qualityThresholds {
		if strings.Contains(lowered, q.phrase) {
			if intent.MinRating == nil || q.minRating > *intent.MinRating {
				threshold := q.minRating
				intent.MinRating = &threshold
			}
		}
	}

	for _, p := range castPhrases {
		if strings.Contains(lowered, p) {
			intent.RequireCast = true
			break
		}
	}

	return intent
}

// CompilePattern turns an intent into the single multi-hop traversal issued
// against the graph store: Movie, out to Genre (filtered when the intent
// names genres), in from Person over ACTED_IN, in from Person over
// DIRECTED, each aggregated per movie. Pure function.
func CompilePattern(intent Intent) *query.Pattern {
	genres := intent.Genres.ToSlice()
	sort.Strings(genres)

	p := query.NewPattern(graph.NodeMovie, "m").
		Return("m", "title", "title").
		Return("m", "overview", "overview").
		Return("m", "rating", "rating")

	p.AddHop(query.Hop{
		Edge:      graph.EdgeHasGenre,
		Direction: query.Out,
		Target:    graph.NodeGenre,
		Var:       "g",
		NameIn:    genres,
		Optional:  len(genres) == 0,
		CollectAs: "genres",
	})
	p.AddHop(query.Hop{
		Edge:      graph.EdgeActedIn,
		Direction: query.In,
		Target:    graph.NodePerson,
		Var:       "a",
		Optional:  true,
		CollectAs: "actors",
	})
	p.AddHop(query.Hop{
		Edge:      graph.EdgeDirected,
		Direction: query.In,
		Target:    graph.NodePerson,
		Var:       "d",
		Optional:  true,
		CollectAs: "directors",
	})

	return p.OrderedBy("rating", true)
}

// queryTokens tokenizes with prose, falling back to whitespace splitting if
// the tokenizer rejects the input
func queryTokens(text string) []string {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return tokenizeFallback(text)
	}

	tokens := doc.Tokens()
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, strings.ToLower(t.Text))
	}
	return out
}

func tokenizeFallback(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.Trim(f, ".,!?;:"))
	}
	return out
}
