package retrieval

import (
	"fmt"
	"strings"
	"sync"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/vectorstore"
	"github.com/pkoukk/tiktoken-go"
)

// DefaultContextTokens bounds the context block handed to the generation
// collaborator
const DefaultContextTokens = 2048

// contextActorLimit keeps actor lists short in graph context blocks
const contextActorLimit = 3

var contextEncoding = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding("cl100k_base")
})

// GraphContext renders traversal rows into the prompt context block. Whole
// records are dropped once the token budget would be exceeded; a record is
// never truncated mid-way.
func GraphContext(rows []graph.MovieRow, tokenBudget int) string {
	blocks := make([]string, 0, len(rows))
	for _, row := range rows {
		actors := row.Actors
		if len(actors) > contextActorLimit {
			actors = actors[:contextActorLimit]
		}
		blocks = append(blocks, fmt.Sprintf(
			"Movie: %s\nOverview: %s\nGenres: %s\nActors: %s\nDirectors: %s\nRating: %.1f",
			row.Title,
			row.Overview,
			strings.Join(row.Genres, ", "),
			strings.Join(actors, ", "),
			strings.Join(row.Directors, ", "),
			row.Rating,
		))
	}
	return joinWithinBudget(blocks, tokenBudget)
}

// VectorContext renders similarity hits into the prompt context block
func VectorContext(results []vectorstore.Result, tokenBudget int) string {
	blocks := make([]string, 0, len(results))
	for _, res := range results {
		blocks = append(blocks, fmt.Sprintf("Movie: %s\n%s", res.Document.Title, res.Document.Text))
	}
	return joinWithinBudget(blocks, tokenBudget)
}

func joinWithinBudget(blocks []string, tokenBudget int) string {
	if tokenBudget <= 0 {
		tokenBudget = DefaultContextTokens
	}

	kept := make([]string, 0, len(blocks))
	total := 0
	for _, block := range blocks {
		n := countTokens(block)
		if total+n > tokenBudget && len(kept) > 0 {
			break
		}
		kept = append(kept, block)
		total += n
	}
	return strings.Join(kept, "\n\n")
}

func countTokens(text string) int {
	encoding, err := contextEncoding()
	if err != nil {
		// No encoder available; approximate with whitespace tokens
		return len(strings.Fields(text))
	}
	return len(encoding.Encode(text, nil, nil))
}
