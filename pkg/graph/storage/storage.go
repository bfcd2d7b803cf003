package storage

import (
	"context"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/graph/query"
)

// GraphStore is a thin adapter over a property-graph backend. It executes
// typed upserts and pattern traversals and owns no query-planning logic of
// its own. All mutations happen during corpus build, before any queries run.
type GraphStore interface {
	// Connect establishes the backend connection. Fails with
	// graph.ErrStoreUnavailable when the backend cannot be reached.
	Connect(ctx context.Context) error

	// Close releases the connection; the store is unusable afterwards
	Close() error

	// UpsertNode merges a node by (kind, key). Idempotent: attributes are
	// merged on conflict.
	UpsertNode(ctx context.Context, kind graph.NodeKind, key string, attrs map[string]interface{}) error

	// UpsertEdge merges a typed edge between two existing keys. Idempotent:
	// no-op when the edge already exists.
	UpsertEdge(ctx context.Context, kind graph.EdgeKind, fromKey, toKey string) error

	// Traverse executes a pattern and returns one row per matching path,
	// carrying the requested attributes. Read-only.
	Traverse(ctx context.Context, p *query.Pattern) ([]query.Row, error)

	// Stats returns node and edge counts per kind
	Stats(ctx context.Context) (graph.Stats, error)
}
