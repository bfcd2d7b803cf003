package query

import (
	"strings"
	"testing"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/pkg/errors"
)

func moviePattern() *Pattern {
	p := NewPattern(graph.NodeMovie, "m").
		Return("m", "title", "title").
		Return("m", "rating", "rating")
	p.AddHop(Hop{
		Edge:      graph.EdgeHasGenre,
		Direction: Out,
		Target:    graph.NodeGenre,
		Var:       "g",
		NameIn:    []string{"comedy"},
		CollectAs: "genres",
	})
	p.AddHop(Hop{
		Edge:      graph.EdgeActedIn,
		Direction: In,
		Target:    graph.NodePerson,
		Var:       "a",
		Optional:  true,
		CollectAs: "actors",
	})
	return p
}

func TestCypherCompilation(t *testing.T) {
	stmt, params, err := moviePattern().OrderedBy("rating", true).SetLimit(10).Cypher()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"MATCH (m:Movie)",
		"MATCH (m)-[:HAS_GENRE]->(g:Genre)",
		"WHERE g.name IN $p0",
		"WITH m, collect(DISTINCT g.name) AS genres",
		"OPTIONAL MATCH (m)<-[:ACTED_IN]-(a:Person)",
		"WITH m, genres, collect(DISTINCT a.name) AS actors",
		"RETURN m.title AS title, m.rating AS rating, genres, actors",
		"ORDER BY rating DESC",
		"LIMIT 10",
	}
	for _, fragment := range expected {
		if !strings.Contains(stmt, fragment) {
			t.Errorf("compiled statement missing %q:\n%s", fragment, stmt)
		}
	}

	filter, ok := params["p0"].([]interface{})
	if !ok || len(filter) != 1 || filter[0] != "comedy" {
		t.Errorf("expected genre filter parameter, got %v", params)
	}
}

func TestValidateRejectsUnknownKinds(t *testing.T) {
	tests := []struct {
		name    string
		pattern *Pattern
	}{
		{
			name:    "unknown start kind",
			pattern: NewPattern(graph.NodeKind("Studio"), "s"),
		},
		{
			name: "unknown edge kind",
			pattern: NewPattern(graph.NodeMovie, "m").AddHop(Hop{
				Edge:      graph.EdgeKind("PRODUCED"),
				Direction: In,
				Target:    graph.NodePerson,
				Var:       "p",
			}),
		},
		{
			name: "edge direction mismatch",
			pattern: NewPattern(graph.NodeMovie, "m").AddHop(Hop{
				Edge:      graph.EdgeActedIn,
				Direction: Out, // ACTED_IN points at Movie, not away from it
				Target:    graph.NodePerson,
				Var:       "p",
			}),
		},
		{
			name: "unknown target kind",
			pattern: NewPattern(graph.NodeMovie, "m").AddHop(Hop{
				Edge:      graph.EdgeHasGenre,
				Direction: Out,
				Target:    graph.NodeKind("Tag"),
				Var:       "t",
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pattern.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, graph.ErrInvalidPattern) {
				t.Errorf("expected ErrInvalidPattern, got %v", err)
			}
		})
	}
}

func TestValidPatternPasses(t *testing.T) {
	if err := moviePattern().Validate(); err != nil {
		t.Fatalf("expected valid pattern, got %v", err)
	}
}

func TestCollectedColumns(t *testing.T) {
	cols := moviePattern().CollectedColumns()
	if len(cols) != 2 || cols[0] != "genres" || cols[1] != "actors" {
		t.Errorf("unexpected collected columns: %v", cols)
	}
}
