package query

import (
	"fmt"
	"strings"

	"github.com/athapong/movie-graphrag/pkg/graph"
)

// Direction of a hop relative to the pattern's start node
type Direction string

const (
	// Out follows an edge from the start node to the hop target
	Out Direction = "OUT"
	// In follows an edge from the hop target to the start node
	In Direction = "IN"
)

// Hop is one typed traversal step from the start node to a neighbouring
// node kind, with an optional name filter and an optional aggregation
// column.
type Hop struct {
	Edge      graph.EdgeKind
	Direction Direction
	Target    graph.NodeKind
	Var       string
	// NameIn restricts the hop to targets whose key attribute is in the
	// given set. Empty means unfiltered.
	NameIn []string
	// Optional keeps start rows that have no matching target
	Optional bool
	// CollectAs aggregates the target key attribute into the named column
	CollectAs string
}

// Column requests one node attribute in the result rows
type Column struct {
	Var  string
	Attr string
	As   string
}

// Pattern is a declarative multi-hop traversal: a start node kind, a star
// of typed hops around it, the requested columns, and ordering/limit. It is
// compiled to Cypher for the Neo4j backend and interpreted directly by the
// in-memory backend.
type Pattern struct {
	Start      graph.NodeKind
	Var        string
	Hops       []Hop
	Returns    []Column
	OrderBy    string
	Descending bool
	Limit      int
}

// Row is one traversal result: requested columns, not raw graph elements
type Row map[string]interface{}

func NewPattern(start graph.NodeKind, v string) *Pattern {
	return &Pattern{
		Start:   start,
		Var:     v,
		Hops:    make([]Hop, 0),
		Returns: make([]Column, 0),
	}
}

func (p *Pattern) AddHop(h Hop) *Pattern {
	p.Hops = append(p.Hops, h)
	return p
}

func (p *Pattern) Return(v, attr, as string) *Pattern {
	p.Returns = append(p.Returns, Column{Var: v, Attr: attr, As: as})
	return p
}

func (p *Pattern) OrderedBy(column string, descending bool) *Pattern {
	p.OrderBy = column
	p.Descending = descending
	return p
}

func (p *Pattern) SetLimit(limit int) *Pattern {
	p.Limit = limit
	return p
}

// Validate checks every node and edge kind against the declared schema
func (p *Pattern) Validate() error {
	if !graph.KnownNodeKind(p.Start) {
		return graph.InvalidPattern("unknown start node kind %q", p.Start)
	}
	if p.Var == "" {
		return graph.InvalidPattern("start variable must be named")
	}
	for _, h := range p.Hops {
		from, to, ok := graph.EdgeEndpoints(h.Edge)
		if !ok {
			return graph.InvalidPattern("unknown edge kind %q", h.Edge)
		}
		if !graph.KnownNodeKind(h.Target) {
			return graph.InvalidPattern("unknown target node kind %q", h.Target)
		}
		switch h.Direction {
		case Out:
			if from != p.Start || to != h.Target {
				return graph.InvalidPattern("edge %s does not connect %s to %s", h.Edge, p.Start, h.Target)
			}
		case In:
			if from != h.Target || to != p.Start {
				return graph.InvalidPattern("edge %s does not connect %s to %s", h.Edge, h.Target, p.Start)
			}
		default:
			return graph.InvalidPattern("unknown hop direction %q", h.Direction)
		}
		if h.Var == "" {
			return graph.InvalidPattern("hop over %s must name its target variable", h.Edge)
		}
	}
	return nil
}

// Cypher compiles the pattern into a parameterised statement. Each hop that
// aggregates becomes a MATCH (or OPTIONAL MATCH) followed by a WITH carrying
// the previously collected columns, mirroring staged collect() queries.
func (p *Pattern) Cypher() (string, map[string]interface{}, error) {
	if err := p.Validate(); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	params := make(map[string]interface{})
	collected := make([]string, 0, len(p.Hops))

	fmt.Fprintf(&b, "MATCH (%s:%s)\n", p.Var, p.Start)

	for i, h := range p.Hops {
		match := "MATCH"
		if h.Optional {
			match = "OPTIONAL MATCH"
		}
		switch h.Direction {
		case Out:
			fmt.Fprintf(&b, "%s (%s)-[:%s]->(%s:%s)\n", match, p.Var, h.Edge, h.Var, h.Target)
		case In:
			fmt.Fprintf(&b, "%s (%s)<-[:%s]-(%s:%s)\n", match, p.Var, h.Edge, h.Var, h.Target)
		}
		if len(h.NameIn) > 0 {
			param := fmt.Sprintf("p%d", i)
			fmt.Fprintf(&b, "WHERE %s.%s IN $%s\n", h.Var, graph.KeyAttribute(h.Target), param)
			params[param] = toInterfaceSlice(h.NameIn)
		}
		if h.CollectAs != "" {
			carry := append([]string{p.Var}, collected...)
			fmt.Fprintf(&b, "WITH %s, collect(DISTINCT %s.%s) AS %s\n",
				strings.Join(carry, ", "), h.Var, graph.KeyAttribute(h.Target), h.CollectAs)
			collected = append(collected, h.CollectAs)
		}
	}

	returns := make([]string, 0, len(p.Returns)+len(collected))
	for _, c := range p.Returns {
		returns = append(returns, fmt.Sprintf("%s.%s AS %s", c.Var, c.Attr, c.As))
	}
	returns = append(returns, collected...)
	fmt.Fprintf(&b, "RETURN %s", strings.Join(returns, ", "))

	if p.OrderBy != "" {
		order := "ASC"
		if p.Descending {
			order = "DESC"
		}
		fmt.Fprintf(&b, "\nORDER BY %s %s", p.OrderBy, order)
	}
	if p.Limit > 0 {
		fmt.Fprintf(&b, "\nLIMIT %d", p.Limit)
	}

	return b.String(), params, nil
}

// CollectedColumns lists the aggregation column names in hop order
func (p *Pattern) CollectedColumns() []string {
	cols := make([]string, 0, len(p.Hops))
	for _, h := range p.Hops {
		if h.CollectAs != "" {
			cols = append(cols, h.CollectAs)
		}
	}
	return cols
}

func toInterfaceSlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
