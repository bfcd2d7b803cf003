package storage

import (
	"context"
	"fmt"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/graph/query"
	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
)

// Neo4jStore implements GraphStore against a Neo4j backend
type Neo4jStore struct {
	driver  neo4j.Driver
	uri     string
	auth    neo4j.AuthToken
	session neo4j.Session
}

// NewNeo4jStore creates a store for the given connection descriptor. The
// connection itself is established by Connect.
func NewNeo4jStore(uri, username, password string) (*Neo4jStore, error) {
	auth := neo4j.BasicAuth(username, password, "")
	driver, err := neo4j.NewDriver(uri, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %v", err)
	}

	return &Neo4jStore{
		driver: driver,
		uri:    uri,
		auth:   auth,
	}, nil
}

// Connect implements GraphStore
func (s *Neo4jStore) Connect(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(); err != nil {
		return graph.StoreUnavailable(err)
	}
	s.session = s.driver.NewSession(neo4j.SessionConfig{})
	return nil
}

// Close implements GraphStore
func (s *Neo4jStore) Close() error {
	if s.session != nil {
		s.session.Close()
		s.session = nil
	}
	if s.driver != nil {
		return s.driver.Close()
	}
	return nil
}

// UpsertNode implements GraphStore using MERGE on the kind's key attribute
func (s *Neo4jStore) UpsertNode(ctx context.Context, kind graph.NodeKind, key string, attrs map[string]interface{}) error {
	if !graph.KnownNodeKind(kind) {
		return graph.InvalidPattern("unknown node kind %q", kind)
	}
	if s.session == nil {
		return graph.StoreUnavailable(fmt.Errorf("store not connected"))
	}

	stmt := fmt.Sprintf(`
		MERGE (n:%s {%s: $key})
		SET n += $attrs
	`, kind, graph.KeyAttribute(kind))

	_, err := s.session.Run(stmt, map[string]interface{}{
		"key":   key,
		"attrs": attrs,
	})
	if err != nil {
		return graph.StoreUnavailable(err)
	}
	return nil
}

// UpsertEdge implements GraphStore. Endpoints are merged by key as well, so
// edge upserts are order-independent with node upserts.
func (s *Neo4jStore) UpsertEdge(ctx context.Context, kind graph.EdgeKind, fromKey, toKey string) error {
	from, to, ok := graph.EdgeEndpoints(kind)
	if !ok {
		return graph.InvalidPattern("unknown edge kind %q", kind)
	}
	if s.session == nil {
		return graph.StoreUnavailable(fmt.Errorf("store not connected"))
	}

	stmt := fmt.Sprintf(`
		MERGE (a:%s {%s: $from})
		MERGE (b:%s {%s: $to})
		MERGE (a)-[:%s]->(b)
	`, from, graph.KeyAttribute(from), to, graph.KeyAttribute(to), kind)

	_, err := s.session.Run(stmt, map[string]interface{}{
		"from": fromKey,
		"to":   toKey,
	})
	if err != nil {
		return graph.StoreUnavailable(err)
	}
	return nil
}

// Traverse implements GraphStore by compiling the pattern to Cypher
func (s *Neo4jStore) Traverse(ctx context.Context, p *query.Pattern) ([]query.Row, error) {
	stmt, params, err := p.Cypher()
	if err != nil {
		return nil, err
	}
	if s.session == nil {
		return nil, graph.StoreUnavailable(fmt.Errorf("store not connected"))
	}

	result, err := s.session.Run(stmt, params)
	if err != nil {
		return nil, graph.StoreUnavailable(err)
	}

	rows := make([]query.Row, 0)
	for result.Next() {
		record := result.Record()
		row := make(query.Row, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = record.Values[i]
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, graph.StoreUnavailable(err)
	}

	return rows, nil
}

// Stats implements GraphStore
func (s *Neo4jStore) Stats(ctx context.Context) (graph.Stats, error) {
	if s.session == nil {
		return nil, graph.StoreUnavailable(fmt.Errorf("store not connected"))
	}

	stats := make(graph.Stats)

	result, err := s.session.Run(`MATCH (n) RETURN labels(n)[0] AS label, count(n) AS count`, nil)
	if err != nil {
		return nil, graph.StoreUnavailable(err)
	}
	for result.Next() {
		record := result.Record()
		label, _ := record.Values[0].(string)
		count, _ := record.Values[1].(int64)
		stats[label] = count
	}

	result, err = s.session.Run(`MATCH ()-[r]->() RETURN type(r) AS rel, count(r) AS count`, nil)
	if err != nil {
		return nil, graph.StoreUnavailable(err)
	}
	for result.Next() {
		record := result.Record()
		rel, _ := record.Values[0].(string)
		count, _ := record.Values[1].(int64)
		stats[rel] = count
	}

	return stats, nil
}
