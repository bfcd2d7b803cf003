package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/athapong/movie-graphrag/pkg/graph/query"
)

// MemoryStore implements GraphStore with in-memory maps. It interprets
// traversal patterns directly and backs tests and runs without a Neo4j
// instance.
type MemoryStore struct {
	nodes  map[graph.NodeKind]map[string]map[string]interface{}
	edges  map[graph.EdgeKind]map[string]map[string]bool
	closed bool
	mutex  sync.RWMutex
}

// NewMemoryStore creates an empty in-memory graph store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[graph.NodeKind]map[string]map[string]interface{}),
		edges: make(map[graph.EdgeKind]map[string]map[string]bool),
	}
}

// Connect implements GraphStore
func (s *MemoryStore) Connect(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = false
	return nil
}

// Close implements GraphStore. A closed store reports ErrStoreUnavailable,
// which lets tests exercise backend-outage paths.
func (s *MemoryStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) unavailable() error {
	if s.closed {
		return graph.StoreUnavailable(fmt.Errorf("memory store closed"))
	}
	return nil
}

// UpsertNode implements GraphStore
func (s *MemoryStore) UpsertNode(ctx context.Context, kind graph.NodeKind, key string, attrs map[string]interface{}) error {
	if !graph.KnownNodeKind(kind) {
		return graph.InvalidPattern("unknown node kind %q", kind)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.unavailable(); err != nil {
		return err
	}

	byKey, ok := s.nodes[kind]
	if !ok {
		byKey = make(map[string]map[string]interface{})
		s.nodes[kind] = byKey
	}

	existing, ok := byKey[key]
	if !ok {
		existing = make(map[string]interface{})
		byKey[key] = existing
	}
	existing[graph.KeyAttribute(kind)] = key
	for k, v := range attrs {
		existing[k] = v
	}
	return nil
}

// UpsertEdge implements GraphStore
func (s *MemoryStore) UpsertEdge(ctx context.Context, kind graph.EdgeKind, fromKey, toKey string) error {
	if _, _, ok := graph.EdgeEndpoints(kind); !ok {
		return graph.InvalidPattern("unknown edge kind %q", kind)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.unavailable(); err != nil {
		return err
	}

	byFrom, ok := s.edges[kind]
	if !ok {
		byFrom = make(map[string]map[string]bool)
		s.edges[kind] = byFrom
	}
	toSet, ok := byFrom[fromKey]
	if !ok {
		toSet = make(map[string]bool)
		byFrom[fromKey] = toSet
	}
	toSet[toKey] = true
	return nil
}

// Traverse implements GraphStore by walking the maps. Start nodes are
// visited in key order so results are deterministic.
func (s *MemoryStore) Traverse(ctx context.Context, p *query.Pattern) ([]query.Row, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for _, c := range p.Returns {
		if c.Var != p.Var {
			return nil, graph.InvalidPattern("memory backend returns start-node columns only, got %q", c.Var)
		}
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.unavailable(); err != nil {
		return nil, err
	}

	startKeys := make([]string, 0, len(s.nodes[p.Start]))
	for key := range s.nodes[p.Start] {
		startKeys = append(startKeys, key)
	}
	sort.Strings(startKeys)

	rows := make([]query.Row, 0, len(startKeys))

next:
	for _, startKey := range startKeys {
		row := make(query.Row)
		for _, h := range p.Hops {
			matched := s.hopTargets(h, startKey)
			if len(h.NameIn) > 0 {
				allowed := make(map[string]bool, len(h.NameIn))
				for _, n := range h.NameIn {
					allowed[n] = true
				}
				filtered := matched[:0]
				for _, m := range matched {
					if allowed[m] {
						filtered = append(filtered, m)
					}
				}
				matched = filtered
			}
			if !h.Optional && len(matched) == 0 {
				continue next
			}
			if h.CollectAs != "" {
				sort.Strings(matched)
				row[h.CollectAs] = matched
			}
		}
		attrs := s.nodes[p.Start][startKey]
		for _, c := range p.Returns {
			row[c.As] = attrs[c.Attr]
		}
		rows = append(rows, row)
	}

	if p.OrderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			less := lessValue(rows[i][p.OrderBy], rows[j][p.OrderBy])
			if p.Descending {
				return lessValue(rows[j][p.OrderBy], rows[i][p.OrderBy])
			}
			return less
		})
	}
	if p.Limit > 0 && len(rows) > p.Limit {
		rows = rows[:p.Limit]
	}

	return rows, nil
}

// hopTargets returns the key attributes of nodes reachable from startKey
// over one hop, honouring edge direction
func (s *MemoryStore) hopTargets(h query.Hop, startKey string) []string {
	targets := make([]string, 0)
	switch h.Direction {
	case query.Out:
		for to := range s.edges[h.Edge][startKey] {
			if _, ok := s.nodes[h.Target][to]; ok {
				targets = append(targets, to)
			}
		}
	case query.In:
		for from, toSet := range s.edges[h.Edge] {
			if toSet[startKey] {
				if _, ok := s.nodes[h.Target][from]; ok {
					targets = append(targets, from)
				}
			}
		}
	}
	return targets
}

// Stats implements GraphStore
func (s *MemoryStore) Stats(ctx context.Context) (graph.Stats, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.unavailable(); err != nil {
		return nil, err
	}

	stats := make(graph.Stats)
	for kind, byKey := range s.nodes {
		stats[string(kind)] = int64(len(byKey))
	}
	for kind, byFrom := range s.edges {
		var count int64
		for _, toSet := range byFrom {
			count += int64(len(toSet))
		}
		stats[string(kind)] = count
	}
	return stats, nil
}

func lessValue(a, b interface{}) bool {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	case string:
		bv, _ := b.(string)
		return av < bv
	default:
		return false
	}
}
