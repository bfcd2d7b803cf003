package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an exact cosine-scan index. Entries keep their corpus
// insertion order, which is the tie-break order for equal scores, so query
// results are fully deterministic.
type MemoryStore struct {
	entries  []Entry
	position map[string]int // title -> index into entries
	mutex    sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:  make([]Entry, 0),
		position: make(map[string]int),
	}
}

// Upsert implements Store. Re-upserting a title replaces the entry in place,
// keeping its original insertion position.
func (s *MemoryStore) Upsert(ctx context.Context, entries []Entry) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, e := range entries {
		if i, ok := s.position[e.Document.Title]; ok {
			s.entries[i] = e
			continue
		}
		s.position[e.Document.Title] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return nil
}

// Search implements Store. Scores all entries, sorts descending with a
// stable sort so insertion order breaks ties, and returns the top K. A topK
// larger than the corpus returns the full ranked corpus.
func (s *MemoryStore) Search(ctx context.Context, vector []float32, topK int) ([]Result, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	results := make([]Result, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, Result{
			Document: e.Document,
			Score:    cosine(vector, e.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count implements Store
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries), nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
