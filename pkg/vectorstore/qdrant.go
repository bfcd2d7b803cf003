package vectorstore

import (
	"context"
	"fmt"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore keeps the document index in a Qdrant collection, one point
// per movie. Point IDs are derived from the title so upserts stay
// idempotent across rebuilds.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	dimensions int
}

// QdrantConfig is the connection descriptor for a Qdrant backend
type QdrantConfig struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

func NewQdrantStore(cfg QdrantConfig, collection string, dimensions int) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %v", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
		dimensions: dimensions,
	}, nil
}

// EnsureCollection creates the collection with cosine distance when it does
// not exist yet
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err == nil && info != nil {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(s.dimensions),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %v", err)
	}
	return nil
}

// Upsert implements Store
func (s *QdrantStore) Upsert(ctx context.Context, entries []Entry) error {
	points := make([]*qdrant.PointStruct, 0, len(entries))
	for _, e := range entries {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(e.Document.Title)).String()),
			Vectors: qdrant.NewVectors(e.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"title":  e.Document.Title,
				"text":   e.Document.Text,
				"rating": e.Document.Source.Rating,
			}),
		})
	}

	waitUpsert := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &waitUpsert,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %v", err)
	}
	return nil
}

// Search implements Store
func (s *QdrantStore) Search(ctx context.Context, vector []float32, topK int) ([]Result, error) {
	limit := uint64(topK)
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{
				Enable: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search in Qdrant: %v", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		title := hit.Payload["title"].GetStringValue()
		results = append(results, Result{
			Document: graph.Document{
				Title: title,
				Text:  hit.Payload["text"].GetStringValue(),
				Source: graph.Record{
					Title:  title,
					Rating: hit.Payload["rating"].GetDoubleValue(),
				},
			},
			Score: float64(hit.Score),
		})
	}
	return results, nil
}

// Count implements Store
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection info: %v", err)
	}
	return int(info.GetPointsCount()), nil
}
