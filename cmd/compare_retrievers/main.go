package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/athapong/movie-graphrag/pkg/corpus"
	"github.com/athapong/movie-graphrag/pkg/embedding"
	"github.com/athapong/movie-graphrag/pkg/generation"
	"github.com/athapong/movie-graphrag/pkg/graph/storage"
	"github.com/athapong/movie-graphrag/pkg/retrieval"
	"github.com/athapong/movie-graphrag/pkg/vectorstore"
	"github.com/athapong/movie-graphrag/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	corpusFile = flag.String("corpus", "", "Path to the JSON corpus of movie records")
	queryText  = flag.String("query", "comedy movies with good ratings", "Free-text query to run against both retrievers")
	topK       = flag.Int("top-k", 5, "Number of results per strategy")
	envFile    = flag.String("env", ".env", "Path to environment file")
	generate   = flag.Bool("generate", false, "Phrase final recommendations with the configured LLM")
	logLevel   = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(*envFile); err != nil {
		logger.Debugf("No env file loaded from %s: %v", *envFile, err)
	}

	if *corpusFile == "" {
		logger.Fatal("Corpus file must be specified")
	}

	records, err := corpus.LoadRecords(*corpusFile)
	if err != nil {
		logger.Fatalf("Failed to load corpus: %v", err)
	}
	logger.Infof("Loaded %d raw movie records", len(records))

	ctx := context.Background()

	var store storage.GraphStore
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		neo, err := storage.NewNeo4jStore(uri, os.Getenv("NEO4J_USERNAME"), os.Getenv("NEO4J_PASSWORD"))
		if err != nil {
			logger.Fatalf("Failed to create Neo4j store: %v", err)
		}
		store = neo
		logger.Infof("Using Neo4j graph store at %s", uri)
	} else {
		store = storage.NewMemoryStore()
		logger.Info("NEO4J_URI not set, using in-memory graph store")
	}
	if err := store.Connect(ctx); err != nil {
		logger.Fatalf("Failed to connect graph store: %v", err)
	}
	defer store.Close()

	var embedder embedding.Embedder
	if os.Getenv("OPENAI_API_KEY") != "" {
		model := os.Getenv("EMBEDDING_MODEL")
		if model == "" {
			model = "text-embedding-3-small"
		}
		embedder, err = embedding.NewOpenAIEmbedder(services.DefaultOpenAIClient(), model)
		if err != nil {
			logger.Fatalf("Failed to create embedder: %v", err)
		}
	} else {
		embedder = embedding.NewHashEmbedder(embedding.DefaultHashDimensions)
		logger.Info("OPENAI_API_KEY not set, using deterministic hash embedder")
	}

	vector := retrieval.NewVectorRetriever(vectorstore.NewMemoryStore(), embedder)
	builder := corpus.NewBuilder(store, vector)

	report, err := builder.Build(ctx, records)
	if err != nil {
		logger.Fatalf("Corpus build failed: %v", err)
	}
	logger.Infof("Built knowledge graph for %d movies (%d rows skipped)", report.Movies, report.Skipped)

	if err := vector.Index(ctx); err != nil {
		logger.Fatalf("Vector indexing failed: %v", err)
	}

	graphRetriever := retrieval.NewGraphRetriever(store, builder.GenreVocabulary())
	comparator := retrieval.NewComparator(vector, graphRetriever)

	comparison, err := comparator.Compare(ctx, *queryText, *topK)
	if err != nil {
		logger.Fatalf("Comparison failed: %v", err)
	}

	fmt.Println(comparison.Report())

	if *generate {
		generator := generation.NewOpenAIGenerator(services.DefaultOpenAIClient(), os.Getenv("GENERATION_MODEL"))

		vectorAnswer, err := generator.Recommend(ctx, generation.StrategyVector, *queryText,
			retrieval.VectorContext(comparison.VectorResults, retrieval.DefaultContextTokens), *topK)
		if err != nil {
			logger.Fatalf("RAG generation failed: %v", err)
		}
		graphAnswer, err := generator.Recommend(ctx, generation.StrategyGraph, *queryText,
			retrieval.GraphContext(comparison.GraphResults, retrieval.DefaultContextTokens), *topK)
		if err != nil {
			logger.Fatalf("GraphRAG generation failed: %v", err)
		}

		fmt.Printf("RAG recommendations:\n%s\n\nGraphRAG recommendations:\n%s\n", vectorAnswer, graphAnswer)
	}
}
