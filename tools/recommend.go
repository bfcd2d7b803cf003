package tools

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/athapong/movie-graphrag/pkg/corpus"
	"github.com/athapong/movie-graphrag/pkg/embedding"
	"github.com/athapong/movie-graphrag/pkg/generation"
	"github.com/athapong/movie-graphrag/pkg/graph/storage"
	"github.com/athapong/movie-graphrag/pkg/retrieval"
	"github.com/athapong/movie-graphrag/pkg/vectorstore"
	"github.com/athapong/movie-graphrag/services"
	"github.com/athapong/movie-graphrag/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const defaultTopK = 5

// harness wires the corpus builder, both retrievers and the comparator to
// whatever backends the environment configures: Neo4j or the in-memory
// graph store, Qdrant or the in-memory vector store, OpenAI or the
// deterministic hash embedder.
type harness struct {
	store      storage.GraphStore
	builder    *corpus.Builder
	vector     *retrieval.VectorRetriever
	graph      *retrieval.GraphRetriever
	comparator *retrieval.Comparator
}

var defaultHarness = sync.OnceValue(func() *harness {
	ctx := context.Background()

	var store storage.GraphStore
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		neo, err := storage.NewNeo4jStore(uri, os.Getenv("NEO4J_USERNAME"), os.Getenv("NEO4J_PASSWORD"))
		if err != nil {
			panic(fmt.Sprintf("failed to create Neo4j store: %v", err))
		}
		store = neo
	} else {
		store = storage.NewMemoryStore()
	}
	if err := store.Connect(ctx); err != nil {
		panic(fmt.Sprintf("failed to connect graph store: %v", err))
	}

	var embedder embedding.Embedder
	if os.Getenv("OPENAI_API_KEY") != "" {
		model := os.Getenv("EMBEDDING_MODEL")
		if model == "" {
			model = "text-embedding-3-small"
		}
		e, err := embedding.NewOpenAIEmbedder(services.DefaultOpenAIClient(), model)
		if err != nil {
			panic(err.Error())
		}
		embedder = e
	} else {
		embedder = embedding.NewHashEmbedder(embedding.DefaultHashDimensions)
	}

	var docStore vectorstore.Store
	if host := os.Getenv("QDRANT_HOST"); host != "" {
		port, err := strconv.Atoi(os.Getenv("QDRANT_PORT"))
		if err != nil {
			panic(fmt.Sprintf("failed to parse QDRANT_PORT: %v", err))
		}
		qs, err := vectorstore.NewQdrantStore(vectorstore.QdrantConfig{
			Host:   host,
			Port:   port,
			APIKey: os.Getenv("QDRANT_API_KEY"),
			UseTLS: os.Getenv("QDRANT_API_KEY") != "",
		}, "movies", embedder.Dimensions())
		if err != nil {
			panic(err.Error())
		}
		if err := qs.EnsureCollection(ctx); err != nil {
			panic(err.Error())
		}
		docStore = qs
	} else {
		docStore = vectorstore.NewMemoryStore()
	}

	vector := retrieval.NewVectorRetriever(docStore, embedder)
	builder := corpus.NewBuilder(store, vector)
	graphRetriever := retrieval.NewGraphRetriever(store, builder.GenreVocabulary())

	return &harness{
		store:      store,
		builder:    builder,
		vector:     vector,
		graph:      graphRetriever,
		comparator: retrieval.NewComparator(vector, graphRetriever),
	}
})

func RegisterMovieTools(s *server.MCPServer) {
	indexCorpusTool := mcp.NewTool("movie_index_corpus",
		mcp.WithDescription("Ingest a JSON corpus of movie records into the knowledge graph and the vector index"),
		mcp.WithString("filePath", mcp.Required(), mcp.Description("Path to the JSON corpus file")),
	)

	vectorSearchTool := mcp.NewTool("movie_search_vector",
		mcp.WithDescription("Search movies by vector similarity over flat document text (baseline RAG)"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query")),
		mcp.WithNumber("top_k", mcp.Description("Number of results to return (default 5)")),
	)

	graphSearchTool := mcp.NewTool("movie_search_graph",
		mcp.WithDescription("Search movies by knowledge-graph traversal over genres, cast and directors (GraphRAG)"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query")),
		mcp.WithNumber("top_k", mcp.Description("Number of results to return (default 5)")),
	)

	compareTool := mcp.NewTool("movie_compare",
		mcp.WithDescription("Run both retrieval strategies on the same query and report their result sets side by side"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query")),
		mcp.WithNumber("top_k", mcp.Description("Number of results per strategy (default 5)")),
		mcp.WithBoolean("generate", mcp.Description("Also phrase final recommendations with the configured LLM")),
	)

	s.AddTool(indexCorpusTool, util.ErrorGuard(indexCorpusHandler))
	s.AddTool(vectorSearchTool, util.ErrorGuard(vectorSearchHandler))
	s.AddTool(graphSearchTool, util.ErrorGuard(graphSearchHandler))
	s.AddTool(compareTool, util.ErrorGuard(compareHandler))
}

func indexCorpusHandler(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	filePath := arguments["filePath"].(string)
	ctx := context.Background()

	records, err := corpus.LoadRecords(filePath)
	if err != nil {
		return nil, err
	}

	h := defaultHarness()
	report, err := h.builder.Build(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("corpus build failed: %v", err)
	}
	if err := h.vector.Index(ctx); err != nil {
		return nil, fmt.Errorf("vector indexing failed: %v", err)
	}

	result := fmt.Sprintf("Indexed %d movies (%d rows skipped) from %s", report.Movies, report.Skipped, filePath)
	return mcp.NewToolResultText(result), nil
}

func vectorSearchHandler(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	query := arguments["query"].(string)
	topK := intArgument(arguments, "top_k", defaultTopK)

	results, err := defaultHarness().vector.Query(context.Background(), query, topK)
	if err != nil {
		return nil, err
	}

	resultText := fmt.Sprintf("Vector results for %q:\n", query)
	if len(results) == 0 {
		resultText += "No indexed documents matched the query.\n"
	}
	for i, hit := range results {
		resultText += fmt.Sprintf("Result %d (Score: %.4f):\n%s\n\n", i+1, hit.Score, hit.Document.Text)
	}
	return mcp.NewToolResultText(resultText), nil
}

func graphSearchHandler(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	query := arguments["query"].(string)
	topK := intArgument(arguments, "top_k", defaultTopK)

	rows, err := defaultHarness().graph.Query(context.Background(), query, topK)
	if err != nil {
		return nil, err
	}

	resultText := fmt.Sprintf("Graph results for %q:\n\n%s\n", query, retrieval.GraphContext(rows, retrieval.DefaultContextTokens))
	return mcp.NewToolResultText(resultText), nil
}

func compareHandler(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	query := arguments["query"].(string)
	topK := intArgument(arguments, "top_k", defaultTopK)
	generate, _ := arguments["generate"].(bool)

	ctx := context.Background()
	h := defaultHarness()

	comparison, err := h.comparator.Compare(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	resultText := comparison.Report()

	if generate {
		if os.Getenv("OPENAI_API_KEY") == "" {
			return nil, fmt.Errorf("generation requested but OPENAI_API_KEY is not set")
		}
		generator := generation.NewOpenAIGenerator(services.DefaultOpenAIClient(), os.Getenv("GENERATION_MODEL"))

		vectorAnswer, err := generator.Recommend(ctx, generation.StrategyVector, query,
			retrieval.VectorContext(comparison.VectorResults, retrieval.DefaultContextTokens), topK)
		if err != nil {
			return nil, err
		}
		graphAnswer, err := generator.Recommend(ctx, generation.StrategyGraph, query,
			retrieval.GraphContext(comparison.GraphResults, retrieval.DefaultContextTokens), topK)
		if err != nil {
			return nil, err
		}

		resultText += fmt.Sprintf("\nRAG recommendations:\n%s\n\nGraphRAG recommendations:\n%s\n", vectorAnswer, graphAnswer)
	}

	return mcp.NewToolResultText(resultText), nil
}

func intArgument(arguments map[string]interface{}, key string, fallback int) int {
	if v, ok := arguments[key].(float64); ok && v > 0 {
		return int(v)
	}
	return fallback
}
