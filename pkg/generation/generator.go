package generation

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Strategy selects the prompt variant for one retrieval approach
type Strategy string

const (
	StrategyVector Strategy = "rag"
	StrategyGraph  Strategy = "graphrag"
)

const vectorSystemPrompt = "You are a movie recommendation expert. You MUST ONLY recommend movies from the provided context. " +
	"Do not recommend any movies that are not in the context. Base your recommendations strictly on the provided movie information."

const graphSystemPrompt = "You are a movie recommendation expert. You MUST ONLY recommend movies from the provided graph context. " +
	"Do not recommend any movies that are not in the context. Use the graph relationships and connections between movies, actors, " +
	"directors, and genres to provide intelligent recommendations based ONLY on the provided data."

// Generator phrases final answers from a retrieval context. Optional
// collaborator: the retrieval core's obligation ends at producing the
// context string.
type Generator interface {
	Recommend(ctx context.Context, strategy Strategy, query, context string, topK int) (string, error)
}

// OpenAIGenerator implements Generator with a chat completion
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(client *openai.Client, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIGenerator{
		client: client,
		model:  model,
	}
}

// Recommend implements Generator
func (g *OpenAIGenerator) Recommend(ctx context.Context, strategy Strategy, query, contextBlock string, topK int) (string, error) {
	system := vectorSystemPrompt
	if strategy == StrategyGraph {
		system = graphSystemPrompt
	}

	prompt := fmt.Sprintf(
		"Query: %s\n\nContext (ONLY recommend from these movies):\n%s\n\n"+
			"Please provide your top %d movie recommendations from the context above with detailed reasoning. "+
			"Do not recommend any movies not listed in the context.",
		query, contextBlock, topK)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   500,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate recommendations: %v", err)
	}

	return resp.Choices[0].Message.Content, nil
}
