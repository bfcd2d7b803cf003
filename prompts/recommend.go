package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterRecommendationPrompts(s *server.MCPServer) {
	prompt := mcp.NewPrompt("movie_recommendation",
		mcp.WithPromptDescription("Recommend movies by comparing vector and graph retrieval"),
		mcp.WithArgument("query", mcp.ArgumentDescription("What kind of movies the user is looking for")),
	)
	s.AddPrompt(prompt, recommendationHandler)
}

func recommendationHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := request.Params.Arguments["query"]

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Movie recommendations for %q", query),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf("Use the movie_compare tool with query %q to retrieve candidates with both strategies, then explain how the two result sets differ and which movies to recommend", query),
				},
			},
		},
	}, nil
}
