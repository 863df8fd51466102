// Package mcptools exposes the completion and embedding delegations as Model
// Context Protocol tools.
package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/ollamalocal/internal/domain/assistant"
)

// Assistant is the subset of assistant.Service the tools call.
type Assistant interface {
	CompleteWith(ctx context.Context, in assistant.CompleteInput) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

type completeArgs struct {
	Message string `json:"message" jsonschema:"the prompt sent as the only user turn"`
	System  string `json:"system,omitempty" jsonschema:"optional system instruction placed before the prompt"`
}

type embedArgs struct {
	Text string `json:"text" jsonschema:"the text to embed"`
}

// NewServer returns an MCP server with the complete and embed tools registered.
func NewServer(a Assistant, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "ollamalocal", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete",
		Description: "Send a prompt to the local model as a single user turn and return its reply.",
	}, completeTool(a))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "embed",
		Description: "Compute the embedding vector of a text with the local embedding model.",
	}, embedTool(a))

	return server
}

// Run serves the tools over stdio until ctx is canceled or the client disconnects.
func Run(ctx context.Context, a Assistant, version string) error {
	return NewServer(a, version).Run(ctx, &mcp.StdioTransport{})
}

func completeTool(a Assistant) func(context.Context, *mcp.CallToolRequest, completeArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args completeArgs) (*mcp.CallToolResult, any, error) {
		if args.Message == "" {
			return errorResult("message is required"), nil, nil
		}
		text, err := a.CompleteWith(ctx, assistant.CompleteInput{System: args.System, Prompt: args.Message})
		if err != nil {
			return errorResult("Completion failed: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, nil, nil
	}
}

func embedTool(a Assistant) func(context.Context, *mcp.CallToolRequest, embedArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args embedArgs) (*mcp.CallToolResult, any, error) {
		if args.Text == "" {
			return errorResult("text is required"), nil, nil
		}
		vec, err := a.Embed(ctx, args.Text)
		if err != nil {
			return errorResult("Embedding failed: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("embedding with %d dimensions", len(vec))}},
			StructuredContent: map[string]any{"dims": len(vec), "embedding": vec},
		}, nil, nil
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: msg}}, IsError: true}
}
