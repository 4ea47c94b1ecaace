package worker

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StringTools serves string manipulation: uppercase and concat.
type StringTools struct{}

func (StringTools) Register(srv *server.MCPServer) {
	srv.AddTool(uppercaseTool(), handleUppercase)
	srv.AddTool(concatTool(), handleConcat)
}

func uppercaseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "uppercase",
		Description: "Convert a string to uppercase letters.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "The text to convert to uppercase",
				},
			},
			Required: []string{"text"},
		},
	}
}

func concatTool() mcp.Tool {
	return mcp.Tool{
		Name:        "concat",
		Description: "Concatenate two strings with a separator between them.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"a": map[string]any{
					"type":        "string",
					"description": "First string",
				},
				"b": map[string]any{
					"type":        "string",
					"description": "Second string",
				},
				"separator": map[string]any{
					"type":        "string",
					"description": "Separator to place between the strings",
					"default":     " ",
				},
			},
			// separator is optional: callers that omit it get the default
			Required: []string{"a", "b"},
		},
	}
}

func handleUppercase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.ToUpper(text)), nil
}

func handleConcat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := request.RequireString("a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := request.RequireString("b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	separator := request.GetString("separator", " ")

	return mcp.NewToolResultText(a + separator + b), nil
}
