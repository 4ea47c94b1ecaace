package worker

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MathTools serves integer arithmetic: add and multiply.
type MathTools struct{}

func (MathTools) Register(srv *server.MCPServer) {
	srv.AddTool(addTool(), handleAdd)
	srv.AddTool(multiplyTool(), handleMultiply)
}

func addTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add",
		Description: "Add two integers together and return the sum.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"a": map[string]any{
					"type":        "integer",
					"description": "First operand",
				},
				"b": map[string]any{
					"type":        "integer",
					"description": "Second operand",
				},
			},
			Required: []string{"a", "b"},
		},
	}
}

func multiplyTool() mcp.Tool {
	return mcp.Tool{
		Name:        "multiply",
		Description: "Multiply two integers and return the product.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"a": map[string]any{
					"type":        "integer",
					"description": "First operand",
				},
				"b": map[string]any{
					"type":        "integer",
					"description": "Second operand",
				},
			},
			Required: []string{"a", "b"},
		},
	}
}

func handleAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, b, err := integerPair(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strconv.Itoa(a + b)), nil
}

func handleMultiply(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, b, err := integerPair(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strconv.Itoa(a * b)), nil
}

func integerPair(request mcp.CallToolRequest) (int, int, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return 0, 0, fmt.Errorf("arguments must be an object")
	}

	a, err := integerArg(args, "a")
	if err != nil {
		return 0, 0, err
	}
	b, err := integerArg(args, "b")
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func integerArg(args map[string]any, key string) (int, error) {
	value, exists := args[key]
	if !exists {
		return 0, fmt.Errorf("missing required argument %q", key)
	}

	// JSON numbers arrive as float64
	number, ok := value.(float64)
	if !ok || number != math.Trunc(number) {
		return 0, fmt.Errorf("argument %q must be an integer", key)
	}
	return int(number), nil
}
