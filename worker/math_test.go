package worker

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the text of the first content item.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestHandleAdd(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		expected  string
		wantError bool
	}{
		{
			name:     "positive operands",
			args:     map[string]any{"a": float64(5), "b": float64(3)},
			expected: "8",
		},
		{
			name:     "negative operand",
			args:     map[string]any{"a": float64(-10), "b": float64(5)},
			expected: "-5",
		},
		{
			name:     "zero operands",
			args:     map[string]any{"a": float64(0), "b": float64(0)},
			expected: "0",
		},
		{
			name:      "missing operand",
			args:      map[string]any{"a": float64(5)},
			wantError: true,
		},
		{
			name:      "string operand",
			args:      map[string]any{"a": "five", "b": float64(3)},
			wantError: true,
		},
		{
			name:      "fractional operand",
			args:      map[string]any{"a": float64(2.5), "b": float64(3)},
			wantError: true,
		},
		{
			name:      "no arguments",
			args:      nil,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleAdd(context.Background(), callRequest("add", tt.args))
			if err != nil {
				t.Fatalf("unexpected handler error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Fatalf("expected error result, got %q", resultText(t, result))
				}
				return
			}

			if result.IsError {
				t.Fatalf("unexpected error result: %s", resultText(t, result))
			}
			if got := resultText(t, result); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestHandleMultiply(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		expected  string
		wantError bool
	}{
		{
			name:     "positive operands",
			args:     map[string]any{"a": float64(7), "b": float64(6)},
			expected: "42",
		},
		{
			name:     "negative operand",
			args:     map[string]any{"a": float64(-3), "b": float64(4)},
			expected: "-12",
		},
		{
			name:     "zero operand",
			args:     map[string]any{"a": float64(100), "b": float64(0)},
			expected: "0",
		},
		{
			name:      "missing operand",
			args:      map[string]any{"b": float64(4)},
			wantError: true,
		},
		{
			name:      "boolean operand",
			args:      map[string]any{"a": true, "b": float64(4)},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleMultiply(context.Background(), callRequest("multiply", tt.args))
			if err != nil {
				t.Fatalf("unexpected handler error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Fatalf("expected error result, got %q", resultText(t, result))
				}
				return
			}

			if result.IsError {
				t.Fatalf("unexpected error result: %s", resultText(t, result))
			}
			if got := resultText(t, result); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMathToolDeclarations(t *testing.T) {
	tests := []struct {
		tool mcp.Tool
		name string
	}{
		{tool: addTool(), name: "add"},
		{tool: multiplyTool(), name: "multiply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.name {
				t.Errorf("expected name %q, got %q", tt.name, tt.tool.Name)
			}
			if tt.tool.Description == "" {
				t.Error("expected a description")
			}

			schema := tt.tool.InputSchema
			if schema.Type != "object" {
				t.Errorf("expected object schema, got %q", schema.Type)
			}
			if len(schema.Required) != 2 {
				t.Fatalf("expected 2 required arguments, got %v", schema.Required)
			}
			if schema.Required[0] != "a" || schema.Required[1] != "b" {
				t.Errorf("expected required [a b], got %v", schema.Required)
			}

			for _, key := range []string{"a", "b"} {
				prop, ok := schema.Properties[key].(map[string]any)
				if !ok {
					t.Fatalf("property %q not declared", key)
				}
				if prop["type"] != "integer" {
					t.Errorf("property %q: expected integer type, got %v", key, prop["type"])
				}
			}
		})
	}
}
