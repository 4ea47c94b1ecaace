package coordinator

import (
	"testing"

	"github.com/ollama/ollama/api"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func TestConvertToolsToOllama(t *testing.T) {
	tests := []struct {
		name     string
		input    []ToolRecord
		expected int
		validate func(t *testing.T, result []api.Tool)
	}{
		{
			name:     "empty catalog",
			input:    []ToolRecord{},
			expected: 0,
		},
		{
			name: "simple tool",
			input: []ToolRecord{
				{
					Name:        "uppercase",
					Description: "Convert a string to uppercase letters.",
					Worker:      "strings",
					InputSchema: mcptypes.ToolInputSchema{
						Type:       "object",
						Properties: map[string]any{},
						Required:   []string{},
					},
				},
			},
			expected: 1,
			validate: func(t *testing.T, result []api.Tool) {
				if result[0].Type != "function" {
					t.Errorf("expected type 'function', got %q", result[0].Type)
				}
				if result[0].Function.Name != "uppercase" {
					t.Errorf("expected name 'uppercase', got %q", result[0].Function.Name)
				}
				if result[0].Function.Description != "Convert a string to uppercase letters." {
					t.Errorf("description mismatch: %q", result[0].Function.Description)
				}
			},
		},
		{
			name: "tool with properties",
			input: []ToolRecord{
				{
					Name:        "concat",
					Description: "Concatenate two strings with a separator between them.",
					Worker:      "strings",
					InputSchema: mcptypes.ToolInputSchema{
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
								"type":    "string",
								"default": " ",
							},
						},
						Required: []string{"a", "b"},
					},
				},
			},
			expected: 1,
			validate: func(t *testing.T, result []api.Tool) {
				params := result[0].Function.Parameters
				if params.Type != "object" {
					t.Errorf("expected type 'object', got %q", params.Type)
				}
				if len(params.Required) != 2 {
					t.Errorf("expected 2 required fields, got %d", len(params.Required))
				}
				if len(params.Properties) != 3 {
					t.Errorf("expected 3 properties, got %d", len(params.Properties))
				}

				aProp, ok := params.Properties["a"]
				if !ok {
					t.Fatal("property 'a' not found")
				}
				if aProp.Description != "First string" {
					t.Errorf("property description mismatch: %q", aProp.Description)
				}
			},
		},
		{
			name: "catalog order preserved",
			input: []ToolRecord{
				{Name: "add", Worker: "math", InputSchema: mcptypes.ToolInputSchema{Type: "object"}},
				{Name: "uppercase", Worker: "strings", InputSchema: mcptypes.ToolInputSchema{Type: "object"}},
			},
			expected: 2,
			validate: func(t *testing.T, result []api.Tool) {
				if result[0].Function.Name != "add" || result[1].Function.Name != "uppercase" {
					t.Error("catalog order not preserved")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToolsToOllama(tt.input)

			if len(result) != tt.expected {
				t.Fatalf("expected %d tools, got %d", tt.expected, len(result))
			}

			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestConvertPropertyValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		validate func(t *testing.T, result api.ToolProperty)
	}{
		{
			name: "string type",
			input: map[string]any{
				"type":        "string",
				"description": "A string property",
			},
			validate: func(t *testing.T, result api.ToolProperty) {
				if len(result.Type) != 1 || result.Type[0] != "string" {
					t.Errorf("expected type [string], got %v", result.Type)
				}
				if result.Description != "A string property" {
					t.Errorf("description mismatch")
				}
			},
		},
		{
			name: "array of types",
			input: map[string]any{
				"type": []any{"string", "number"},
			},
			validate: func(t *testing.T, result api.ToolProperty) {
				if len(result.Type) != 2 {
					t.Errorf("expected 2 types, got %d", len(result.Type))
				}
			},
		},
		{
			name: "property with enum",
			input: map[string]any{
				"type": "string",
				"enum": []any{"add", "multiply"},
			},
			validate: func(t *testing.T, result api.ToolProperty) {
				if len(result.Enum) != 2 {
					t.Errorf("expected 2 enum values, got %d", len(result.Enum))
				}
			},
		},
		{
			name: "array property with items",
			input: map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
			},
			validate: func(t *testing.T, result api.ToolProperty) {
				if result.Items == nil {
					t.Error("expected items to be set")
				}
			},
		},
		{
			name: "property with anyOf",
			input: map[string]any{
				"anyOf": []any{
					map[string]any{"type": "string"},
					map[string]any{"type": "integer"},
				},
			},
			validate: func(t *testing.T, result api.ToolProperty) {
				if len(result.AnyOf) != 2 {
					t.Errorf("expected 2 anyOf options, got %d", len(result.AnyOf))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertPropertyValue(tt.input)
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestConvertOllamaToolCall(t *testing.T) {
	call := api.ToolCall{
		Function: api.ToolCallFunction{
			Name: "add",
			Arguments: map[string]any{
				"a": float64(5),
				"b": float64(3),
			},
		},
	}

	name, args := ConvertOllamaToolCall(call)
	if name != "add" {
		t.Errorf("expected name 'add', got %q", name)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(args))
	}
	if args["a"] != float64(5) || args["b"] != float64(3) {
		t.Errorf("arguments not carried through: %v", args)
	}
}

func TestConvertToolsToOpenAI(t *testing.T) {
	records := []ToolRecord{
		{
			Name:        "add",
			Description: "Add two integers together and return the sum.",
			Worker:      "math",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"a": map[string]any{"type": "integer"},
					"b": map[string]any{"type": "integer"},
				},
				Required: []string{"a", "b"},
			},
		},
	}

	result := ConvertToolsToOpenAI(records)
	if len(result) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(result))
	}

	fn := result[0].OfFunction
	if fn == nil {
		t.Fatal("expected function tool")
	}
	if fn.Function.Name != "add" {
		t.Errorf("expected name 'add', got %q", fn.Function.Name)
	}

	params := fn.Function.Parameters
	if params["type"] != "object" {
		t.Errorf("expected object parameters, got %v", params["type"])
	}
	required, ok := params["required"].([]string)
	if !ok || len(required) != 2 {
		t.Errorf("expected 2 required fields, got %v", params["required"])
	}

	if got := ConvertToolsToOpenAI(nil); got != nil {
		t.Errorf("expected nil for empty catalog, got %v", got)
	}
}

func TestConvertToolsToAnthropic(t *testing.T) {
	records := []ToolRecord{
		{
			Name:        "uppercase",
			Description: "Convert a string to uppercase letters.",
			Worker:      "strings",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"text": map[string]any{"type": "string"},
				},
				Required: []string{"text"},
			},
		},
		{
			Name:   "add",
			Worker: "math",
			InputSchema: mcptypes.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
			},
		},
	}

	result := ConvertToolsToAnthropic(records)
	if len(result) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(result))
	}

	first := result[0].OfTool
	if first == nil {
		t.Fatal("expected tool param")
	}
	if first.Name != "uppercase" {
		t.Errorf("expected name 'uppercase', got %q", first.Name)
	}
	if first.Description.Value != "Convert a string to uppercase letters." {
		t.Errorf("description mismatch: %q", first.Description.Value)
	}
	if len(first.InputSchema.Required) != 1 {
		t.Errorf("expected 1 required field, got %v", first.InputSchema.Required)
	}

	// Tools without a description leave the field unset.
	second := result[1].OfTool
	if second.Description.Valid() {
		t.Errorf("expected unset description, got %q", second.Description.Value)
	}

	if got := ConvertToolsToAnthropic(nil); got != nil {
		t.Errorf("expected nil for empty catalog, got %v", got)
	}
}
