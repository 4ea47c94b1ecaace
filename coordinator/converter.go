package coordinator

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// ConvertToolsToOllama converts merged catalog records to the Ollama
// API tool format, so an embedding application can hand the whole
// catalog to a local model and route the resulting tool calls back
// through CallTool.
func ConvertToolsToOllama(records []ToolRecord) []api.Tool {
	ollamaTools := make([]api.Tool, 0, len(records))

	for _, record := range records {
		ollamaTools = append(ollamaTools, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        record.Name,
				Description: record.Description,
				Parameters: api.ToolFunctionParameters{
					Type:       record.InputSchema.Type,
					Required:   record.InputSchema.Required,
					Properties: convertProperties(record.InputSchema.Properties),
					Defs:       record.InputSchema.Defs,
				},
			},
		})
	}

	return ollamaTools
}

func convertProperties(properties map[string]any) map[string]api.ToolProperty {
	converted := make(map[string]api.ToolProperty, len(properties))
	for name, value := range properties {
		converted[name] = convertPropertyValue(value)
	}
	return converted
}

// convertPropertyValue converts one JSON Schema property into Ollama's
// typed ToolProperty.
func convertPropertyValue(propValue any) api.ToolProperty {
	toolProp := api.ToolProperty{}

	propMap, ok := propValue.(map[string]any)
	if !ok {
		// Not a map: round-trip through JSON to get one
		bytes, err := json.Marshal(propValue)
		if err != nil {
			return toolProp
		}
		var m map[string]any
		if err := json.Unmarshal(bytes, &m); err != nil {
			return toolProp
		}
		propMap = m
	}

	// type can be a string or a list of strings
	if typeVal, ok := propMap["type"]; ok {
		switch t := typeVal.(type) {
		case string:
			toolProp.Type = api.PropertyType{t}
		case []string:
			toolProp.Type = api.PropertyType(t)
		case []any:
			types := make([]string, 0, len(t))
			for _, v := range t {
				if s, ok := v.(string); ok {
					types = append(types, s)
				}
			}
			toolProp.Type = api.PropertyType(types)
		}
	}

	if desc, ok := propMap["description"].(string); ok {
		toolProp.Description = desc
	}

	if enumVal, ok := propMap["enum"]; ok {
		if enumSlice, ok := enumVal.([]any); ok {
			toolProp.Enum = enumSlice
		}
	}

	// items (for array types)
	if items, ok := propMap["items"]; ok {
		toolProp.Items = items
	}

	// anyOf (for union types)
	if anyOfVal, ok := propMap["anyOf"]; ok {
		if anyOfSlice, ok := anyOfVal.([]any); ok {
			anyOfProps := make([]api.ToolProperty, 0, len(anyOfSlice))
			for _, item := range anyOfSlice {
				anyOfProps = append(anyOfProps, convertPropertyValue(item))
			}
			toolProp.AnyOf = anyOfProps
		}
	}

	return toolProp
}

// ConvertOllamaToolCall extracts the flat tool name and argument map
// from an Ollama tool call, ready to pass to CallTool.
func ConvertOllamaToolCall(toolCall api.ToolCall) (string, map[string]any) {
	return toolCall.Function.Name, map[string]any(toolCall.Function.Arguments)
}

// ConvertToolsToOpenAI converts merged catalog records to the OpenAI
// function-tool format (shared by OpenAI and OpenRouter). Tool names
// stay flat: the model calls the same names CallTool routes on.
func ConvertToolsToOpenAI(records []ToolRecord) []openai.ChatCompletionToolUnionParam {
	if len(records) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(records))

	for i, record := range records {
		// Both sides are JSON Schema; only the envelope differs.
		params := openai.FunctionParameters{
			"type":       record.InputSchema.Type,
			"properties": record.InputSchema.Properties,
		}
		if len(record.InputSchema.Required) > 0 {
			params["required"] = record.InputSchema.Required
		}
		if record.InputSchema.Defs != nil {
			params["$defs"] = record.InputSchema.Defs
		}

		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        record.Name,
				Description: openai.String(record.Description),
				Parameters:  params,
			},
		)
	}

	return result
}

// ConvertToolsToAnthropic converts merged catalog records to the
// Anthropic tool-use format.
func ConvertToolsToAnthropic(records []ToolRecord) []anthropic.ToolUnionParam {
	if len(records) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(records))

	for i, record := range records {
		inputSchema := anthropic.ToolInputSchemaParam{
			// Type defaults to "object" when omitted
			Properties: record.InputSchema.Properties,
		}
		if len(record.InputSchema.Required) > 0 {
			inputSchema.Required = record.InputSchema.Required
		}
		if record.InputSchema.Defs != nil {
			// $defs rides along as an extra field
			inputSchema.ExtraFields = map[string]any{
				"$defs": record.InputSchema.Defs,
			}
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, record.Name)
		if record.Description != "" {
			result[i].OfTool.Description = anthropic.String(record.Description)
		}
	}

	return result
}
