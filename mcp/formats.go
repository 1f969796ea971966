// Package mcp bridges the tool catalogue to the Model Context Protocol.
//
// The catalogue is declared once as mcp-go Tool values. This package
// renders those declarations in each LLM SDK's tool format and serves the
// same tools to external MCP clients over stdio.
package mcp

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// OpenAITools renders tools as OpenAI function tools. OpenRouter takes the
// same shape.
func OpenAITools(defs []mcptypes.Tool) []openai.ChatCompletionToolUnionParam {
	if len(defs) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolUnionParam, len(defs))
	for i, def := range defs {
		out[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        def.Name,
			Description: openai.String(def.Description),
			Parameters:  openai.FunctionParameters(jsonSchema(def.InputSchema)),
		})
	}
	return out
}

// AnthropicTools renders tools as Anthropic custom tools.
func AnthropicTools(defs []mcptypes.Tool) []anthropic.ToolUnionParam {
	if len(defs) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		schema := anthropic.ToolInputSchemaParam{
			Properties: def.InputSchema.Properties,
			Required:   def.InputSchema.Required,
		}
		if def.InputSchema.Defs != nil {
			schema.ExtraFields = map[string]any{"$defs": def.InputSchema.Defs}
		}
		out[i] = anthropic.ToolUnionParamOfTool(schema, def.Name)
		if def.Description != "" {
			out[i].OfTool.Description = anthropic.String(def.Description)
		}
	}
	return out
}

// OllamaTools renders tools in Ollama's typed function format.
func OllamaTools(defs []mcptypes.Tool) []api.Tool {
	out := make([]api.Tool, 0, len(defs))
	for _, def := range defs {
		params := api.ToolFunctionParameters{
			Type:       def.InputSchema.Type,
			Required:   def.InputSchema.Required,
			Defs:       def.InputSchema.Defs,
			Properties: make(map[string]api.ToolProperty, len(def.InputSchema.Properties)),
		}
		for name, prop := range def.InputSchema.Properties {
			params.Properties[name] = ollamaProperty(prop)
		}
		out = append(out, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

// jsonSchema flattens an input schema into the plain map the OpenAI SDK
// sends as function parameters.
func jsonSchema(in mcptypes.ToolInputSchema) map[string]any {
	props := in.Properties
	if props == nil {
		props = map[string]any{}
	}
	schema := map[string]any{
		"type":       in.Type,
		"properties": props,
	}
	if len(in.Required) > 0 {
		schema["required"] = in.Required
	}
	if in.Defs != nil {
		schema["$defs"] = in.Defs
	}
	return schema
}

// ollamaProperty decodes one JSON Schema property into Ollama's struct.
// Anything that does not survive a JSON round trip becomes an empty
// property rather than failing the whole catalogue.
func ollamaProperty(v any) api.ToolProperty {
	var prop api.ToolProperty
	raw, err := json.Marshal(v)
	if err != nil {
		return prop
	}
	if err := json.Unmarshal(raw, &prop); err != nil {
		return api.ToolProperty{}
	}
	return prop
}
