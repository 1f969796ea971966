package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"

	"printlab/model"
)

// ConvertToOllamaMessages converts history to Ollama api.Message values.
// Assistant tool calls are carried over; tool results travel as role "tool"
// messages whose content is the encoded result.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			ToolCalls: ConvertFromProviderToolCalls(msg.ToolCalls),
		}
	}
	return result
}

// ParseToolArguments parses a JSON arguments blob into a map. An empty blob
// is a call with no arguments and yields an empty map. Anything that is not
// a JSON object yields nil, leaving the rejection to the tool registry.
func ParseToolArguments(argsJSON string) map[string]any {
	if strings.TrimSpace(argsJSON) == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return nil
	}
	return args
}

// ConvertToProviderToolCalls converts Ollama tool calls to model.ToolCall,
// assigning "call_<index>" IDs.
//
// Returns nil for an empty input.
func ConvertToProviderToolCalls(ollamaCalls []api.ToolCall) []model.ToolCall {
	if len(ollamaCalls) == 0 {
		return nil
	}

	result := make([]model.ToolCall, len(ollamaCalls))
	for i, call := range ollamaCalls {
		args := map[string]any(call.Function.Arguments)
		raw, err := json.Marshal(args)
		if err != nil {
			raw = []byte("{}")
		}
		result[i] = model.ToolCall{
			ID:           fmt.Sprintf("call_%d", i),
			Name:         call.Function.Name,
			Arguments:    args,
			RawArguments: string(raw),
		}
	}
	return result
}

// ConvertFromProviderToolCalls converts model.ToolCall back to Ollama's form.
//
// Returns nil for an empty input.
func ConvertFromProviderToolCalls(providerCalls []model.ToolCall) []api.ToolCall {
	if len(providerCalls) == 0 {
		return nil
	}

	result := make([]api.ToolCall, len(providerCalls))
	for i, call := range providerCalls {
		result[i] = api.ToolCall{
			Function: api.ToolCallFunction{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		}
	}
	return result
}
