package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"printlab/ollama"
)

// Provider abstracts LLM provider implementations (OpenAI, Anthropic, Ollama)
// using provider-agnostic types from the model layer.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model, and the agent can use
// the Provider interface without importing the provider package.
type Provider interface {
	// Complete sends the full history and returns one assistant message.
	// When tools is non-empty the model may answer with tool calls instead
	// of text (tool choice "auto"). When tools is empty the model must
	// answer in text.
	Complete(ctx context.Context, messages []Message, tools []mcptypes.Tool) (Message, error)

	// ListModels returns available models for this provider.
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)

	// GetModel returns the currently selected model name.
	GetModel() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
