// Package provider implements model.Provider for the supported LLM backends.
//
// All backends speak the same provider-agnostic types from the model package.
// Conversions to and from the SDK types live next to each backend, with the
// Ollama conversions in conversions.go.
//
//   - OpenAIProvider covers OpenAI and any OpenAI-compatible endpoint (OpenRouter)
//   - AnthropicProvider uses the Messages API with tool_use blocks
//   - OllamaProvider wraps ollama.Client for local models
//
// Usage:
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:   provider.ProviderTypeOpenAI,
//	    Model:  "gpt-4o-mini",
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	})
//	reply, err := p.Complete(ctx, history, tools.Definitions())
package provider

// Note: The Provider interface is defined in the model package
// (model/provider.go) to avoid import cycles. This package implements it.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // For OpenAI/OpenRouter/Anthropic (unused for Ollama)
}
