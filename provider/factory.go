package provider

import (
	"fmt"

	"printlab/config"
	"printlab/model"
)

// NewProvider creates a provider based on configuration.
//
// OpenRouter is served by the OpenAI provider pointed at the OpenRouter
// base URL. Returns an error for an unknown type or when the backend
// constructor rejects the config (missing API key, invalid URL).
func NewProvider(cfg Config) (model.Provider, error) {
	var (
		p   model.Provider
		err error
	)
	switch cfg.Type {
	case ProviderTypeOllama:
		p, err = asProvider(NewOllamaProvider(cfg.BaseURL, cfg.Model))
	case ProviderTypeOpenRouter:
		p, err = asProvider(NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model))
	case ProviderTypeOpenAI:
		p, err = asProvider(NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model))
	case ProviderTypeAnthropic:
		p, err = asProvider(NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model))
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// asProvider keeps a failed constructor from leaking a typed nil pointer
// into a non-nil interface.
func asProvider[T model.Provider](p T, err error) (model.Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FromConfig builds the provider selected in the application config.
func FromConfig(cfg *config.Config) (model.Provider, error) {
	return NewProvider(Config{
		Type:    MapProviderIDToType(cfg.Provider.Type),
		BaseURL: cfg.Provider.BaseURL,
		Model:   cfg.Provider.Model,
		APIKey:  cfg.Provider.APIKey,
	})
}

// MapProviderIDToType converts a config provider ID to a ProviderType.
//
// For unknown IDs, returns the ID cast as ProviderType (factory will error).
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}
