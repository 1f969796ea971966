package config

type providerInfo struct {
	name    string
	baseURL string
	keyEnv  string
}

var providers = map[string]providerInfo{
	"openai":     {"OpenAI", "https://api.openai.com/v1", "OPENAI_API_KEY"},
	"openrouter": {"OpenRouter", "https://openrouter.ai/api/v1", "OPENROUTER_API_KEY"},
	"anthropic":  {"Anthropic", "https://api.anthropic.com", "ANTHROPIC_API_KEY"},
	"ollama":     {"Ollama", "http://localhost:11434", ""},
}

// KnownProvider reports whether id names a supported provider.
func KnownProvider(id string) bool {
	_, ok := providers[id]
	return ok
}

// ProviderDisplayName returns a human name, or id itself when unknown.
func ProviderDisplayName(id string) string {
	if p, ok := providers[id]; ok {
		return p.name
	}
	return id
}

func ProviderDefaultBaseURL(id string) string {
	return providers[id].baseURL
}

// APIKeyEnvVar names the environment variable holding a provider's key.
// Ollama needs none.
func APIKeyEnvVar(id string) string {
	return providers[id].keyEnv
}

// ProviderBaseURL is the configured endpoint, or the provider's public
// default when none is set.
func (c *Config) ProviderBaseURL() string {
	if c.Provider.BaseURL != "" {
		return c.Provider.BaseURL
	}
	return ProviderDefaultBaseURL(c.Provider.Type)
}
