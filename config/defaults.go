package config

const DefaultDBPath = "data/print_analytics.db"

func Default() *Config {
	return &Config{
		DataDirectory: "~/.local/share/printlab",
		Database: DatabaseConfig{
			Path: DefaultDBPath,
		},
		Provider: ProviderConfig{
			Type:  "openai",
			Model: "gpt-4o-mini",
		},
		Voice: VoiceConfig{
			STTModel:   "whisper-1",
			LLMModel:   "gpt-4o-mini",
			ImageModel: "dall-e-3",
			ImageSize:  "1024x1024",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func GenerateConfigTemplate() string {
	return `# printlab configuration
# Location: ~/.config/printlab/config.toml
# This file uses TOML format: https://toml.io

# Directory for logs and other local state
data_directory = "~/.local/share/printlab"

[database]
# SQLite file holding the print_jobs table (create it with: printlab seed)
path = "data/print_analytics.db"

[provider]
# One of: openai, openrouter, anthropic, ollama
type = "openai"
model = "gpt-4o-mini"
# base_url = "https://api.openai.com/v1"
# api_key = ""   # falls back to OPENAI_API_KEY / OPENROUTER_API_KEY / ANTHROPIC_API_KEY

[ticket]
# Optional. Tickets are only logged locally even when a token is set.
# github_token = ""

[voice]
stt_model = "whisper-1"
llm_model = "gpt-4o-mini"
image_model = "dall-e-3"
image_size = "1024x1024"

[log]
# debug, info, warn, error
level = "info"
# file = "~/.local/share/printlab/printlab.log"
`
}
