package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type ProviderConfig struct {
	Type    string `toml:"type"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model"`
	APIKey  string `toml:"api_key,omitempty"`
}

type TicketConfig struct {
	GitHubToken string `toml:"github_token,omitempty"`
}

type VoiceConfig struct {
	STTModel   string `toml:"stt_model"`
	LLMModel   string `toml:"llm_model"`
	ImageModel string `toml:"image_model"`
	ImageSize  string `toml:"image_size"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

type Config struct {
	DataDirectory string         `toml:"data_directory"`
	Database      DatabaseConfig `toml:"database"`
	Provider      ProviderConfig `toml:"provider"`
	Ticket        TicketConfig   `toml:"ticket"`
	Voice         VoiceConfig    `toml:"voice"`
	Log           LogConfig      `toml:"log"`
}

var Debug = false

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// DBPath returns the SQLite file the assistant reads. Relative paths are
// kept relative to the working directory, matching the setup tooling.
func (c *Config) DBPath() string {
	if strings.HasPrefix(c.Database.Path, "~/") {
		return ExpandPath(c.Database.Path)
	}
	return c.Database.Path
}

// OpenAIKey returns the key used for the OpenAI-only voice pipeline.
func (c *Config) OpenAIKey() string {
	if c.Provider.Type == "openai" && c.Provider.APIKey != "" {
		return c.Provider.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("PRINTLAB_DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if dataDir := os.Getenv("PRINTLAB_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if p := os.Getenv("PRINTLAB_PROVIDER"); p != "" {
		c.Provider.Type = p
	}
	if m := os.Getenv("PRINTLAB_MODEL"); m != "" {
		c.Provider.Model = m
	}
	if u := os.Getenv("PRINTLAB_BASE_URL"); u != "" {
		c.Provider.BaseURL = u
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.Ticket.GitHubToken = token
	}
	if CheckDebug() {
		Debug = true
		c.Log.Level = "debug"
	}

	// A key in the file wins; the environment fills the gap.
	if c.Provider.APIKey == "" {
		if env := APIKeyEnvVar(c.Provider.Type); env != "" {
			c.Provider.APIKey = os.Getenv(env)
		}
	}
}

func CheckDebug() bool {
	debug := os.Getenv("PRINTLAB_DEBUG")
	return debug == "true" || debug == "1"
}

// Load reads the config file at path (or the default location when path is
// empty), then applies environment overrides. A missing file is not an
// error: defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigFilePath()
	}

	if FileExists(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks fields that would otherwise fail late, mid-conversation.
func (c *Config) Validate() error {
	if !KnownProvider(c.Provider.Type) {
		return fmt.Errorf("unknown provider type: %q", c.Provider.Type)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	return nil
}

// LogFile returns the expanded log file path, or "" for stderr.
func (c *Config) LogFile() string {
	return ExpandPath(c.Log.File)
}
