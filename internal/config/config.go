// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultMaxRevisions bounds revision rounds when the config leaves the
// limit unset.
const DefaultMaxRevisions = 3

// Config represents the research session configuration.
type Config struct {
	LLM       LLMConfig       `toml:"llm"`       // Researcher model settings
	Critic    LLMConfig       `toml:"critic"`    // Critic model; falls back to [llm] fields
	Loop      LoopConfig      `toml:"loop"`      // Revision loop bounds
	Storage   StorageConfig   `toml:"storage"`   // Artifact store location
	Telemetry TelemetryConfig `toml:"telemetry"` // OTLP export
	Timeouts  TimeoutsConfig  `toml:"timeouts"`  // Network operation timeouts
}

// LLMConfig contains LLM provider settings for one collaborator role.
type LLMConfig struct {
	Provider     string `toml:"provider"`
	Model        string `toml:"model"`
	APIKeyEnv    string `toml:"api_key_env"`
	MaxTokens    int    `toml:"max_tokens"`
	BaseURL      string `toml:"base_url"`      // Custom API endpoint (OpenRouter, LiteLLM, Ollama, LMStudio)
	Thinking     string `toml:"thinking"`      // Thinking level: auto|off|low|medium|high
	MaxRetries   int    `toml:"max_retries"`   // Max retry attempts (default 5)
	RetryBackoff string `toml:"retry_backoff"` // Max backoff duration (default "60s")
}

// LoopConfig contains revision loop settings.
type LoopConfig struct {
	MaxRevisions int `toml:"max_revisions"` // Revision rounds after the initial draft
}

// StorageConfig contains artifact store settings.
type StorageConfig struct {
	Path string `toml:"path"` // Base directory for session artifacts
}

// TelemetryConfig contains telemetry settings.
type TelemetryConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"` // OTLP endpoint (e.g., localhost:4317)
	Protocol string `toml:"protocol"` // grpc (default) or http
}

// TimeoutsConfig contains timeout settings for network operations.
type TimeoutsConfig struct {
	WebSearch int `toml:"web_search"` // web_search timeout in seconds (default 30)
	WebFetch  int `toml:"web_fetch"`  // web_fetch timeout in seconds (default 60)
}

// New creates a new config with defaults.
func New() *Config {
	return &Config{
		LLM: LLMConfig{
			MaxTokens: 4096,
		},
		Loop: LoopConfig{
			MaxRevisions: DefaultMaxRevisions,
		},
		Storage: StorageConfig{
			Path: "~/.local/deepresearch",
		},
		Telemetry: TelemetryConfig{
			Protocol: "noop",
		},
		Timeouts: TimeoutsConfig{
			WebSearch: 30,
			WebFetch:  60,
		},
	}
}

// Default returns a default configuration.
func Default() *Config {
	return New()
}

// LoadFile loads configuration from a TOML file.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Loop.MaxRevisions < 0 {
		return nil, fmt.Errorf("loop.max_revisions must not be negative, got %d", cfg.Loop.MaxRevisions)
	}
	return cfg, nil
}

// LoadDefault loads configuration from research.toml in the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return LoadFile(filepath.Join(cwd, "research.toml"))
}

// CriticLLM returns the critic's LLM settings, filling unset fields from
// the researcher config. An empty [critic] table means both roles share
// one model.
func (c *Config) CriticLLM() LLMConfig {
	result := c.Critic
	if result.Provider == "" {
		result.Provider = c.LLM.Provider
	}
	if result.Model == "" {
		result.Model = c.LLM.Model
	}
	if result.APIKeyEnv == "" {
		result.APIKeyEnv = c.LLM.APIKeyEnv
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = c.LLM.MaxTokens
	}
	if result.BaseURL == "" {
		result.BaseURL = c.LLM.BaseURL
	}
	if result.Thinking == "" {
		result.Thinking = c.LLM.Thinking
	}
	return result
}

// StorePath returns the artifact store directory with ~ expanded.
func (c *Config) StorePath() string {
	return ExpandHome(c.Storage.Path)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// GetAPIKey returns the API key from the configured environment variable.
// If api_key_env is not set, uses the default env var for the provider.
func (l LLMConfig) GetAPIKey() string {
	envVar := l.APIKeyEnv
	if envVar == "" {
		envVar = DefaultAPIKeyEnv(l.Provider)
	}
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// DefaultAPIKeyEnv returns the default environment variable name for a provider.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "google":
		return "GOOGLE_API_KEY"
	case "mistral":
		return "MISTRAL_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	default:
		return ""
	}
}
