package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "research.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[llm]
provider = "anthropic"
model = "claude-sonnet-4-5"
max_tokens = 8192

[critic]
model = "claude-haiku-4-5"

[loop]
max_revisions = 5

[storage]
path = "/tmp/research-artifacts"

[timeouts]
web_search = 10
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.Model != "claude-sonnet-4-5" || cfg.LLM.MaxTokens != 8192 {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Loop.MaxRevisions != 5 {
		t.Errorf("max_revisions = %d, want 5", cfg.Loop.MaxRevisions)
	}
	if cfg.Storage.Path != "/tmp/research-artifacts" {
		t.Errorf("storage path = %q", cfg.Storage.Path)
	}
	if cfg.Timeouts.WebSearch != 10 {
		t.Errorf("web_search timeout = %d, want 10", cfg.Timeouts.WebSearch)
	}
	// Unset timeout keeps its default.
	if cfg.Timeouts.WebFetch != 60 {
		t.Errorf("web_fetch timeout = %d, want default 60", cfg.Timeouts.WebFetch)
	}
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, `
[llm]
model = "gpt-5.2"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Loop.MaxRevisions != DefaultMaxRevisions {
		t.Errorf("max_revisions = %d, want default %d", cfg.Loop.MaxRevisions, DefaultMaxRevisions)
	}
	if cfg.Storage.Path != "~/.local/deepresearch" {
		t.Errorf("storage path = %q", cfg.Storage.Path)
	}
	if cfg.Telemetry.Protocol != "noop" {
		t.Errorf("telemetry protocol = %q", cfg.Telemetry.Protocol)
	}
}

func TestLoadFileRejectsNegativeRevisions(t *testing.T) {
	path := writeConfig(t, `
[loop]
max_revisions = -1
`)

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for negative max_revisions")
	}
}

func TestCriticLLMFallsBackToResearcher(t *testing.T) {
	cfg := New()
	cfg.LLM = LLMConfig{
		Provider:  "anthropic",
		Model:     "claude-sonnet-4-5",
		APIKeyEnv: "ANTHROPIC_API_KEY",
		MaxTokens: 4096,
	}

	critic := cfg.CriticLLM()
	if critic.Model != "claude-sonnet-4-5" || critic.Provider != "anthropic" {
		t.Errorf("empty [critic] should mirror [llm], got %+v", critic)
	}

	cfg.Critic = LLMConfig{Model: "claude-haiku-4-5"}
	critic = cfg.CriticLLM()
	if critic.Model != "claude-haiku-4-5" {
		t.Errorf("critic model = %q", critic.Model)
	}
	if critic.Provider != "anthropic" || critic.MaxTokens != 4096 {
		t.Errorf("unset critic fields should inherit, got %+v", critic)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got := ExpandHome("~/.local/deepresearch")
	want := filepath.Join(home, ".local", "deepresearch")
	if got != want {
		t.Errorf("ExpandHome = %q, want %q", got, want)
	}
	if got := ExpandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("absolute path changed to %q", got)
	}
}

func TestGetAPIKey(t *testing.T) {
	t.Setenv("RESEARCH_TEST_KEY", "secret")
	l := LLMConfig{APIKeyEnv: "RESEARCH_TEST_KEY"}
	if got := l.GetAPIKey(); got != "secret" {
		t.Errorf("GetAPIKey = %q", got)
	}

	t.Setenv("ANTHROPIC_API_KEY", "default-key")
	l = LLMConfig{Provider: "anthropic"}
	if got := l.GetAPIKey(); got != "default-key" {
		t.Errorf("provider default env lookup = %q", got)
	}
}
