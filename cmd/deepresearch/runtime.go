// Session wiring: config, providers, tools, store, controller.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/policy"
	"github.com/vinayprograms/agentkit/telemetry"
	"github.com/vinayprograms/agentkit/tools"
	"github.com/vinayprograms/deepresearch/internal/artifact"
	"github.com/vinayprograms/deepresearch/internal/brief"
	"github.com/vinayprograms/deepresearch/internal/config"
	"github.com/vinayprograms/deepresearch/internal/loop"
	"github.com/vinayprograms/deepresearch/internal/research"
	"github.com/vinayprograms/deepresearch/internal/review"
)

// runSession wires the collaborators and drives one research session.
func runSession(ctx context.Context, cmd *RunCmd) error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}

	var b *brief.Brief
	if cmd.Brief != "" {
		b, err = brief.Load(cmd.Brief)
		if err != nil {
			return err
		}
	}

	query, err := resolveQuery(cmd.Query, briefTopic(b))
	if err != nil {
		return err
	}

	maxRevisions := resolveMaxRevisions(cmd.MaxRevisions, b, cfg)

	storeDir := cmd.Store
	if storeDir == "" {
		storeDir = cfg.StorePath()
	}
	store, err := artifact.NewFileStore(storeDir)
	if err != nil {
		return err
	}

	telem, err := setupTelemetry(cfg)
	if err != nil {
		return err
	}
	defer telem.Close()

	researcherProvider, err := createProvider(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating researcher provider: %w", err)
	}
	criticProvider, err := createProvider(cfg.CriticLLM())
	if err != nil {
		return fmt.Errorf("creating critic provider: %w", err)
	}

	pol := policy.New()
	registry := tools.NewRegistry(pol)
	registry.SetCredentials(globalCreds)
	runner := research.NewRegistryRunner(registry, research.WebSearchTool)

	researcher := research.NewResearcher(researcherProvider, runner, store)
	researcher.SearchTimeout = time.Duration(cfg.Timeouts.WebSearch) * time.Second
	if b != nil {
		researcher.BriefContext = b.PromptContext()
	}
	researcher.OnToolCall = func(name string, args map[string]interface{}) {
		if q, ok := args["query"].(string); ok {
			fmt.Fprintf(os.Stderr, "  → Tool: %s (%s)\n", name, q)
		} else {
			fmt.Fprintf(os.Stderr, "  → Tool: %s\n", name)
		}
		telem.LogEvent("tool_call", map[string]interface{}{"tool": name, "args": args})
	}

	critic := research.NewCritic(criticProvider)

	ctrl := loop.NewController(researcher, critic, store, maxRevisions)
	ctrl.OnRoundStart = func(round int) {
		fmt.Fprintf(os.Stderr, "▶ Round %d: researching\n", round)
		telem.LogEvent("round_started", map[string]interface{}{"round": round})
	}
	ctrl.OnVerdict = func(round int, v loop.Verdict) {
		if v.Approved {
			fmt.Fprintf(os.Stderr, "✓ Critic approved on round %d\n", round)
		} else {
			fmt.Fprintf(os.Stderr, "↻ Critic requested revision on round %d\n", round)
		}
		telem.LogEvent("verdict", map[string]interface{}{"round": round, "approved": v.Approved})
	}
	ctrl.OnStateChange = func(s loop.State) {
		telem.LogEvent("state_change", map[string]interface{}{"state": string(s)})
	}

	outcome, err := ctrl.Run(ctx, query)
	if err != nil {
		return err
	}

	switch outcome.State {
	case loop.StateApproved:
		fmt.Fprintf(os.Stderr, "\n✓ Approved after %d round(s)\n", outcome.Rounds)
	case loop.StateLimitExhausted:
		fmt.Fprintf(os.Stderr, "\n⚠ Revision limit reached after %d round(s); answer is best effort\n", outcome.Rounds)
	}
	fmt.Fprintf(os.Stderr, "Artifacts: %s\n\n", store.Dir())

	fmt.Println(outcome.Answer)
	return nil
}

// reviewStore renders the artifact store, paged or plain.
func reviewStore(cmd *ReviewCmd) error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}

	storeDir := cmd.Store
	if storeDir == "" {
		storeDir = cfg.StorePath()
	}
	if _, err := os.Stat(storeDir); err != nil {
		return fmt.Errorf("artifact store not found at %s", storeDir)
	}
	store, err := artifact.NewFileStore(storeDir)
	if err != nil {
		return err
	}

	renderFunc := func() (string, error) { return review.Render(store) }

	if cmd.Live {
		return review.ShowLive("Research artifacts (LIVE)", storeDir, renderFunc)
	}

	content, err := renderFunc()
	if err != nil {
		return err
	}
	if cmd.NoPager {
		fmt.Println(content)
		return nil
	}
	return review.Show("Research artifacts", content)
}

// loadConfig loads the named config, or research.toml, or defaults when no
// file exists.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.LoadFile("research.toml")
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// resolveMaxRevisions applies the precedence flag/env > brief > config.
func resolveMaxRevisions(flag int, b *brief.Brief, cfg *config.Config) int {
	if flag >= 0 {
		return flag
	}
	if b != nil && b.MaxRevisions != nil {
		return *b.MaxRevisions
	}
	return cfg.Loop.MaxRevisions
}

func briefTopic(b *brief.Brief) string {
	if b == nil {
		return ""
	}
	return b.Topic
}

// createProvider creates an LLM provider from one role's config.
func createProvider(llmCfg config.LLMConfig) (llm.Provider, error) {
	providerName := llmCfg.Provider
	if providerName == "" {
		providerName = llm.InferProviderFromModel(llmCfg.Model)
	}
	if providerName == "" && llmCfg.Model == "" {
		return nil, fmt.Errorf("LLM model not configured")
	}

	return llm.NewProvider(llm.ProviderConfig{
		Provider:    providerName,
		Model:       llmCfg.Model,
		APIKey:      apiKey(providerName, llmCfg),
		MaxTokens:   llmCfg.MaxTokens,
		BaseURL:     llmCfg.BaseURL,
		Thinking:    llm.ThinkingConfig{Level: llm.ThinkingLevel(llmCfg.Thinking)},
		RetryConfig: parseRetryConfig(llmCfg.MaxRetries, llmCfg.RetryBackoff),
	})
}

// apiKey resolves a key from credentials.toml first, env vars second.
func apiKey(providerName string, llmCfg config.LLMConfig) string {
	if globalCreds != nil {
		if key := globalCreds.GetAPIKey(providerName); key != "" {
			return key
		}
	}
	return llmCfg.GetAPIKey()
}

// parseRetryConfig builds retry settings with the provider defaults.
func parseRetryConfig(maxRetries int, backoff string) llm.RetryConfig {
	rc := llm.RetryConfig{
		MaxRetries: 5,
		MaxBackoff: 60 * time.Second,
	}
	if maxRetries > 0 {
		rc.MaxRetries = maxRetries
	}
	if backoff != "" {
		if d, err := time.ParseDuration(backoff); err == nil && d > 0 {
			rc.MaxBackoff = d
		}
	}
	return rc
}

// setupTelemetry creates the telemetry exporter.
func setupTelemetry(cfg *config.Config) (telemetry.Exporter, error) {
	if cfg.Telemetry.Enabled {
		telem, err := telemetry.NewExporter(cfg.Telemetry.Protocol, cfg.Telemetry.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("creating telemetry exporter: %w", err)
		}
		return telem, nil
	}
	return telemetry.NewNoopExporter(), nil
}
