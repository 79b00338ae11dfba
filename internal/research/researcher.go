// Package research implements the Researcher and Critic collaborators on
// top of the agentkit LLM and tool abstractions.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/logging"
	"github.com/vinayprograms/deepresearch/internal/artifact"
	"github.com/vinayprograms/deepresearch/internal/loop"
)

// WebSearchTool is the registry tool the researcher exposes to the model.
const WebSearchTool = "web_search"

// Researcher drives an LLM tool loop to produce answer drafts. Tool calls
// are executed strictly one at a time; each web search is timed and
// recorded in the artifact store.
type Researcher struct {
	provider llm.Provider
	tools    ToolRunner
	store    artifact.Store
	logger   *logging.Logger

	// BriefContext is appended to the user prompt when a research brief
	// supplies extra framing.
	BriefContext string

	// SearchTimeout bounds each web_search execution. Zero means no limit.
	SearchTimeout time.Duration

	// OnToolCall reports each tool execution for progress display.
	OnToolCall func(name string, args map[string]interface{})
}

// NewResearcher creates a researcher. The store records tool calls; the
// runner may be nil for a searchless researcher.
func NewResearcher(provider llm.Provider, runner ToolRunner, store artifact.Store) *Researcher {
	return &Researcher{
		provider: provider,
		tools:    runner,
		store:    store,
		logger:   logging.New().WithComponent("researcher"),
	}
}

// Research produces the initial draft for a query.
func (r *Researcher) Research(ctx context.Context, query string) (*loop.Draft, error) {
	userPrompt := "Query: " + query
	if r.BriefContext != "" {
		userPrompt += "\n\nAdditional context from the research brief:\n" + r.BriefContext
	}
	return r.runLoop(ctx, researcherSystemPrompt, userPrompt)
}

// Revise produces a replacement draft addressing accumulated critic
// feedback.
func (r *Researcher) Revise(ctx context.Context, query, answer, feedback string) (*loop.Draft, error) {
	userPrompt := fmt.Sprintf("Query: %s\n\nPrevious answer:\n%s\n\nCritic feedback to address:\n%s",
		query, answer, feedback)
	return r.runLoop(ctx, reviserSystemPrompt, userPrompt)
}

// runLoop is the chat/tool cycle: call the model, execute any requested
// tools sequentially, feed results back, repeat until the model stops
// calling tools.
func (r *Researcher) runLoop(ctx context.Context, systemPrompt, userPrompt string) (*loop.Draft, error) {
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	var toolDefs []llm.ToolDef
	if r.tools != nil {
		toolDefs = r.tools.Definitions()
	}

	for {
		resp, err := r.provider.Chat(ctx, llm.ChatRequest{
			Messages: messages,
			Tools:    toolDefs,
		})
		if err != nil {
			return nil, fmt.Errorf("researcher LLM error: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			return r.parseDraft(resp.Content), nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, tc := range resp.ToolCalls {
			messages = append(messages, r.executeTool(ctx, tc))
		}
	}
}

// executeTool runs one tool call and returns the tool message for the next
// chat turn. Failures are reported to the model as tool output, not
// surfaced as errors; the model decides how to proceed.
func (r *Researcher) executeTool(ctx context.Context, tc llm.ToolCallResponse) llm.Message {
	if r.OnToolCall != nil {
		r.OnToolCall(tc.Name, tc.Args)
	}

	if tc.Name == WebSearchTool && r.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.SearchTimeout)
		defer cancel()
	}

	start := time.Now()
	var (
		result interface{}
		err    error
	)
	if r.tools == nil {
		err = fmt.Errorf("no tools available")
	} else {
		result, err = r.tools.Run(ctx, tc.Name, tc.Args)
	}
	duration := time.Since(start)

	if tc.Name == WebSearchTool {
		r.recordSearch(tc.Args, result, err, duration)
	}

	var content string
	if err != nil {
		r.logger.Warn("tool execution failed", map[string]interface{}{
			"tool":  tc.Name,
			"error": err.Error(),
		})
		content = fmt.Sprintf("Error: %v", err)
	} else {
		switch v := result.(type) {
		case string:
			content = v
		default:
			data, _ := json.Marshal(v)
			content = string(data)
		}
	}

	return llm.Message{
		Role:       "tool",
		ToolCallID: tc.ID,
		Content:    content,
	}
}

// recordSearch appends one tool call record. A failed search still gets a
// record with zero results; the invocation happened.
func (r *Researcher) recordSearch(args map[string]interface{}, result interface{}, execErr error, duration time.Duration) {
	query, _ := args["query"].(string)
	count := 0
	if execErr == nil {
		count = resultCount(result)
	}
	rec := artifact.ToolCallRecord{
		Query:       query,
		DurationMs:  duration.Milliseconds(),
		ResultCount: count,
	}
	if err := r.store.RecordToolCall(rec); err != nil {
		r.logger.Warn("failed to record tool call", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}
}

// resultCount extracts a result count from a search tool's output without
// depending on its exact shape.
func resultCount(result interface{}) int {
	switch v := result.(type) {
	case []interface{}:
		return len(v)
	case map[string]interface{}:
		if results, ok := v["results"].([]interface{}); ok {
			return len(results)
		}
	case string:
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			if results, ok := parsed["results"].([]interface{}); ok {
				return len(results)
			}
		}
	}
	return 0
}

// parseDraft decodes the model's final JSON draft. Models drift off format
// under long contexts, so a failed parse degrades to treating the whole
// message as the answer rather than failing the round.
func (r *Researcher) parseDraft(content string) *loop.Draft {
	jsonStr := extractJSON(content)
	if jsonStr != "" {
		var parsed struct {
			Answer        string   `json:"answer"`
			Notes         []string `json:"notes"`
			OpenQuestions []string `json:"open_questions"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err == nil && strings.TrimSpace(parsed.Answer) != "" {
			return &loop.Draft{
				Answer:        parsed.Answer,
				Notes:         parsed.Notes,
				OpenQuestions: parsed.OpenQuestions,
			}
		}
	}

	r.logger.Warn("draft did not parse as JSON, using raw content", nil)
	return &loop.Draft{Answer: strings.TrimSpace(content)}
}
