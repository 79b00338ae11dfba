package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/logging"
	"github.com/vinayprograms/deepresearch/internal/loop"
)

// Critic reviews answers with a single chat call per round. No tools: the
// critic judges what is on the page.
type Critic struct {
	provider llm.Provider
	logger   *logging.Logger
}

// NewCritic creates a critic on the given provider.
func NewCritic(provider llm.Provider) *Critic {
	return &Critic{
		provider: provider,
		logger:   logging.New().WithComponent("critic"),
	}
}

// Review judges the answer against the query. The structured JSON verdict
// is the primary contract; a bare approval sentinel outside code fences is
// accepted as a fallback. Anything else is a malformed verdict and fails
// the call.
func (c *Critic) Review(ctx context.Context, query, answer string) (loop.Verdict, error) {
	userPrompt := fmt.Sprintf("Query: %s\n\nAnswer under review:\n%s", query, answer)

	resp, err := c.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: criticSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return loop.Verdict{}, fmt.Errorf("critic LLM error: %w", err)
	}

	return c.parseVerdict(resp.Content)
}

func (c *Critic) parseVerdict(content string) (loop.Verdict, error) {
	jsonStr := extractJSON(content)
	if jsonStr != "" {
		var parsed struct {
			Verdict  string `json:"verdict"`
			Feedback string `json:"feedback"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err == nil {
			switch strings.ToLower(strings.TrimSpace(parsed.Verdict)) {
			case "approve", "approved":
				return loop.Verdict{Approved: true, Feedback: parsed.Feedback}, nil
			case "revise":
				if strings.TrimSpace(parsed.Feedback) == "" {
					return loop.Verdict{}, fmt.Errorf("critic requested revision without feedback")
				}
				return loop.Verdict{Feedback: parsed.Feedback}, nil
			}
		}
	}

	if hasApprovalSentinel(content) {
		c.logger.Warn("critic fell back to approval sentinel", nil)
		return loop.Verdict{Approved: true, Feedback: content}, nil
	}

	return loop.Verdict{}, fmt.Errorf("malformed critic verdict: %q", truncate(content, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
