package research

import (
	"context"
	"errors"
	"testing"

	"github.com/vinayprograms/agentkit/llm"
)

func TestReview_ApproveVerdict(t *testing.T) {
	provider := llm.NewMockProvider()
	provider.SetResponse(`{"verdict":"approve","feedback":"solid, well sourced"}`)

	v, err := NewCritic(provider).Review(context.Background(), "query", "answer")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !v.Approved || v.Feedback != "solid, well sourced" {
		t.Errorf("verdict = %+v", v)
	}
}

func TestReview_ReviseVerdict(t *testing.T) {
	provider := llm.NewMockProvider()
	provider.SetResponse("Here is my assessment:\n" +
		`{"verdict":"revise","feedback":"the second section lacks citations"}`)

	v, err := NewCritic(provider).Review(context.Background(), "query", "answer")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if v.Approved {
		t.Error("revise verdict parsed as approval")
	}
	if v.Feedback != "the second section lacks citations" {
		t.Errorf("feedback = %q", v.Feedback)
	}
}

func TestReview_ReviseWithoutFeedbackIsMalformed(t *testing.T) {
	provider := llm.NewMockProvider()
	provider.SetResponse(`{"verdict":"revise","feedback":""}`)

	if _, err := NewCritic(provider).Review(context.Background(), "query", "answer"); err == nil {
		t.Fatal("expected error for revise without feedback")
	}
}

func TestReview_SentinelFallbackApproves(t *testing.T) {
	provider := llm.NewMockProvider()
	provider.SetResponse("The answer covers everything I would check.\n\nENOUGH\n")

	v, err := NewCritic(provider).Review(context.Background(), "query", "answer")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !v.Approved {
		t.Error("bare sentinel line did not approve")
	}
}

func TestReview_SentinelInsideFenceIgnored(t *testing.T) {
	provider := llm.NewMockProvider()
	provider.SetResponse("The answer should not print this:\n```\nENOUGH\n```\nStill needs work.")

	if _, err := NewCritic(provider).Review(context.Background(), "query", "answer"); err == nil {
		t.Fatal("fenced sentinel must not count as a verdict")
	}
}

func TestReview_MalformedVerdictFails(t *testing.T) {
	provider := llm.NewMockProvider()
	provider.SetResponse("I think it is fine, probably.")

	if _, err := NewCritic(provider).Review(context.Background(), "query", "answer"); err == nil {
		t.Fatal("expected malformed verdict error")
	}
}

func TestReview_ProviderErrorPropagates(t *testing.T) {
	provider := llm.NewMockProvider()
	provider.SetError(errors.New("connection reset"))

	if _, err := NewCritic(provider).Review(context.Background(), "query", "answer"); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"surrounded by prose", `Sure! {"a":{"b":2}} Hope that helps.`, `{"a":{"b":2}}`},
		{"brace inside string", `{"a":"}"}`, `{"a":"}"}`},
		{"no object", "plain text", ""},
		{"unbalanced", `{"a":`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.content); got != tc.want {
				t.Errorf("extractJSON = %q, want %q", got, tc.want)
			}
		})
	}
}
