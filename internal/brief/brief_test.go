package brief

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	content := `---
topic: battery recycling economics
max_revisions: 2
focus:
  - lithium-ion
  - EU regulation
---

Prefer sources from the last three years.
`

	b, err := Parse(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b.Topic != "battery recycling economics" {
		t.Errorf("topic = %q", b.Topic)
	}
	if b.MaxRevisions == nil || *b.MaxRevisions != 2 {
		t.Errorf("max_revisions = %v", b.MaxRevisions)
	}
	if len(b.Focus) != 2 || b.Focus[1] != "EU regulation" {
		t.Errorf("focus = %v", b.Focus)
	}
	if b.Context != "Prefer sources from the last three years." {
		t.Errorf("context = %q", b.Context)
	}
}

func TestParse_MinimalBrief(t *testing.T) {
	b, err := Parse("---\ntopic: anything\n---\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b.MaxRevisions != nil {
		t.Error("unset max_revisions should stay nil")
	}
	if b.Context != "" {
		t.Errorf("context = %q, want empty", b.Context)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no frontmatter", "just a markdown file\n"},
		{"unclosed frontmatter", "---\ntopic: x\n"},
		{"bad yaml", "---\ntopic: [unclosed\n---\n"},
		{"negative revisions", "---\ntopic: x\nmax_revisions: -1\n---\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.content); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brief.md")
	content := "---\ntopic: solar panel efficiency\n---\nBody text.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b.Topic != "solar panel efficiency" || b.Path != path {
		t.Errorf("brief = %+v", b)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPromptContext(t *testing.T) {
	b := &Brief{
		Focus:   []string{"costs", "policy"},
		Context: "Body paragraph.",
	}
	got := b.PromptContext()
	if !strings.Contains(got, "- costs") || !strings.Contains(got, "Body paragraph.") {
		t.Errorf("prompt context = %q", got)
	}

	empty := &Brief{}
	if empty.PromptContext() != "" {
		t.Error("empty brief should render no context")
	}
}
