// Package brief loads research briefs: markdown files whose YAML
// frontmatter carries session parameters and whose body becomes extra
// researcher context.
package brief

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Brief represents a loaded research brief.
type Brief struct {
	// From frontmatter
	Topic        string   `yaml:"topic"`
	MaxRevisions *int     `yaml:"max_revisions,omitempty"`
	Focus        []string `yaml:"focus,omitempty"`

	// From content
	Context string `yaml:"-"`

	// Location
	Path string `yaml:"-"`
}

// Load loads a brief from a markdown file.
func Load(path string) (*Brief, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brief: %w", err)
	}

	b, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b.Path = path
	return b, nil
}

// Parse parses brief file content.
func Parse(content string) (*Brief, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	b := &Brief{}
	if err := yaml.Unmarshal([]byte(frontmatter), b); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}

	if b.MaxRevisions != nil && *b.MaxRevisions < 0 {
		return nil, fmt.Errorf("max_revisions must not be negative, got %d", *b.MaxRevisions)
	}

	b.Context = strings.TrimSpace(body)
	return b, nil
}

// PromptContext renders the brief's focus hints and body for the
// researcher prompt.
func (b *Brief) PromptContext() string {
	var parts []string
	if len(b.Focus) > 0 {
		parts = append(parts, "Focus areas:\n- "+strings.Join(b.Focus, "\n- "))
	}
	if b.Context != "" {
		parts = append(parts, b.Context)
	}
	return strings.Join(parts, "\n\n")
}

// splitFrontmatter extracts YAML frontmatter from markdown.
func splitFrontmatter(content string) (frontmatter, body string, err error) {
	lines := strings.Split(content, "\n")

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", "", fmt.Errorf("missing frontmatter delimiter")
	}

	var fmLines []string
	var bodyStart int
	inFrontmatter := true

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			inFrontmatter = false
			bodyStart = i + 1
			break
		}
		if inFrontmatter {
			fmLines = append(fmLines, lines[i])
		}
	}

	if inFrontmatter {
		return "", "", fmt.Errorf("unclosed frontmatter")
	}

	frontmatter = strings.Join(fmLines, "\n")
	if bodyStart < len(lines) {
		body = strings.Join(lines[bodyStart:], "\n")
	}
	return frontmatter, body, nil
}
