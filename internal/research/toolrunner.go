package research

import (
	"context"
	"fmt"

	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/tools"
)

// ToolRunner abstracts tool lookup and execution so tests can substitute
// scripted tools for the real registry.
type ToolRunner interface {
	Definitions() []llm.ToolDef
	Run(ctx context.Context, name string, args map[string]interface{}) (interface{}, error)
}

// RegistryRunner adapts an agentkit tool registry, exposing only the named
// tools to the model.
type RegistryRunner struct {
	registry *tools.Registry
	allowed  map[string]bool
}

// NewRegistryRunner wraps a registry. With no names given every registered
// tool is exposed.
func NewRegistryRunner(registry *tools.Registry, names ...string) *RegistryRunner {
	var allowed map[string]bool
	if len(names) > 0 {
		allowed = make(map[string]bool, len(names))
		for _, n := range names {
			allowed[n] = true
		}
	}
	return &RegistryRunner{registry: registry, allowed: allowed}
}

// Definitions returns the exposed tool definitions.
func (r *RegistryRunner) Definitions() []llm.ToolDef {
	var defs []llm.ToolDef
	for _, def := range r.registry.Definitions() {
		if r.allowed != nil && !r.allowed[def.Name] {
			continue
		}
		defs = append(defs, llm.ToolDef{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Parameters,
		})
	}
	return defs
}

// Run executes a tool by name.
func (r *RegistryRunner) Run(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	if r.allowed != nil && !r.allowed[name] {
		return nil, fmt.Errorf("tool not available: %s", name)
	}
	tool := r.registry.Get(name)
	if tool == nil {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return tool.Execute(ctx, args)
}
