// Package main defines the CLI structure using kong.
package main

import "github.com/alecthomas/kong"

// CLI defines the command-line interface.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"Run a research session"`
	Review  ReviewCmd  `cmd:"" help:"Review stored session artifacts"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// RunCmd drives one research session.
type RunCmd struct {
	Query        []string `arg:"" optional:"" help:"Research query (omitted: read from brief topic or stdin)"`
	Brief        string   `short:"b" help:"Research brief file (markdown with YAML frontmatter)"`
	Config       string   `help:"Config file path (default: ./research.toml)"`
	Store        string   `help:"Artifact store directory (overrides config)"`
	MaxRevisions int      `default:"-1" env:"RESEARCH_MAX_REVISIONS" help:"Revision rounds after the initial draft (overrides config)"`
}

// ReviewCmd renders the artifact store.
type ReviewCmd struct {
	Config  string `help:"Config file path (default: ./research.toml)"`
	Store   string `help:"Artifact store directory (overrides config)"`
	Live    bool   `help:"Watch the store and refresh as a session writes"`
	NoPager bool   `help:"Print to stdout instead of the interactive pager"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

// kongVars returns variables for kong (version info).
func kongVars() kong.Vars {
	return kong.Vars{
		"version": version,
	}
}
