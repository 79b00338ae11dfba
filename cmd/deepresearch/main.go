// Package main is the entry point for the deepresearch CLI.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/vinayprograms/agentkit/credentials"
	"github.com/vinayprograms/deepresearch/internal/artifact"
	"github.com/vinayprograms/deepresearch/internal/loop"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// globalCreds holds loaded credentials (file > env fallback happens in GetAPIKey)
var globalCreds *credentials.Credentials

func init() {
	// Load credentials from standard locations
	// Priority: credentials.toml > env vars (handled by GetAPIKey)
	if creds, _, err := credentials.Load(); err == nil && creds != nil {
		globalCreds = creds
	}

	// Load .env for any additional env vars
	_ = godotenv.Load()
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("deepresearch"),
		kong.Description("Bounded research/critique loop over LLM collaborators"),
		kong.UsageOnError(),
		kongVars(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case strings.HasPrefix(kctx.Command(), "run"):
		err = runSession(ctx, &cli.Run)
	case strings.HasPrefix(kctx.Command(), "review"):
		err = reviewStore(&cli.Review)
	case kctx.Command() == "version":
		fmt.Printf("deepresearch version %s (commit: %s, built: %s)\n", version, commit, buildTime)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy to process exit codes: 1 for rejected
// input, 2 for a collaborator failure, 3 for store I/O.
func exitCode(err error) int {
	var verr *loop.ValidationError
	var cerr *loop.CollaboratorError
	var serr *artifact.Error
	switch {
	case errors.As(err, &verr):
		return 1
	case errors.As(err, &cerr):
		return 2
	case errors.As(err, &serr):
		return 3
	default:
		return 1
	}
}

// resolveQuery picks the session query: CLI argument, brief topic, or an
// interactive stdin prompt.
func resolveQuery(args []string, briefTopic string) (string, error) {
	if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
		return q, nil
	}
	if strings.TrimSpace(briefTopic) != "" {
		return briefTopic, nil
	}

	fmt.Fprint(os.Stderr, "Your question >>> ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read query: %w", err)
	}
	return strings.TrimSpace(line), nil
}
