package main

import (
	"errors"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/vinayprograms/deepresearch/internal/artifact"
	"github.com/vinayprograms/deepresearch/internal/loop"
)

func TestRunCmd_QueryArgs(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kongVars())
	if err != nil {
		t.Fatal(err)
	}

	_, err = parser.Parse([]string{"run", "why", "is", "the", "sky", "blue"})
	if err != nil {
		t.Fatal(err)
	}

	if len(cli.Run.Query) != 5 {
		t.Errorf("query args = %v", cli.Run.Query)
	}
	if cli.Run.MaxRevisions != -1 {
		t.Errorf("default max-revisions = %d, want -1 (unset)", cli.Run.MaxRevisions)
	}
}

func TestRunCmd_Flags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kongVars())
	if err != nil {
		t.Fatal(err)
	}

	_, err = parser.Parse([]string{"run", "--brief", "topic.md", "--max-revisions", "2", "--store", "/tmp/x"})
	if err != nil {
		t.Fatal(err)
	}

	if cli.Run.Brief != "topic.md" {
		t.Errorf("brief = %q", cli.Run.Brief)
	}
	if cli.Run.MaxRevisions != 2 {
		t.Errorf("max-revisions = %d", cli.Run.MaxRevisions)
	}
	if cli.Run.Store != "/tmp/x" {
		t.Errorf("store = %q", cli.Run.Store)
	}
}

func TestRunCmd_NoQueryIsValid(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kongVars())
	if err != nil {
		t.Fatal(err)
	}

	// Interactive mode: query comes from stdin later.
	if _, err := parser.Parse([]string{"run"}); err != nil {
		t.Errorf("bare run should parse: %v", err)
	}
}

func TestReviewCmd_Flags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kongVars())
	if err != nil {
		t.Fatal(err)
	}

	_, err = parser.Parse([]string{"review", "--live", "--store", "/tmp/x"})
	if err != nil {
		t.Fatal(err)
	}

	if !cli.Review.Live || cli.Review.Store != "/tmp/x" {
		t.Errorf("review = %+v", cli.Review)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &loop.ValidationError{Reason: "empty"}, 1},
		{"collaborator", &loop.CollaboratorError{Collaborator: "critic", Round: 1, Err: errors.New("x")}, 2},
		{"store", &artifact.Error{Op: "append", Name: "notes.md", Err: errors.New("x")}, 3},
		{"wrapped collaborator", &loop.CollaboratorError{Collaborator: "researcher", Err: errors.New("x")}, 2},
		{"other", errors.New("config parse"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Errorf("exitCode = %d, want %d", got, tc.want)
			}
		})
	}
}
