// Package artifact provides durable recording of research session activity.
//
// Two persistence disciplines exist side by side: append-only logs (notes,
// open questions, critic feedback, tool calls) and overwrite slots (the
// latest answer). Logs survive across process runs; entries from earlier
// sessions stay visible until the user clears the store directory. A failed
// collaborator call can therefore leave a round's notes on disk without a
// matching answer update - that is intended, not corruption.
package artifact

import (
	"fmt"
	"time"
)

// Named append-only logs.
const (
	LogNotes          = "notes.md"
	LogOpenQuestions  = "open_questions.md"
	LogCriticFeedback = "critic_feedback.md"
)

// Named overwrite slots.
const (
	SlotFinalAnswer = "final_answer.md"
)

// ToolCallLog is the machine-readable tool invocation log, one JSON object
// per line.
const ToolCallLog = "tool_calls.jsonl"

// ToolCallRecord describes one external tool invocation.
type ToolCallRecord struct {
	Query       string    `json:"query"`
	DurationMs  int64     `json:"duration_ms"`
	ResultCount int       `json:"result_count"`
	At          time.Time `json:"at"`
}

// Store is the interface for artifact persistence.
//
// Append and RecordToolCall never remove or reorder prior entries.
// Overwrite keeps exactly one live value per slot. Writes are all-or-nothing
// per call; failures are reported, never retried internally.
type Store interface {
	Append(log, entry string) error
	Overwrite(slot, content string) error
	RecordToolCall(rec ToolCallRecord) error
}

// Reader is the read side of a store, used by the review command and tests.
type Reader interface {
	ReadLog(log string) (string, error)
	ReadSlot(slot string) (string, error)
	ReadToolCalls() ([]ToolCallRecord, error)
	EntryCount(log string) (int, error)
}

// Error identifies a failed store operation by target name.
type Error struct {
	Op   string // "append", "overwrite", "tool_call"
	Name string // log or slot name
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("artifact store %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// entryHeader renders the timestamp header that precedes every appended
// entry. Entry counts are recovered by counting these headers.
func entryHeader(at time.Time) string {
	return "### " + at.UTC().Format(time.RFC3339)
}
