package artifact

import (
	"strings"
	"sync"
	"time"
)

// MemStore is an in-memory store used by tests and ephemeral runs. It
// implements the same append/overwrite disciplines as FileStore without
// touching the filesystem.
type MemStore struct {
	mu        sync.Mutex
	logs      map[string][]string
	slots     map[string]string
	toolCalls []ToolCallRecord

	now func() time.Time

	// FailWrites makes every write return an error, for exercising the
	// controller's store failure path.
	FailWrites error
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		logs:  make(map[string][]string),
		slots: make(map[string]string),
		now:   time.Now,
	}
}

// Append adds an entry to the named log.
func (s *MemStore) Append(log, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return &Error{Op: "append", Name: log, Err: s.FailWrites}
	}
	s.logs[log] = append(s.logs[log], entry)
	return nil
}

// Overwrite replaces the slot content.
func (s *MemStore) Overwrite(slot, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return &Error{Op: "overwrite", Name: slot, Err: s.FailWrites}
	}
	s.slots[slot] = content
	return nil
}

// RecordToolCall appends a tool call record.
func (s *MemStore) RecordToolCall(rec ToolCallRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return &Error{Op: "tool_call", Name: ToolCallLog, Err: s.FailWrites}
	}
	if rec.At.IsZero() {
		rec.At = s.now()
	}
	s.toolCalls = append(s.toolCalls, rec)
	return nil
}

// ReadLog joins all entries of a log with entry headers, matching the
// FileStore on-disk shape closely enough for the review renderer.
func (s *MemStore) ReadLog(log string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, entry := range s.logs[log] {
		b.WriteString(entryHeader(s.now()))
		b.WriteString("\n\n")
		b.WriteString(strings.TrimRight(entry, "\n"))
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// ReadSlot returns the current slot content.
func (s *MemStore) ReadSlot(slot string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[slot], nil
}

// ReadToolCalls returns all recorded tool calls in invocation order.
func (s *MemStore) ReadToolCalls() ([]ToolCallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ToolCallRecord, len(s.toolCalls))
	copy(out, s.toolCalls)
	return out, nil
}

// EntryCount returns the number of entries in a log.
func (s *MemStore) EntryCount(log string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log == ToolCallLog {
		return len(s.toolCalls), nil
	}
	return len(s.logs[log]), nil
}

// Entries returns the raw entries of a log, for assertions in tests.
func (s *MemStore) Entries(log string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.logs[log]))
	copy(out, s.logs[log])
	return out
}
