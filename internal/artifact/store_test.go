package artifact

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestFileStore_AppendGrowsMonotonically(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := store.Append(LogNotes, "note text"); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		count, err := store.EntryCount(LogNotes)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != i+1 {
			t.Errorf("after %d appends, count = %d", i+1, count)
		}
	}
}

func TestFileStore_AppendSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if err := store.Append(LogCriticFeedback, "first session feedback"); err != nil {
		t.Fatalf("append: %v", err)
	}

	// A second "process run" opens the same directory.
	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if err := reopened.Append(LogCriticFeedback, "second session feedback"); err != nil {
		t.Fatalf("append after reopen: %v", err)
	}

	count, err := reopened.EntryCount(LogCriticFeedback)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 entries across runs, got %d", count)
	}
	content, _ := reopened.ReadLog(LogCriticFeedback)
	if !strings.Contains(content, "first session feedback") {
		t.Error("entry from prior run was lost")
	}
}

func TestFileStore_OverwriteKeepsOneValue(t *testing.T) {
	store := newTestStore(t)

	if err := store.Overwrite(SlotFinalAnswer, "draft one"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Overwrite(SlotFinalAnswer, "draft two"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.ReadSlot(SlotFinalAnswer)
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if got != "draft two" {
		t.Errorf("slot = %q, want latest value only", got)
	}
}

func TestFileStore_OverwriteIdempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Overwrite(SlotFinalAnswer, "same content"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	once, _ := store.ReadSlot(SlotFinalAnswer)

	if err := store.Overwrite(SlotFinalAnswer, "same content"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	twice, _ := store.ReadSlot(SlotFinalAnswer)

	if once != twice {
		t.Errorf("double write changed slot: %q vs %q", once, twice)
	}
}

func TestFileStore_ToolCallLogIsJSONL(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	recs := []ToolCallRecord{
		{Query: "capital of France", DurationMs: 420, ResultCount: 5},
		{Query: "Paris population", DurationMs: 250, ResultCount: 3},
	}
	for _, rec := range recs {
		if err := store.RecordToolCall(rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	// Each line must parse on its own.
	raw, err := os.ReadFile(filepath.Join(store.Dir(), ToolCallLog))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var rec ToolCallRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("line %d does not parse: %v", i, err)
		}
		if rec.Query != recs[i].Query || rec.ResultCount != recs[i].ResultCount {
			t.Errorf("line %d = %+v, want %+v", i, rec, recs[i])
		}
		if rec.At.IsZero() {
			t.Errorf("line %d missing timestamp", i)
		}
	}

	// Round-trip through the reader preserves invocation order.
	got, err := store.ReadToolCalls()
	if err != nil {
		t.Fatalf("read tool calls: %v", err)
	}
	if len(got) != 2 || got[0].Query != "capital of France" {
		t.Errorf("reader returned %+v", got)
	}
}

func TestFileStore_ReadMissingLogIsEmpty(t *testing.T) {
	store := newTestStore(t)

	content, err := store.ReadLog(LogOpenQuestions)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if content != "" {
		t.Errorf("missing log read as %q", content)
	}
	count, err := store.EntryCount(LogOpenQuestions)
	if err != nil || count != 0 {
		t.Errorf("missing log count = %d, err = %v", count, err)
	}
}

func TestFileStore_AppendErrorNamesTarget(t *testing.T) {
	store := newTestStore(t)

	// Make the log path unwritable by turning it into a directory.
	if err := os.Mkdir(filepath.Join(store.Dir(), LogNotes), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err := store.Append(LogNotes, "entry")
	if err == nil {
		t.Fatal("expected append to fail")
	}
	var storeErr *Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *artifact.Error, got %T", err)
	}
	if storeErr.Name != LogNotes || storeErr.Op != "append" {
		t.Errorf("error = %+v, want op=append name=%s", storeErr, LogNotes)
	}
}

func TestMemStore_FailWrites(t *testing.T) {
	store := NewMemStore()
	store.FailWrites = os.ErrPermission

	if err := store.Append(LogNotes, "x"); err == nil {
		t.Error("expected append failure")
	}
	if err := store.Overwrite(SlotFinalAnswer, "x"); err == nil {
		t.Error("expected overwrite failure")
	}
	count, _ := store.EntryCount(LogNotes)
	if count != 0 {
		t.Errorf("failed write still stored an entry, count = %d", count)
	}
}
