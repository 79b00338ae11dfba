package artifact

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore persists artifacts as flat files under a single directory.
// It assumes single-process, single-writer access; concurrent processes
// sharing one store directory are not supported.
type FileStore struct {
	dir string

	// now is swappable for deterministic timestamps in tests.
	now func() time.Time
}

// NewFileStore creates the store directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the store's root directory.
func (s *FileStore) Dir() string { return s.dir }

// Append adds a timestamped entry to the named log. The entry is written
// with a single write call so a crash cannot leave a torn entry followed
// by a well-formed one.
func (s *FileStore) Append(log, entry string) error {
	var buf bytes.Buffer
	buf.WriteString(entryHeader(s.now()))
	buf.WriteString("\n\n")
	buf.WriteString(strings.TrimRight(entry, "\n"))
	buf.WriteString("\n\n")

	if err := s.appendBytes(log, buf.Bytes()); err != nil {
		return &Error{Op: "append", Name: log, Err: err}
	}
	return nil
}

// Overwrite replaces the slot content. Write-to-temp plus rename keeps the
// previous value intact if the write fails midway.
func (s *FileStore) Overwrite(slot, content string) error {
	path := filepath.Join(s.dir, slot)
	tmp, err := os.CreateTemp(s.dir, slot+".tmp-*")
	if err != nil {
		return &Error{Op: "overwrite", Name: slot, Err: err}
	}
	tmpName := tmp.Name()

	_, werr := tmp.WriteString(content)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmpName)
		if werr == nil {
			werr = cerr
		}
		return &Error{Op: "overwrite", Name: slot, Err: werr}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &Error{Op: "overwrite", Name: slot, Err: err}
	}
	return nil
}

// RecordToolCall appends one JSON line to the tool call log.
func (s *FileStore) RecordToolCall(rec ToolCallRecord) error {
	if rec.At.IsZero() {
		rec.At = s.now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return &Error{Op: "tool_call", Name: ToolCallLog, Err: err}
	}
	data = append(data, '\n')
	if err := s.appendBytes(ToolCallLog, data); err != nil {
		return &Error{Op: "tool_call", Name: ToolCallLog, Err: err}
	}
	return nil
}

// appendBytes writes data to the named file in one call with O_APPEND.
func (s *FileStore) appendBytes(name string, data []byte) error {
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// ReadLog returns the full text of an append-only log. A missing log reads
// as empty - the store may simply not have been written yet.
func (s *FileStore) ReadLog(log string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, log))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", &Error{Op: "read", Name: log, Err: err}
	}
	return string(data), nil
}

// ReadSlot returns the current content of an overwrite slot.
func (s *FileStore) ReadSlot(slot string) (string, error) {
	return s.ReadLog(slot)
}

// ReadToolCalls parses the tool call log, one record per line. Lines that
// fail to parse are skipped: each record is independently parseable and a
// torn trailing line must not hide the rest.
func (s *FileStore) ReadToolCalls() ([]ToolCallRecord, error) {
	f, err := os.Open(filepath.Join(s.dir, ToolCallLog))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "read", Name: ToolCallLog, Err: err}
	}
	defer f.Close()

	var records []ToolCallRecord
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec ToolCallRecord
			if jerr := json.Unmarshal(line, &rec); jerr == nil {
				records = append(records, rec)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return records, &Error{Op: "read", Name: ToolCallLog, Err: err}
		}
	}
	return records, nil
}

// EntryCount returns the number of entries in an append-only log.
func (s *FileStore) EntryCount(log string) (int, error) {
	if log == ToolCallLog {
		recs, err := s.ReadToolCalls()
		return len(recs), err
	}
	content, err := s.ReadLog(log)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "### ") {
			count++
		}
	}
	return count, nil
}
