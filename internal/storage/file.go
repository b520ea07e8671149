package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"

	"github.com/tasq-sh/tasq/internal/todo"
)

// lockSuffix is appended to the queue file path to form the sidecar lock
// file. The sidecar is ephemeral; its presence between operations means
// nothing.
const lockSuffix = ".lock"

// IndexOutOfRangeError reports a line index outside the current file.
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("line index %d out of range (0-%d)", e.Index, e.Length-1)
}

// Entry is one non-blank line of the queue file with its stable 0-based
// line index.
type Entry struct {
	Index int
	Raw   string
	Task  todo.Task
}

// SkipResult describes a completed skip operation. Raw is the moved line,
// byte for byte; skipping never alters content.
type SkipResult struct {
	FromIndex int
	ToIndex   int
	Raw       string
}

// TodoFile manages a single todo.txt queue file. It holds no state between
// operations; every call re-reads the file.
type TodoFile struct {
	path   string
	logger *log.Logger
}

// New returns a TodoFile for the given path. The logger may be nil.
func New(path string, logger *log.Logger) *TodoFile {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &TodoFile{path: path, logger: logger}
}

// Path returns the queue file path.
func (f *TodoFile) Path() string {
	return f.path
}

// Exists reports whether the queue file exists.
func (f *TodoFile) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// lock acquires a non-blocking exclusive lock on the sidecar lock file and
// returns a release function. Acquisition failure is tolerated: the caller
// proceeds without the lock and the returned release is a no-op. Release
// errors and sidecar cleanup failures are swallowed.
func (f *TodoFile) lock() func() {
	lockPath := f.path + lockSuffix
	fl := flock.New(lockPath)

	locked, err := fl.TryLock()
	if err != nil || !locked {
		f.logger.Debug("proceeding without file lock", "path", lockPath, "err", err)
		_ = fl.Close()
		return func() {}
	}

	return func() {
		_ = fl.Unlock()
		_ = fl.Close()
		_ = os.Remove(lockPath)
	}
}

// readLines reads all lines without trailing newlines. A missing file is
// an empty queue, not an error.
func (f *TodoFile) readLines() ([]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read todo file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines, nil
}

// WriteLines atomically replaces the queue file with the given lines, each
// terminated by a newline. The replacement goes through a temp file in the
// same directory that is synced before the rename; on failure the temp
// file is removed and the target is left untouched.
func (f *TodoFile) WriteLines(lines []string) error {
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create todo dir: %w", err)
		}
	}

	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	if err := atomic.WriteFile(f.path, &buf); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	return nil
}

// Append adds one task to the end of the queue, creating the file (and its
// directory) if needed. This is a direct append under the lock rather than
// a full rewrite; the write is synced before the lock is released.
func (f *TodoFile) Append(task todo.Task) error {
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create todo dir: %w", err)
		}
	}

	unlock := f.lock()
	defer unlock()

	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open todo file: %w", err)
	}
	if _, err := fh.WriteString(task.Line() + "\n"); err != nil {
		_ = fh.Close()
		return fmt.Errorf("append task: %w", err)
	}
	if err := fh.Sync(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("sync todo file: %w", err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close todo file: %w", err)
	}
	return nil
}

// ListWithIndices returns every non-blank line in file order, parsed, with
// its line index. Blank lines keep their index slot but are never listed.
// Reads take no lock.
func (f *TodoFile) ListWithIndices() ([]Entry, error) {
	lines, err := f.readLines()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Entry{Index: i, Raw: line, Task: todo.Parse(line)})
	}
	return entries, nil
}

// NextIncomplete returns the first non-blank, non-completed line, or nil
// when the file is absent or everything is done.
func (f *TodoFile) NextIncomplete() (*Entry, error) {
	lines, err := f.readLines()
	if err != nil {
		return nil, err
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		task := todo.Parse(line)
		if !task.Completed {
			return &Entry{Index: i, Raw: line, Task: task}, nil
		}
	}
	return nil, nil
}

// CompleteAt marks the task at the given line index as complete and
// rewrites the file. Only that line changes; all other indices stay
// stable. The completed task is returned.
func (f *TodoFile) CompleteAt(index int) (todo.Task, error) {
	unlock := f.lock()
	defer unlock()

	lines, err := f.readLines()
	if err != nil {
		return todo.Task{}, err
	}
	if index < 0 || index >= len(lines) {
		return todo.Task{}, &IndexOutOfRangeError{Index: index, Length: len(lines)}
	}

	completed := todo.Parse(lines[index]).MarkComplete()
	lines[index] = completed.Line()

	if err := f.WriteLines(lines); err != nil {
		return todo.Task{}, err
	}
	return completed, nil
}

// SkipFirstIncomplete moves the first incomplete line to the back of the
// incomplete block: it is reinserted before the first completed line, or
// at the end of the file when no completed block exists. Returns nil when
// the file is absent or has no incomplete line. The moved line itself is
// never modified.
func (f *TodoFile) SkipFirstIncomplete() (*SkipResult, error) {
	unlock := f.lock()
	defer unlock()

	lines, err := f.readLines()
	if err != nil {
		return nil, err
	}

	from := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !todo.Parse(line).Completed {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, nil
	}

	raw := lines[from]
	remaining := append(append([]string{}, lines[:from]...), lines[from+1:]...)

	to := len(remaining)
	for i, line := range remaining {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if todo.Parse(line).Completed {
			to = i
			break
		}
	}

	moved := append(append([]string{}, remaining[:to]...), raw)
	moved = append(moved, remaining[to:]...)

	if err := f.WriteLines(moved); err != nil {
		return nil, err
	}
	return &SkipResult{FromIndex: from, ToIndex: to, Raw: raw}, nil
}
