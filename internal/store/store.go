// internal/store/store.go
//
// The Store is the ordered task list the UI edits. It is mirrored to a flat
// file: every mutation rewrites the whole file from the in-memory order.
// A failed write leaves the in-memory list as the mutation left it.
//
// The Store is not safe for concurrent use. It is owned by the UI event
// loop, which runs one handler at a time.

package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kingrea/todo/internal/task"
)

// DefaultFile is the persistence file used when no path is configured.
const DefaultFile = "tasks.txt"

const maxLineBytes = 1024 * 1024

var (
	// ErrLoad marks a failure to read an existing tasks file.
	ErrLoad = errors.New("could not load tasks")
	// ErrSave marks a failure to write the tasks file.
	ErrSave = errors.New("could not save tasks")
)

// Store holds tasks in insertion order.
type Store struct {
	path    string
	tasks   []task.Task
	newID   func() string
	dropped int
}

// Option customizes a Store during construction.
type Option func(*Store)

// WithIDGenerator overrides how surrogate task keys are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New returns an empty store backed by path. Nothing is read until Load.
func New(path string, opts ...Option) *Store {
	if strings.TrimSpace(path) == "" {
		path = DefaultFile
	}
	s := &Store{
		path:  path,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Path returns the file backing this store.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of the tasks in order.
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get looks a task up by its surrogate key.
func (s *Store) Get(id string) (task.Task, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return task.Task{}, false
	}
	return s.tasks[idx], true
}

// Dropped returns how many malformed lines the last Load skipped.
func (s *Store) Dropped() int {
	return s.dropped
}

// Add appends a pending task and persists the list. Blank text is ignored:
// added is false and nothing is written.
func (s *Store) Add(text string, priority task.Priority, due time.Time) (task.Task, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return task.Task{}, false, nil
	}
	t := task.Task{
		ID:       s.newID(),
		Text:     text,
		Priority: priority,
		DueDate:  task.FormatDate(due),
		Status:   task.StatusPending,
	}
	s.tasks = append(s.tasks, t)
	return t, true, s.Save()
}

// Delete removes the task with the given key. Unknown or empty keys are a
// no-op without a write.
func (s *Store) Delete(id string) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return true, s.Save()
}

// Complete marks the task with the given key as completed. Completing an
// already completed task rewrites the file and leaves it completed.
func (s *Store) Complete(id string) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.tasks[idx].Status = task.StatusCompleted
	return true, s.Save()
}

// ClearAll removes every task and persists the empty list.
func (s *Store) ClearAll() error {
	s.tasks = nil
	return s.Save()
}

// Load replaces the in-memory list with the file contents. A missing file
// yields an empty list. Lines that do not decode are skipped. On a read
// failure or bytes that are not UTF-8 the list is left empty and the error
// wraps ErrLoad.
func (s *Store) Load() error {
	s.tasks = nil
	s.dropped = 0

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("store: open %s: %w: %w", s.path, ErrLoad, err)
	}
	defer f.Close()

	var loaded []task.Task
	dropped := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !utf8.ValidString(line) {
			return fmt.Errorf("store: read %s: %w: line %d is not valid UTF-8", s.path, ErrLoad, lineNo)
		}
		t, ok := task.Decode(line)
		if !ok {
			dropped++
			continue
		}
		t.ID = s.newID()
		loaded = append(loaded, t)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("store: read %s: %w: %w", s.path, ErrLoad, err)
	}
	s.tasks = loaded
	s.dropped = dropped
	return nil
}

// Save rewrites the whole file from the current order. The error wraps
// ErrSave.
func (s *Store) Save() error {
	var b strings.Builder
	for _, t := range s.tasks {
		b.WriteString(task.Encode(t))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w: %w", s.path, ErrSave, err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
