// Package history persists chat sessions in a single JSON document.
//
// The document is the source of truth. It is read once when the Store is
// opened and rewritten in full on every mutation. All I/O failures are
// logged and absorbed: the in-memory list keeps working even when the disk
// does not.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/neilberkman/quickchat/internal/core/logging"
	"github.com/neilberkman/quickchat/internal/core/models"
)

// DefaultFileName is the name of the history document inside the data directory
const DefaultFileName = "chatHistory.json"

// EventKind describes which mutation produced an Event
type EventKind int

const (
	EventLoaded EventKind = iota
	EventSaved
	EventDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventSaved:
		return "saved"
	case EventDeleted:
		return "deleted"
	}
	return "unknown"
}

// Event is delivered to subscribers after the session list changes
type Event struct {
	Kind      EventKind
	SessionID string // empty for EventLoaded
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store owns the session list and the document it is persisted to.
// The list is kept newest-first: Load sorts by CreatedAt descending and
// Save inserts unseen sessions at the front.
type Store struct {
	mu       sync.Mutex
	path     string
	sessions []models.Session
	now      func() time.Time
	hooks    []func(Event)

	// Error of the last flush; non-nil while memory is ahead of the document
	flushErr error
}

// Open creates a Store backed by path and loads it
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path: path,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// DefaultPath returns ~/.local/share/quickchat/chatHistory.json
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "quickchat", DefaultFileName)
}

// Path returns the location of the history document
func (s *Store) Path() string {
	return s.path
}

// Subscribe registers fn to be called after every Load, Save and Delete.
// Hooks run on the caller's goroutine once the store lock is released.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Load replaces the in-memory list with the contents of the document.
// A missing file yields an empty list. An unreadable or malformed file is
// logged and also yields an empty list; the file itself is left untouched.
func (s *Store) Load() {
	s.mu.Lock()
	sessions, err := readDocument(s.path)
	if err != nil {
		logging.Errorf("Error loading chat history: %v", err)
		sessions = nil
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	s.sessions = sessions
	logging.Debugf("Loaded %d session(s) from %s", len(sessions), s.path)
	s.mu.Unlock()

	s.notify(Event{Kind: EventLoaded})
}

// Reload re-reads the document after an outside change. It does nothing and
// returns false while unflushed changes exist, so they are not overwritten.
func (s *Store) Reload() bool {
	if s.FlushError() != nil {
		logging.Warnf("Not reloading %s: unsaved changes in memory", s.path)
		return false
	}
	s.Load()
	return true
}

func readDocument(path string) ([]models.Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	var sessions []models.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, &StorageError{Op: "parse", Path: path, Err: err}
	}

	seen := make(map[string]bool, len(sessions))
	for i := range sessions {
		if err := sessions[i].Validate(); err != nil {
			return nil, &StorageError{Op: "parse", Path: path, Err: fmt.Errorf("session %d: %w", i, err)}
		}
		if seen[sessions[i].ID] {
			return nil, &StorageError{Op: "parse", Path: path, Err: fmt.Errorf("duplicate session id %s", sessions[i].ID)}
		}
		seen[sessions[i].ID] = true
	}
	return sessions, nil
}

// Flush writes the full list to the document. The write goes to a temp file
// in the same directory which is then renamed over the document, so readers
// see either the old or the new content.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// FlushError returns the error of the most recent flush, nil once a flush
// succeeds. Save and Delete only log flush failures; callers that need to
// report them check here afterwards.
func (s *Store) FlushError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushErr
}

func (s *Store) flushLocked() error {
	s.flushErr = s.writeLocked()
	return s.flushErr
}

func (s *Store) writeLocked() error {
	sessions := s.sessions
	if sessions == nil {
		sessions = []models.Session{}
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: tmpPath, Err: err}
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return &StorageError{Op: "rename", Path: s.path, Err: err}
	}
	return nil
}

// Save upserts session by ID and flushes. LastModified is stamped with the
// current time. A known session keeps its position; an unknown one goes to
// the front of the list. The stamped copy is returned.
func (s *Store) Save(session models.Session) models.Session {
	saved := session.Clone()

	s.mu.Lock()
	saved.LastModified = s.now()

	idx := s.indexLocked(saved.ID)
	if idx >= 0 {
		s.sessions[idx] = saved
	} else {
		s.sessions = append([]models.Session{saved}, s.sessions...)
	}

	if err := s.flushLocked(); err != nil {
		logging.Errorf("Error saving chat history: %v", err)
	}
	s.mu.Unlock()

	s.notify(Event{Kind: EventSaved, SessionID: saved.ID})
	return saved.Clone()
}

// Delete removes every session with the given ID and flushes.
// Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	kept := s.sessions[:0]
	removed := 0
	for _, sess := range s.sessions {
		if sess.ID == id {
			removed++
			continue
		}
		kept = append(kept, sess)
	}
	if removed == 0 {
		s.mu.Unlock()
		return
	}
	s.sessions = kept

	if err := s.flushLocked(); err != nil {
		logging.Errorf("Error saving chat history: %v", err)
	}
	s.mu.Unlock()

	s.notify(Event{Kind: EventDeleted, SessionID: id})
}

// CreateSession builds a new empty session. It is not added to the list:
// it becomes visible only once it is passed to Save.
func (s *Store) CreateSession(provider string) models.Session {
	return models.NewSession(provider, s.now())
}

// Sessions returns a copy of the list, newest first
func (s *Store) Sessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Latest returns the front of the list
func (s *Store) Latest() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) == 0 {
		return models.Session{}, false
	}
	return s.sessions[0].Clone(), true
}

// Get returns the session with the given ID
func (s *Store) Get(id string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.sessions[idx].Clone(), true
	}
	return models.Session{}, false
}

// Len returns the number of stored sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	hooks := make([]func(Event), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(ev)
	}
}
