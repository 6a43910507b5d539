// Package history keeps the most recently searched usernames.
//
// Store is the capability the viewer depends on. Its methods never fail:
// when persistent storage is unavailable the history simply behaves as if
// it were empty.
package history

import (
	"strings"
	"sync"

	"instaviewer/pkg/logger"
)

const (
	// StorageKey names the persisted list in every backend
	StorageKey = "recentSearches"

	// MaxEntries bounds the list length
	MaxEntries = 5
)

// Store is a best-effort most-recently-used list of usernames
type Store interface {
	// Read returns the list, most recent first
	Read() []string
	// Add moves username to the front and returns the new list
	Add(username string) []string
	// Clear forgets every entry
	Clear()
}

// Backend persists the raw list. Backends report errors; Recent swallows
// them.
type Backend interface {
	Load() ([]string, error)
	Save(usernames []string) error
	Remove() error
	Close() error
}

// Push returns list with username at the front. Entries equal to username
// ignoring case are removed first, so the most recent casing wins. The
// result holds at most MaxEntries items; list is not modified.
func Push(list []string, username string) []string {
	next := make([]string, 0, MaxEntries)
	next = append(next, username)
	for _, entry := range list {
		if len(next) == MaxEntries {
			break
		}
		if strings.EqualFold(entry, username) {
			continue
		}
		next = append(next, entry)
	}
	return next
}

// Recent is the Store backed by a Backend
type Recent struct {
	mu      sync.Mutex
	backend Backend
	logger  logger.Logger
}

// NewRecent wraps backend as a Store
func NewRecent(backend Backend, log logger.Logger) *Recent {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Recent{backend: backend, logger: log.WithField("component", "history")}
}

// Read returns the stored list, or an empty list when storage fails
func (r *Recent) Read() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *Recent) read() []string {
	list, err := r.backend.Load()
	if err != nil {
		r.logger.WithError(err).Debug("history unavailable, treating as empty")
		return []string{}
	}

	clean := make([]string, 0, len(list))
	for _, entry := range list {
		if entry = strings.TrimSpace(entry); entry != "" {
			clean = append(clean, entry)
		}
		if len(clean) == MaxEntries {
			break
		}
	}
	return clean
}

// Add records username as the most recent search
func (r *Recent) Add(username string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	username = strings.TrimSpace(username)
	if username == "" {
		return r.read()
	}

	next := Push(r.read(), username)
	if err := r.backend.Save(next); err != nil {
		r.logger.WithError(err).Debug("failed to persist history")
	}
	return next
}

// Clear removes the stored list
func (r *Recent) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.Remove(); err != nil {
		r.logger.WithError(err).Debug("failed to clear history")
	}
}

// Close releases the backend
func (r *Recent) Close() error {
	return r.backend.Close()
}

// Nop is a Store that remembers nothing
type Nop struct{}

func (Nop) Read() []string      { return []string{} }
func (Nop) Add(string) []string { return []string{} }
func (Nop) Clear()              {}

// discard is the Backend used when the configured one cannot be opened
type discard struct{}

func (discard) Load() ([]string, error) { return nil, nil }
func (discard) Save([]string) error     { return nil }
func (discard) Remove() error           { return nil }
func (discard) Close() error            { return nil }
