package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	errs "instaviewer/pkg/errors"
)

// Manager saves downloaded media under an output directory and remembers
// what is already on disk
type Manager struct {
	outputDir   string
	userFolders bool
	saved       map[string]bool
	mu          sync.RWMutex
}

// NewManager creates the output directory and indexes the media files it
// already holds. With userFolders set, each username gets its own
// subdirectory.
func NewManager(outputDir string, userFolders bool) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeStorage, 0, "failed to create output directory", err)
	}

	m := &Manager{
		outputDir:   outputDir,
		userFolders: userFolders,
		saved:       make(map[string]bool),
	}

	if err := m.scan(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return m, nil
}

// scan walks the output directory one level deep so per-user folders are
// picked up as well
func (m *Manager) scan() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			m.index(entry.Name())
			continue
		}
		nested, err := os.ReadDir(filepath.Join(m.outputDir, entry.Name()))
		if err != nil {
			continue
		}
		for _, n := range nested {
			if !n.IsDir() {
				m.index(filepath.Join(entry.Name(), n.Name()))
			}
		}
	}

	return nil
}

func (m *Manager) index(rel string) {
	if !isMedia(rel) {
		return
	}
	m.saved[rel] = true
}

func isMedia(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".mp4":
		return true
	}
	return false
}

// relPath is the key of filename inside the output directory
func (m *Manager) relPath(username, filename string) string {
	if m.userFolders && username != "" {
		return filepath.Join(username, filename)
	}
	return filename
}

// Path returns where filename for username is stored
func (m *Manager) Path(username, filename string) string {
	return filepath.Join(m.outputDir, m.relPath(username, filename))
}

// Exists reports whether filename has already been saved for username
func (m *Manager) Exists(username, filename string) bool {
	rel := m.relPath(username, filename)

	m.mu.RLock()
	known := m.saved[rel]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(filepath.Join(m.outputDir, rel)); err != nil {
		return false
	}

	m.mu.Lock()
	m.saved[rel] = true
	m.mu.Unlock()
	return true
}

// Save writes r to filename through a temporary file and an atomic rename.
// It returns the final path and the number of bytes written.
func (m *Manager) Save(r io.Reader, username, filename string) (string, int64, error) {
	rel := m.relPath(username, filename)
	path := filepath.Join(m.outputDir, rel)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", 0, errs.Wrap(errs.ErrorTypeStorage, 0, "failed to create user directory", err)
	}

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", 0, errs.Wrap(errs.ErrorTypeStorage, 0, "failed to create temporary file", err)
	}

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tmp)
		return "", 0, errs.Wrap(errs.ErrorTypeStorage, 0, "failed to write media data", err)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return "", 0, errs.Wrap(errs.ErrorTypeStorage, 0, "failed to close file", closeErr)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", 0, errs.Wrap(errs.ErrorTypeStorage, 0, "failed to rename temporary file", err)
	}

	m.mu.Lock()
	m.saved[rel] = true
	m.mu.Unlock()

	return path, n, nil
}

// OutputDir returns the root output directory
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// Count returns the number of media files known to be on disk
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}
