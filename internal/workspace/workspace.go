package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"git.home.luguber.info/inful/techdocs-core/internal/logfields"
)

// Manager handles workspace operations (both temporary and persistent)
type Manager struct {
	baseDir    string
	prefix     string
	dir        string
	persistent bool

	cleanupOnce sync.Once
	cleanupErr  error
}

// NewManager creates a workspace manager with ephemeral directories named
// prefix followed by a random suffix, under baseDir (the system temp dir
// when empty).
func NewManager(baseDir, prefix string) *Manager {
	return &Manager{baseDir: baseDir, prefix: prefix}
}

// NewPersistentManager creates a workspace manager for a fixed directory
// that is not removed on Cleanup.
func NewPersistentManager(dir string) *Manager {
	return &Manager{dir: dir, persistent: true}
}

// Create creates the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create persistent workspace directory: %w", err)
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	dir, err := os.MkdirTemp(m.baseDir, m.prefix)
	if err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// GetPath returns the path to the workspace directory
func (m *Manager) GetPath() string {
	return m.dir
}

// Persistent reports whether Cleanup leaves the directory in place.
func (m *Manager) Persistent() bool {
	return m.persistent
}

// Cleanup removes an ephemeral workspace. Only the first call does any work;
// a directory that is already gone is not an error.
func (m *Manager) Cleanup() error {
	m.cleanupOnce.Do(func() {
		if m.dir == "" {
			return
		}
		if m.persistent {
			slog.Debug("Skipping cleanup for persistent workspace", logfields.Path(m.dir))
			return
		}
		if err := os.RemoveAll(m.dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.cleanupErr = fmt.Errorf("failed to cleanup workspace: %w", err)
			return
		}
		slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	})
	return m.cleanupErr
}
