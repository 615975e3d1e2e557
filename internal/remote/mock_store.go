package remote

import (
	"context"
	"fmt"
	"sync"
)

// MockStore provides an in-memory Store for testing.
type MockStore struct {
	mu    sync.RWMutex
	files map[string]string
	dirs  map[string]bool

	// Failure injection, keyed by operation name
	failures map[string]error

	// WriteCount tracks how many writes happened, per path.
	writeCounts map[string]int
}

// NewMockStore creates a mock remote store.
func NewMockStore() *MockStore {
	return &MockStore{
		files:       make(map[string]string),
		dirs:        make(map[string]bool),
		failures:    make(map[string]error),
		writeCounts: make(map[string]int),
	}
}

// FailWith makes the given operation ("stat", "read", "write", "mkdir")
// return err on every call until cleared with nil.
func (m *MockStore) FailWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// SetFile seeds a document.
func (m *MockStore) SetFile(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
}

// GetFile returns a stored document.
func (m *MockStore) GetFile(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[path]
	return content, ok
}

// WriteCount returns the number of writes to a path.
func (m *MockStore) WriteCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writeCounts[path]
}

// Exists reports whether a path holds a document or directory.
func (m *MockStore) Exists(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failures["stat"]; err != nil {
		return false, err
	}

	if _, ok := m.files[path]; ok {
		return true, nil
	}
	return m.dirs[path], nil
}

// ReadText returns a stored document.
func (m *MockStore) ReadText(_ context.Context, path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failures["read"]; err != nil {
		return "", err
	}

	content, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("not found: %s", path)
	}
	return content, nil
}

// WriteText stores a document.
func (m *MockStore) WriteText(_ context.Context, path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures["write"]; err != nil {
		return err
	}

	m.files[path] = content
	m.writeCounts[path]++
	return nil
}

// Mkdir records a directory. Idempotent.
func (m *MockStore) Mkdir(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures["mkdir"]; err != nil {
		return err
	}

	m.dirs[path] = true
	return nil
}
