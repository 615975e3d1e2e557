// Package testutil provides shared helpers for integration tests: an
// in-memory WebDAV server, test loggers and ready-made configurations.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/promptkit/promptsync/internal/config"
	"github.com/promptkit/promptsync/internal/events"
)

// DAVServer is a minimal in-memory WebDAV endpoint supporting the verbs
// the sync engine needs: PROPFIND, GET, PUT and MKCOL.
type DAVServer struct {
	*httptest.Server

	mu    sync.RWMutex
	files map[string]string
	dirs  map[string]bool
}

// NewDAVServer starts an in-memory WebDAV server. Callers must Close it.
func NewDAVServer() *DAVServer {
	s := &DAVServer{
		files: make(map[string]string),
		dirs:  make(map[string]bool),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// File returns a stored document.
func (s *DAVServer) File(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	return content, ok
}

// SetFile seeds a document.
func (s *DAVServer) SetFile(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
}

func (s *DAVServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case "PROPFIND":
		if _, ok := s.files[r.URL.Path]; ok || s.dirs[r.URL.Path] {
			w.WriteHeader(http.StatusMultiStatus)
			return
		}
		w.WriteHeader(http.StatusNotFound)

	case http.MethodGet:
		content, ok := s.files[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, content)

	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		s.files[r.URL.Path] = string(body)
		w.WriteHeader(http.StatusCreated)

	case "MKCOL":
		if s.dirs[r.URL.Path] {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.dirs[r.URL.Path] = true
		w.WriteHeader(http.StatusCreated)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// NewTestLogger returns a logger that captures output in memory.
func NewTestLogger() *events.Logger {
	var buf bytes.Buffer
	return events.NewTestLogger(events.ErrorLevel, "json", &buf)
}

// NewTestConfig returns a client configuration pointing at the given
// server, with all local state under a per-test temp directory.
func NewTestConfig(t *testing.T, serverURL, deviceID string) *config.Config {
	t.Helper()

	dataDir := t.TempDir()
	return &config.Config{
		Remote: config.RemoteConfig{
			BaseURL:   serverURL,
			Timeout:   10 * time.Second,
			UserAgent: "promptsync-test",
		},
		Storage: config.StorageConfig{
			DataDir:      dataDir,
			DatabasePath: filepath.Join(dataDir, "promptsync.db"),
		},
		Sync: config.SyncConfig{
			RemoteDir:    "/promptsync",
			SnapshotFile: "snapshot.json",
			DeviceID:     deviceID,
			DeviceName:   deviceID,
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "json",
		},
	}
}
