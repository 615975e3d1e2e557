package remote_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkit/promptsync/internal/config"
	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/models"
	"github.com/promptkit/promptsync/internal/remote"
)

// davServer is a minimal in-memory WebDAV endpoint covering the verbs
// the store uses.
type davServer struct {
	files map[string]string
	dirs  map[string]bool

	lastAuth  string
	lastDepth string
}

func newDAVServer() *davServer {
	return &davServer{
		files: make(map[string]string),
		dirs:  make(map[string]bool),
	}
}

func (d *davServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.lastAuth = r.Header.Get("Authorization")
		d.lastDepth = r.Header.Get("Depth")

		switch r.Method {
		case "PROPFIND":
			if _, ok := d.files[r.URL.Path]; ok {
				w.WriteHeader(http.StatusMultiStatus)
				return
			}
			if d.dirs[r.URL.Path] {
				w.WriteHeader(http.StatusMultiStatus)
				return
			}
			w.WriteHeader(http.StatusNotFound)

		case http.MethodGet:
			content, ok := d.files[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = io.WriteString(w, content)

		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			d.files[r.URL.Path] = string(body)
			w.WriteHeader(http.StatusCreated)

		case "MKCOL":
			if d.dirs[r.URL.Path] {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			d.dirs[r.URL.Path] = true
			w.WriteHeader(http.StatusCreated)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newWebDAVStore(t *testing.T, baseURL string) *remote.WebDAVStore {
	t.Helper()

	var buf bytes.Buffer
	logger := events.NewTestLogger(events.ErrorLevel, "json", &buf)
	return remote.NewWebDAVStore(&config.RemoteConfig{
		BaseURL:   baseURL,
		Username:  "alice",
		Password:  "secret",
		Timeout:   5 * time.Second,
		UserAgent: "promptsync-test",
	}, logger)
}

func TestWebDAVExists(t *testing.T) {
	dav := newDAVServer()
	dav.files["/promptsync/snapshot.json"] = "{}"
	server := httptest.NewServer(dav.handler())
	defer server.Close()

	store := newWebDAVStore(t, server.URL)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "/promptsync/snapshot.json")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "0", dav.lastDepth)

	exists, err = store.Exists(ctx, "/promptsync/missing.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWebDAVReadText(t *testing.T) {
	dav := newDAVServer()
	dav.files["/promptsync/snapshot.json"] = `{"version":"2.0.0"}`
	server := httptest.NewServer(dav.handler())
	defer server.Close()

	store := newWebDAVStore(t, server.URL)

	content, err := store.ReadText(context.Background(), "/promptsync/snapshot.json")
	require.NoError(t, err)
	assert.Equal(t, `{"version":"2.0.0"}`, content)
}

func TestWebDAVReadMissing(t *testing.T) {
	server := httptest.NewServer(newDAVServer().handler())
	defer server.Close()

	store := newWebDAVStore(t, server.URL)

	_, err := store.ReadText(context.Background(), "/promptsync/missing.json")
	require.Error(t, err)

	var remoteErr *models.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "read", remoteErr.Op)
	assert.Equal(t, "/promptsync/missing.json", remoteErr.Path)
}

func TestWebDAVWriteText(t *testing.T) {
	dav := newDAVServer()
	server := httptest.NewServer(dav.handler())
	defer server.Close()

	store := newWebDAVStore(t, server.URL)

	err := store.WriteText(context.Background(), "/promptsync/snapshot.json", `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, dav.files["/promptsync/snapshot.json"])
}

func TestWebDAVMkdir(t *testing.T) {
	dav := newDAVServer()
	server := httptest.NewServer(dav.handler())
	defer server.Close()

	store := newWebDAVStore(t, server.URL)
	ctx := context.Background()

	require.NoError(t, store.Mkdir(ctx, "/promptsync"))

	// Existing collection answers 405, which still counts as success
	require.NoError(t, store.Mkdir(ctx, "/promptsync"))
	assert.True(t, dav.dirs["/promptsync"])
}

func TestWebDAVBasicAuth(t *testing.T) {
	dav := newDAVServer()
	server := httptest.NewServer(dav.handler())
	defer server.Close()

	store := newWebDAVStore(t, server.URL)

	_ = store.WriteText(context.Background(), "/promptsync/snapshot.json", "{}")
	assert.Contains(t, dav.lastAuth, "Basic ")
}

func TestWebDAVContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	store := newWebDAVStore(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := store.ReadText(ctx, "/promptsync/snapshot.json")
	require.Error(t, err)
}
