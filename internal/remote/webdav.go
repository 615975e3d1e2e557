package remote

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/http2"

	"github.com/promptkit/promptsync/internal/config"
	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/models"
)

// WebDAVStore implements Store against a WebDAV server using plain HTTP
// verbs plus PROPFIND/MKCOL. Authentication is HTTP Basic.
type WebDAVStore struct {
	client    *http.Client
	baseURL   string
	username  string
	password  string
	userAgent string
	logger    *events.Logger
}

// NewWebDAVStore creates a WebDAV-backed remote store.
func NewWebDAVStore(cfg *config.RemoteConfig, logger *events.Logger) *WebDAVStore {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			NextProtos: []string{"h2", "http/1.1"},
		},
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		logger.WithError(err).Warn("Failed to configure HTTP/2")
	}

	return &WebDAVStore{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		username:  cfg.Username,
		password:  cfg.Password,
		userAgent: cfg.UserAgent,
		logger:    logger.WithField("component", "webdav_store"),
	}
}

// Exists checks a path with a zero-depth PROPFIND.
func (s *WebDAVStore) Exists(ctx context.Context, path string) (bool, error) {
	resp, err := s.do(ctx, "PROPFIND", path, nil, map[string]string{"Depth": "0"})
	if err != nil {
		return false, &models.RemoteError{Op: "stat", Path: path, Err: err}
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300, resp.StatusCode == http.StatusMultiStatus:
		return true, nil
	default:
		return false, &models.RemoteError{
			Op:   "stat",
			Path: path,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
}

// ReadText downloads the document at path.
func (s *WebDAVStore) ReadText(ctx context.Context, path string) (string, error) {
	resp, err := s.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", &models.RemoteError{Op: "read", Path: path, Err: err}
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return "", &models.RemoteError{
			Op:   "read",
			Path: path,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.RemoteError{Op: "read", Path: path, Err: err}
	}

	return string(body), nil
}

// WriteText replaces the document at path.
func (s *WebDAVStore) WriteText(ctx context.Context, path, content string) error {
	headers := map[string]string{"Content-Type": "application/json; charset=utf-8"}

	resp, err := s.do(ctx, http.MethodPut, path, strings.NewReader(content), headers)
	if err != nil {
		return &models.RemoteError{Op: "write", Path: path, Err: err}
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &models.RemoteError{
			Op:   "write",
			Path: path,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"path": path,
		"size": len(content),
	}).Debug("Wrote remote document")

	return nil
}

// Mkdir issues MKCOL. Servers answer 405 when the collection already
// exists; that counts as success.
func (s *WebDAVStore) Mkdir(ctx context.Context, path string) error {
	resp, err := s.do(ctx, "MKCOL", path, nil, nil)
	if err != nil {
		return &models.RemoteError{Op: "mkdir", Path: path, Err: err}
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK, http.StatusMethodNotAllowed:
		return nil
	default:
		return &models.RemoteError{
			Op:   "mkdir",
			Path: path,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
}

// do builds and executes one request.
func (s *WebDAVStore) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	url := s.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	s.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    url,
	}).Debug("Sending request")

	return s.client.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
