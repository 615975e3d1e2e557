// Package client wires configuration, logging and collaborators into a
// ready-to-use promptsync instance.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/promptkit/promptsync/internal/config"
	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/localdata"
	"github.com/promptkit/promptsync/internal/models"
	"github.com/promptkit/promptsync/internal/remote"
	"github.com/promptkit/promptsync/internal/services/sync"
)

// AppVersion is stamped into snapshot device info.
const AppVersion = "1.0.0"

// Client provides the high-level API for promptsync operations.
type Client struct {
	Sync *sync.Service

	Device models.DeviceInfo

	config *config.Config
	logger *events.Logger
	source *localdata.SQLiteSource
}

// New creates a client from config.
func New(cfg *config.Config, logger *events.Logger) (*Client, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	deviceID, err := resolveDeviceID(cfg)
	if err != nil {
		return nil, err
	}

	device := models.DeviceInfo{
		ID:         deviceID,
		Name:       cfg.Sync.DeviceName,
		Platform:   runtime.GOOS,
		AppVersion: AppVersion,
	}

	source, err := localdata.NewSQLiteSource(cfg.Storage.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open local data source: %w", err)
	}

	davStore := remote.NewWebDAVStore(&cfg.Remote, logger)
	snapshotStore := remote.NewSnapshotStore(davStore, cfg.Sync.RemoteDir, cfg.Sync.SnapshotPath(), logger)

	return &Client{
		Sync:   sync.NewService(source, snapshotStore, device, nil, logger),
		Device: device,
		config: cfg,
		logger: logger,
		source: source,
	}, nil
}

// Close releases resources.
func (c *Client) Close() error {
	return c.source.Close()
}

// resolveDeviceID returns the configured device ID or a generated one
// persisted under the data directory, so the same device keeps its
// identity across runs.
func resolveDeviceID(cfg *config.Config) (string, error) {
	if cfg.Sync.DeviceID != "" {
		return cfg.Sync.DeviceID, nil
	}

	idPath := filepath.Join(cfg.Storage.DataDir, "device_id")

	if data, err := os.ReadFile(idPath); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.WriteFile(idPath, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}

	return id, nil
}
