package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Remote WebDAV endpoint
	Remote RemoteConfig `json:"remote" mapstructure:"remote"`

	// Local storage paths
	Storage StorageConfig `json:"storage" mapstructure:"storage"`

	// Sync behavior
	Sync SyncConfig `json:"sync" mapstructure:"sync"`

	// Logging
	Log LogConfig `json:"log" mapstructure:"log"`
}

// RemoteConfig for the WebDAV server.
type RemoteConfig struct {
	BaseURL   string        `json:"base_url" mapstructure:"base_url"`
	Username  string        `json:"username" mapstructure:"username"`
	Password  string        `json:"password,omitempty" mapstructure:"password"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	UserAgent string        `json:"user_agent" mapstructure:"user_agent"`
}

// StorageConfig for local file paths.
type StorageConfig struct {
	DataDir      string `json:"data_dir" mapstructure:"data_dir"`           // Base directory for all data
	DatabasePath string `json:"database_path" mapstructure:"database_path"` // SQLite database file
}

// SyncConfig for synchronization behavior.
type SyncConfig struct {
	RemoteDir    string `json:"remote_dir" mapstructure:"remote_dir"`       // Sync directory on the server
	SnapshotFile string `json:"snapshot_file" mapstructure:"snapshot_file"` // Snapshot document name
	DeviceID     string `json:"device_id" mapstructure:"device_id"`         // Stable device identity (generated if empty)
	DeviceName   string `json:"device_name" mapstructure:"device_name"`     // Human-readable device label
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level      string `json:"level" mapstructure:"level"`             // debug, info, warn, error
	Format     string `json:"format" mapstructure:"format"`           // text, json
	File       string `json:"file" mapstructure:"file"`               // Log file path (empty = stdout)
	MaxSize    int    `json:"max_size" mapstructure:"max_size"`       // Max log file size in MB
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"` // Max number of old logs
	MaxAge     int    `json:"max_age" mapstructure:"max_age"`         // Max age in days
}

// SnapshotPath returns the full remote path of the snapshot document.
func (c *SyncConfig) SnapshotPath() string {
	return c.RemoteDir + "/" + c.SnapshotFile
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := ".promptsync"

	return &Config{
		Remote: RemoteConfig{
			Timeout:   30 * time.Second,
			UserAgent: "promptsync/1.0",
		},
		Storage: StorageConfig{
			DataDir:      dataDir,
			DatabasePath: filepath.Join(dataDir, "promptsync.db"),
		},
		Sync: SyncConfig{
			RemoteDir:    "/promptsync",
			SnapshotFile: "snapshot.json",
			DeviceName:   defaultDeviceName(),
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

func defaultDeviceName() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return "unknown-device"
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Remote.BaseURL == "" {
		return errors.New("remote.base_url is required")
	}

	if c.Remote.Timeout <= 0 {
		return errors.New("remote.timeout must be positive")
	}

	if c.Sync.RemoteDir == "" {
		return errors.New("sync.remote_dir is required")
	}

	if c.Sync.SnapshotFile == "" {
		return errors.New("sync.snapshot_file is required")
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDir,
		filepath.Dir(c.Storage.DatabasePath),
	}

	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
