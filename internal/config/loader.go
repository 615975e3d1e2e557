package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources: defaults,
// then a config file (JSON or YAML), then PROMPTSYNC_* environment
// variables, highest priority last.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a config loader. An empty configPath searches the
// default locations.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  "PROMPTSYNC",
	}
}

// Load reads configuration from file and environment.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	// Start with defaults
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configPath != "" {
		v.SetConfigFile(l.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", l.configPath, err)
		}
	} else {
		v.SetConfigName("config")
		for _, dir := range l.defaultPaths() {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("load config file: %w", err)
			}
			// No file is fine; defaults plus env still apply
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// defaultPaths returns default config file search directories.
func (l *Loader) defaultPaths() []string {
	paths := []string{"."}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".config", "promptsync"),
			filepath.Join(homeDir, ".promptsync"),
		)
	}

	return paths
}

// setDefaults registers default values so viper merges file and env
// overrides on top of them.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("remote.base_url", cfg.Remote.BaseURL)
	v.SetDefault("remote.username", cfg.Remote.Username)
	v.SetDefault("remote.password", cfg.Remote.Password)
	v.SetDefault("remote.timeout", cfg.Remote.Timeout)
	v.SetDefault("remote.user_agent", cfg.Remote.UserAgent)
	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("storage.database_path", cfg.Storage.DatabasePath)
	v.SetDefault("sync.remote_dir", cfg.Sync.RemoteDir)
	v.SetDefault("sync.snapshot_file", cfg.Sync.SnapshotFile)
	v.SetDefault("sync.device_id", cfg.Sync.DeviceID)
	v.SetDefault("sync.device_name", cfg.Sync.DeviceName)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size", cfg.Log.MaxSize)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age", cfg.Log.MaxAge)
}

// SaveExample writes an example config file.
func SaveExample(path string) error {
	cfg := DefaultConfig()
	cfg.Remote.BaseURL = "https://dav.example.com/remote.php/webdav"
	cfg.Remote.Username = "user"

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
