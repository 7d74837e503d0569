package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bloomlab/bloom/pkg/analytics"
)

// Config is the bloom.toml file contents. Every field has a default, so a
// missing file or a partial file is fine; CLI flags override whatever the
// file set.
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// AnalysisConfig sets default parameters for ranking commands.
type AnalysisConfig struct {
	Damping    float64 `toml:"damping"`
	Iterations int     `toml:"iterations"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "mongo", or "none".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Defaults to the XDG cache dir.
	Dir string `toml:"dir"`

	// Redis backend settings.
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// Mongo backend settings.
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig sets defaults for the serve command.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	Datasets string `toml:"datasets"`
	Watch    bool   `toml:"watch"`
}

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{
			Damping:    analytics.DefaultDamping,
			Iterations: analytics.DefaultIterations,
		},
		Cache: CacheConfig{
			Backend:    "file",
			Database:   appName,
			Collection: "cache",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// loadConfig reads bloom.toml from path, or from the XDG config location
// when path is empty. A missing file yields the defaults; a malformed file
// is an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, appName+".toml")
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// configDir returns the config directory using the XDG standard
// (~/.config/bloom/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
