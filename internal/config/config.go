// Package config loads focusbuddy's config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// EnvConfig overrides the config file location.
	EnvConfig = "FOCUSBUDDY_CONFIG"
	// EnvDB overrides db_path.
	EnvDB = "FOCUSBUDDY_DB"
)

// Config is the contents of config.toml. Empty paths mean "use the
// default location".
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `toml:"db_path"`

	// LogFile receives log output while the TUI owns the terminal.
	LogFile string `toml:"log_file"`

	// Bell rings the terminal bell when a phase ends. Defaults to true.
	Bell bool `toml:"bell"`

	// NotifyCommand, when set, runs on every completed phase with the
	// message as its last argument.
	NotifyCommand string `toml:"notify_command"`
}

// Default is the configuration used when no file exists.
func Default() *Config {
	return &Config{Bell: true}
}

// Dir returns ~/.config/focusbuddy (or the platform equivalent).
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config directory: %w", err)
	}
	return filepath.Join(cfg, "focusbuddy"), nil
}

// Path returns the config file to read: $FOCUSBUDDY_CONFIG if set, else
// config.toml inside Dir.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path, or Path() when path is empty. A missing file yields
// Default. $FOCUSBUDDY_DB overrides db_path.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	if db := strings.TrimSpace(os.Getenv(EnvDB)); db != "" {
		cfg.DBPath = db
	}
	cfg.DBPath = expandHome(strings.TrimSpace(cfg.DBPath))
	cfg.LogFile = expandHome(strings.TrimSpace(cfg.LogFile))
	cfg.NotifyCommand = strings.TrimSpace(cfg.NotifyCommand)
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LogPath is LogFile, or focusbuddy.log inside Dir.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "focusbuddy.log"), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
