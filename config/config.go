// Package config provides configuration loading for rei using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Display settings
type Display struct {
	Prompt   string `toml:"prompt"`
	PageSize int    `toml:"page_size"`
}

// Gemini fetching settings
type Fetcher struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
	MaxRedirects   int `toml:"max_redirects"`
}

// Bookmark settings
type Bookmarks struct {
	Path string `toml:"path"` // empty = ~/.reimarks
}

// Session settings
type Session struct {
	Restore bool `toml:"restore"`
}

// Log settings
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"` // empty = stderr
}

// Config is the main configuration struct
type Config struct {
	Display   Display   `toml:"display"`
	Fetcher   Fetcher   `toml:"fetcher"`
	Bookmarks Bookmarks `toml:"bookmarks"`
	Session   Session   `toml:"session"`
	Log       Log       `toml:"log"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Display: Display{
			Prompt:   "*",
			PageSize: 24,
		},
		Fetcher: Fetcher{
			TimeoutSeconds: 30,
			MaxRedirects:   5,
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rei"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration, layering user config on top of defaults.
// Returns the default config if no user config exists.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return Default(), nil // Return defaults if we can't determine path
	}
	return LoadFile(configPath)
}

// LoadFile loads the config at path over the defaults. A missing file
// yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	userCfg, err := loadFromTOML(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	// Layer user config on top of defaults
	return merge(cfg, userCfg), nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	// Display
	if user.Display.Prompt != "" {
		result.Display.Prompt = user.Display.Prompt
	}
	if user.Display.PageSize > 0 {
		result.Display.PageSize = user.Display.PageSize
	}

	// Fetcher
	if user.Fetcher.TimeoutSeconds > 0 {
		result.Fetcher.TimeoutSeconds = user.Fetcher.TimeoutSeconds
	}
	if user.Fetcher.MaxRedirects > 0 {
		result.Fetcher.MaxRedirects = user.Fetcher.MaxRedirects
	}

	// Bookmarks
	if user.Bookmarks.Path != "" {
		result.Bookmarks.Path = user.Bookmarks.Path
	}

	// Session
	if user.Session.Restore {
		result.Session.Restore = true
	}

	// Log
	if user.Log.Verbosity != 0 {
		result.Log.Verbosity = user.Log.Verbosity
	}
	if user.Log.File != "" {
		result.Log.File = user.Log.File
	}

	return &result
}

// FormatError formats a configuration error for user display.
func FormatError(err error) string {
	return fmt.Sprintf("Configuration error:\n\n%s", err.Error())
}
