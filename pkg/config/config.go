// Package config handles loading and saving hx configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/hx/config.yaml
//   - State:   ~/.local/state/hx/ (last-used scope)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIConfig holds picker preference settings.
type UIConfig struct {
	Prompt  string `yaml:"prompt,omitempty"`  // Picker prompt string
	Preview *bool  `yaml:"preview,omitempty"` // Show the preview pane (default true)
	NoColor bool   `yaml:"no_color,omitempty"`
}

// Config is the top-level configuration for hx.
type Config struct {
	// HistoryPath overrides the nushell history database location.
	HistoryPath string `yaml:"history_path,omitempty"`
	// DefaultScope is the scope hx starts in ("session", "directory",
	// "machine", "everywhere"). Ignored when RememberScope finds state.
	DefaultScope string `yaml:"default_scope,omitempty"`
	// RememberScope restores the last-used scope from the state dir.
	RememberScope *bool    `yaml:"remember_scope,omitempty"`
	UI            UIConfig `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultScope: "directory",
		UI: UIConfig{
			Prompt: "history〉",
		},
	}
}

// PreviewEnabled reports whether the preview pane should be shown.
func (c Config) PreviewEnabled() bool {
	return c.UI.Preview == nil || *c.UI.Preview
}

// RememberScopeEnabled reports whether the last-used scope is restored.
func (c Config) RememberScopeEnabled() bool {
	return c.RememberScope == nil || *c.RememberScope
}

// ConfigDir returns the XDG config directory for hx.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hx")
}

// StateDir returns the XDG state directory for hx.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "hx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "hx")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.UI.Prompt == "" {
		cfg.UI.Prompt = DefaultConfig().UI.Prompt
	}
	cfg.HistoryPath = expandHome(cfg.HistoryPath)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
