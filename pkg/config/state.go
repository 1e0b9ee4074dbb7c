package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// State is the small mutable slice of hx persisted across runs, kept
// separate from config.yaml so user edits and program writes never collide.
type State struct {
	// LastScope is the scope name active when the previous run ended.
	LastScope string `json:"last_scope,omitempty"`
}

// StatePath returns the full path to state.json.
func StatePath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "state.json")
}

// LoadState reads the state file. A missing or unreadable file yields the
// zero State; state is a convenience, never a failure mode.
func LoadState() State {
	return LoadStateFrom(StatePath())
}

// LoadStateFrom reads state from a specific path.
func LoadStateFrom(path string) State {
	var st State
	if path == "" {
		return st
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}
	}
	return st
}

// SaveState writes the state file to the XDG state directory.
func SaveState(st State) error {
	return SaveStateTo(st, StatePath())
}

// SaveStateTo writes state to a specific path.
func SaveStateTo(st State, path string) error {
	if path == "" {
		return fmt.Errorf("cannot determine state directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}
